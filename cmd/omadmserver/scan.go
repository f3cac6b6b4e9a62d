package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/webos-oma/omadmserver/catalog"
	"github.com/webos-oma/omadmserver/internal/apperr"
	"github.com/webos-oma/omadmserver/internal/config"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rescan the packages directory and exit",
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return apperr.Wrap(apperr.CodeConfig, "load configuration", err)
	}

	cat, err := catalog.New(cfg.PackagesDir)
	if err != nil {
		return apperr.Wrap(apperr.CodeCatalog, "load catalog", err)
	}

	added, err := cat.Rescan()
	if err != nil {
		return apperr.Wrap(apperr.CodeCatalog, "rescan packages directory", err)
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Printf("Scan complete: ")
	fmt.Printf("%d new package(s) added (%d total)\n", added, len(cat.List()))
	return nil
}
