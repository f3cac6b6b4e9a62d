// Command omadmserver runs the OMA DM / SyncML update server, or
// performs one-shot package catalog maintenance.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/webos-oma/omadmserver/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "omadmserver",
	Short: "OMA DM / SyncML update server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if envLevel := os.Getenv("OMADMSERVER_LOG_LEVEL"); envLevel != "" {
				level = envLevel
			}
		}
		logging.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, scanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
