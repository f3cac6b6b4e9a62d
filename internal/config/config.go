// Package config loads this server's deployment knobs from the
// environment via viper. The key list is flat and env-var-only: no
// YAML file layer, no mapstructure decode hooks: each key maps to a
// single scalar field.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of deployment knobs.
type Config struct {
	ServerID   string
	ServerHost string
	ServerPort int
	ServerURL  string

	PackagesDir    string
	SessionTimeout time.Duration
	Debug          bool

	DefaultUsername string
	DefaultPassword string
	ServerUsername  string
	ServerPassword  string
}

// Load reads Config from the environment, applying the defaults below
// for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("SERVER_ID", "SERVER-ID")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_URL", "http://localhost:8080")
	v.SetDefault("PACKAGES_DIR", "./packages")
	v.SetDefault("SESSION_TIMEOUT", 3600)
	v.SetDefault("DEBUG", false)
	v.SetDefault("DEFAULT_USERNAME", "guest")
	v.SetDefault("DEFAULT_PASSWORD", "guest")
	v.SetDefault("SERVER_USERNAME", "server")
	v.SetDefault("SERVER_PASSWORD", "server")

	port := v.GetInt("SERVER_PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("config: invalid SERVER_PORT %d", port)
	}

	return &Config{
		ServerID:        v.GetString("SERVER_ID"),
		ServerHost:      v.GetString("SERVER_HOST"),
		ServerPort:      port,
		ServerURL:       v.GetString("SERVER_URL"),
		PackagesDir:     v.GetString("PACKAGES_DIR"),
		SessionTimeout:  time.Duration(v.GetInt("SESSION_TIMEOUT")) * time.Second,
		Debug:           v.GetBool("DEBUG"),
		DefaultUsername: v.GetString("DEFAULT_USERNAME"),
		DefaultPassword: v.GetString("DEFAULT_PASSWORD"),
		ServerUsername:  v.GetString("SERVER_USERNAME"),
		ServerPassword:  v.GetString("SERVER_PASSWORD"),
	}, nil
}

// Addr is the host:port the HTTP listener binds.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
