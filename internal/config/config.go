// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SiteConfig describes one provider site: its mirror candidates in
// priority order and the request budget the site tolerates.
type SiteConfig struct {
	Mirrors    []string `mapstructure:"mirrors"`
	HealthPath string   `mapstructure:"health_path"`
	RateLimit  int      `mapstructure:"rate_limit"`
}

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port          int `mapstructure:"port"`
	ProbeInterval int `mapstructure:"probe_interval"`
	HTTP          struct {
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		UserAgent      string `mapstructure:"user_agent"`
	} `mapstructure:"http"`
	Player struct {
		Hosts []string `mapstructure:"hosts"`
	} `mapstructure:"player"`
	Sites map[string]SiteConfig `mapstructure:"sites"`
}

// HTTPTimeout returns the configured request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "FSCLIENT_"
	// prefix. e.g., FSCLIENT_HTTP_USER_AGENT overrides `http.user_agent`.
	viper.SetEnvPrefix("FSCLIENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("probe_interval", 30)
	viper.SetDefault("http.timeout_seconds", 20)
	viper.SetDefault("http.user_agent", "")
	viper.SetDefault("player.hosts", []string{})

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ConfigFilePath reports the config file Viper actually loaded, or ""
// when running on defaults.
func ConfigFilePath() string {
	return viper.ConfigFileUsed()
}
