// Package config handles the parsing and validation of application configuration
// from command-line arguments, environment variables and the JSON secrets file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/woozymasta/wzbot/internal/logger"
	"github.com/woozymasta/wzbot/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Telegram Telegram      `group:"Telegram Options" namespace:"telegram" env-namespace:"WZBOT_TELEGRAM"`
	API      API           `group:"Stats API Options" namespace:"api" env-namespace:"WZBOT_API"`
	Logger   logger.Config `group:"Logger Options" namespace:"log" env-namespace:"WZBOT_LOG"`

	ConfigPath string `short:"c" long:"config" env:"WZBOT_CONFIG" description:"Path to JSON config file with bot token, credentials and admin ids"`
	Local      string `long:"local" env:"WZBOT_LOCAL" description:"Read commands from the terminal instead of Telegram" choice:"true" choice:"false" default:"false"`
	Version    bool   `short:"v" long:"version" description:"Print version and build info"`

	// File is filled by LoadFile, never from flags.
	File File `no-flag:"true"`
}

// Telegram holds chat transport configuration.
type Telegram struct {
	// betteralign:ignore

	Workers     int           `long:"workers" env:"WORKERS" description:"Number of messages handled concurrently" default:"4"`
	PollTimeout time.Duration `long:"poll-timeout" env:"POLL_TIMEOUT" description:"Long polling timeout for getUpdates" default:"60s"`
	UserLimit   int           `long:"user-limit" env:"USER_LIMIT" description:"Commands allowed per user within user-window (0 disables the limit)" default:"10"`
	UserWindow  time.Duration `long:"user-window" env:"USER_WINDOW" description:"Window of the per-user command limit" default:"1m"`
	Debug       bool          `long:"debug" env:"DEBUG" description:"Log raw Telegram API requests"`
}

// API holds stats provider client configuration.
type API struct {
	// betteralign:ignore

	RPS        float64       `long:"rps" env:"RPS" description:"Max provider requests per second" default:"2"`
	Burst      int           `long:"burst" env:"BURST" description:"Provider request burst size" default:"2"`
	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"Provider request timeout" default:"30s"`
	ProfileURL string        `long:"profile-url" env:"PROFILE_URL" description:"Profile (login) service base URL" default:"https://profile.callofduty.com" hidden:"true"`
	StatsURL   string        `long:"stats-url" env:"STATS_URL" description:"Stats service base URL" default:"https://my.callofduty.com/api/papi-client" hidden:"true"`
}

// IsLocal reports whether the interactive console mode was requested.
func (c *Config) IsLocal() bool {
	return c.Local == "true"
}

// Parse reads the configuration from flags, environment variables and a .env file.
// It terminates the application if the flags are invalid or if the help or version flag is invoked.
// The JSON file referenced by --config is loaded separately with LoadFile.
func Parse() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Failed to read .env file:", err)
	}

	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		if !errors.As(err, &flagsErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print(os.Stdout)
		os.Exit(0)
	}

	if cfg.ConfigPath == "" {
		fmt.Fprintln(os.Stderr,
			"Required flag `-c, --config' or environment variable `WZBOT_CONFIG` was not specified!")
		os.Exit(1)
	}

	return cfg
}

func parseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Telegram.Workers < 1 {
		cfg.Telegram.Workers = 1
	}

	return &cfg, nil
}
