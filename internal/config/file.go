package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ErrMissingToken is returned by Validate when no bot token was configured.
var ErrMissingToken = errors.New("no bot token provided")

// File is the JSON secrets file referenced by --config.
// Every value may be overridden by an environment variable of the same name.
type File struct {
	BotToken           string   `json:"BOT_TOKEN" env:"BOT_TOKEN"`
	ActivisionEmail    string   `json:"ACTIVISION_EMAIL" env:"ACTIVISION_EMAIL"`
	ActivisionPassword string   `json:"ACTIVISION_PASSWORD" env:"ACTIVISION_PASSWORD"`
	AdminIDs           []string `json:"ADMIN_ID" env:"ADMIN_ID" envSeparator:","`
}

// UnmarshalJSON accepts ADMIN_ID entries both as JSON strings and as bare numbers.
func (f *File) UnmarshalJSON(data []byte) error {
	type plain File
	aux := struct {
		*plain
		AdminIDs []json.RawMessage `json:"ADMIN_ID"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	f.AdminIDs = make([]string, 0, len(aux.AdminIDs))
	for _, raw := range aux.AdminIDs {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			f.AdminIDs = append(f.AdminIDs, strings.TrimSpace(s))
			continue
		}

		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("ADMIN_ID: unsupported value %s", raw)
		}
		f.AdminIDs = append(f.AdminIDs, n.String())
	}

	return nil
}

// LoadFile reads the JSON file at c.ConfigPath into c.File and applies environment overrides.
func (c *Config) LoadFile() error {
	f, err := osOpen(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", c.ConfigPath, err)
	}

	if err := env.Parse(&file); err != nil {
		return fmt.Errorf("apply env overrides: %w", err)
	}

	c.File = file
	return nil
}

// Validate checks the loaded file for values the bot cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.File.BotToken) == "" {
		return ErrMissingToken
	}

	return nil
}

// osOpen is separated for testability.
var osOpen = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
