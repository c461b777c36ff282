package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseArgsDefaults(t *testing.T) {
	cfg, err := parseArgs([]string{"--config", "bot.json"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ConfigPath != "bot.json" {
		t.Fatalf("config path = %q", cfg.ConfigPath)
	}
	if cfg.IsLocal() {
		t.Fatal("local mode must be off by default")
	}
	if cfg.API.RPS != 2 || cfg.API.Burst != 2 {
		t.Fatalf("rate limit defaults = %v/%d, want 2/2", cfg.API.RPS, cfg.API.Burst)
	}
	if cfg.Telegram.PollTimeout != 60*time.Second {
		t.Fatalf("poll timeout = %s", cfg.Telegram.PollTimeout)
	}
	if cfg.Telegram.Workers != 4 || cfg.Telegram.UserLimit != 10 || cfg.Telegram.UserWindow != time.Minute {
		t.Fatalf("telegram defaults = %+v", cfg.Telegram)
	}
	if cfg.Logger.Level != "info" {
		t.Fatalf("log level = %q", cfg.Logger.Level)
	}
}

func TestParseArgsLocal(t *testing.T) {
	cfg, err := parseArgs([]string{"-c", "bot.json", "--local", "true", "--telegram-workers", "0"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.IsLocal() {
		t.Fatal("expected local mode")
	}
	if cfg.Telegram.Workers != 1 {
		t.Fatalf("workers = %d, want clamp to 1", cfg.Telegram.Workers)
	}
}

func TestParseArgsRejectsBadLocal(t *testing.T) {
	if _, err := parseArgs([]string{"-c", "bot.json", "--local", "yes"}); err == nil {
		t.Fatal("expected error for --local outside true/false")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
		"BOT_TOKEN": "123:abc",
		"ACTIVISION_EMAIL": "me@example.com",
		"ACTIVISION_PASSWORD": "hunter2",
		"ADMIN_ID": ["42", 1337]
	}`)

	cfg := &Config{ConfigPath: path}
	if err := cfg.LoadFile(); err != nil {
		t.Fatal(err)
	}

	if cfg.File.BotToken != "123:abc" {
		t.Fatalf("token = %q", cfg.File.BotToken)
	}
	if cfg.File.ActivisionEmail != "me@example.com" || cfg.File.ActivisionPassword != "hunter2" {
		t.Fatalf("credentials not loaded: %+v", cfg.File)
	}
	if len(cfg.File.AdminIDs) != 2 || cfg.File.AdminIDs[0] != "42" || cfg.File.AdminIDs[1] != "1337" {
		t.Fatalf("admin ids = %v", cfg.File.AdminIDs)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadFileEnvOverride(t *testing.T) {
	path := writeConfig(t, `{"BOT_TOKEN": "from-file", "ADMIN_ID": [1]}`)
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("ADMIN_ID", "7,8")

	cfg := &Config{ConfigPath: path}
	if err := cfg.LoadFile(); err != nil {
		t.Fatal(err)
	}

	if cfg.File.BotToken != "from-env" {
		t.Fatalf("token = %q, want env override", cfg.File.BotToken)
	}
	if len(cfg.File.AdminIDs) != 2 || cfg.File.AdminIDs[1] != "8" {
		t.Fatalf("admin ids = %v", cfg.File.AdminIDs)
	}
}

func TestValidateMissingToken(t *testing.T) {
	path := writeConfig(t, `{"ACTIVISION_EMAIL": "me@example.com"}`)

	cfg := &Config{ConfigPath: path}
	if err := cfg.LoadFile(); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("validate = %v, want ErrMissingToken", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	cfg := &Config{ConfigPath: filepath.Join(t.TempDir(), "missing.json")}
	if err := cfg.LoadFile(); err == nil {
		t.Fatal("expected error for missing file")
	}

	cfg = &Config{ConfigPath: writeConfig(t, `{"ADMIN_ID": [true]}`)}
	if err := cfg.LoadFile(); err == nil {
		t.Fatal("expected error for boolean admin id")
	}
}
