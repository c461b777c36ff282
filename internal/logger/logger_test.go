package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	closer := Setup(Config{Level: "warn", Format: "json", Output: path})

	log.Info().Msg("hidden")
	log.Warn().Str("command", "user").Msg("shown")

	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Setup(Config{Level: "info"}) })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %q", lines)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["message"] != "shown" || entry["command"] != "user" || entry["level"] != "warn" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatal("entry must carry a timestamp")
	}
}

func TestSetupBadLevelFallsBackToInfo(t *testing.T) {
	closer := Setup(Config{Level: "loud", Output: "stderr"})
	defer closer.Close()

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %s", zerolog.GlobalLevel())
	}
}
