package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dkeye/VoiceRelay/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWritesJSONToFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "relay.log")
	closer := Init(config.LogConfig{Level: "warn", Format: "json", File: path, MaxSize: 1})

	log.Info().Str("module", "test").Msg("filtered")
	log.Warn().Str("module", "test").Msg("kept")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(lines), lines)
	}
	if lines[0]["message"] != "kept" || lines[0]["module"] != "test" || lines[0]["level"] != "warn" {
		t.Errorf("line = %v", lines[0])
	}
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	Init(config.LogConfig{Level: "loud", Format: "console"})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", zerolog.GlobalLevel())
	}
}
