package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_CreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log := New(Options{Level: "info", FilePath: path, MaxSizeMB: 1})

	log.Info().Msg("startup")
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

func TestNew_ConsoleOnly(t *testing.T) {
	log := New(Options{Level: "debug", Console: true})
	log.Debug().Str("k", "v").Msg("should not panic")
}
