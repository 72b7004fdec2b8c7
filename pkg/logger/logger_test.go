package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLevels(t *testing.T) {
	Init(Config{Debug: true, Service: "moneylens"})
	if log.Logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %s, want debug", log.Logger.GetLevel())
	}

	Init()
	if log.Logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %s, want info", log.Logger.GetLevel())
	}
}
