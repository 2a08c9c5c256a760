package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sozercan/insight-mole/internal/config"
)

// Init replaces the global zerolog logger according to cfg.
func Init(cfg config.LogConfig) {
	InitWriter(cfg, os.Stdout)
}

// InitWriter is Init with an explicit sink.
func InitWriter(cfg config.LogConfig, w io.Writer) {
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}
	logger := zerolog.New(w).With().Timestamp().Caller().Logger()

	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger
}
