package appprofiles

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LogFileName is the name of the log file inside the log directory.
const LogFileName = "info.log"

// NewLogger builds the JSON logger writing to the log file, creating the log directory when missing.
//
// Standard output is never used since it carries the protocol.
func NewLogger(s *Settings) (*zap.Logger, error) {
	if err := os.MkdirAll(s.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("couldn't create log directory: %w", err)
	}
	file := filepath.Join(s.LogDir, LogFileName)

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(s.LogLevel),
		Encoding:         "json",
		OutputPaths:      []string{file},
		ErrorOutputPaths: []string{file},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize logger: %w", err)
	}

	return logger, nil
}
