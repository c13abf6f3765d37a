// Package logging builds the zap logger shared by the cmmc commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates a logger at the given level. Format "console" gives
// human-readable output; anything else gives JSON.
func New(logLevel, logFormat string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	if logFormat == "console" {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		cfg.Encoding = "json"
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg.Level = level

	return cfg.Build()
}
