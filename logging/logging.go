// Package logging builds the process logger from configuration.
package logging

import (
	"context"
	"fmt"

	"github.com/teilomillet/legalease/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for cfg and the level handle controlling it. The
// json format uses the production encoder, text the development console
// encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("parse log level: %w", err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "json", "":
		zc = zap.NewProductionConfig()
	case "text":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zc.Level = level
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("build logger: %w", err)
	}
	return logger, level, nil
}

// FollowLevel applies logging.level from every config published by w
// until ctx is done or the subscription closes.
func FollowLevel(ctx context.Context, w config.Watcher, level zap.AtomicLevel, logger *zap.Logger) {
	updates := w.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			if cfg == nil {
				continue
			}
			next, err := zapcore.ParseLevel(cfg.Logging.Level)
			if err != nil {
				logger.Warn("ignoring invalid log level", zap.String("level", cfg.Logging.Level))
				continue
			}
			if next != level.Level() {
				logger.Info("log level changed",
					zap.Stringer("from", level.Level()),
					zap.Stringer("to", next),
				)
				level.SetLevel(next)
			}
		}
	}
}
