package zap

import (
	"github.com/lintang-b-s/place-search/pkg/logger/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a json logger writing to stderr.
func New(cfg config.Configuration) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(Level(cfg.Level))
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	if cfg.Level == config.DEBUG_LEVEL {
		zapCfg.Development = true
	}

	return zapCfg.Build(zap.AddCaller())
}

func Level(level int) zapcore.Level {
	switch level {
	case config.FATAL_LEVEL:
		return zapcore.FatalLevel
	case config.ERROR_LEVEL:
		return zapcore.ErrorLevel
	case config.WARN_LEVEL:
		return zapcore.WarnLevel
	case config.DEBUG_LEVEL:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
