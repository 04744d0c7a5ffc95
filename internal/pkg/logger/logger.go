package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level       string
	Environment string
	ServiceName string
	// File enables an additional rotating JSON sink when set.
	File string
}

// New builds a zap logger and installs it as the global logger.
func New(cfg Config) (*zap.Logger, error) {
	level := parseLevel(cfg.Level)

	var (
		log *zap.Logger
		err error
	)
	if isProduction(cfg.Environment) {
		prodConfig := zap.NewProductionConfig()
		prodConfig.Level = zap.NewAtomicLevelAt(level)
		prodConfig.EncoderConfig.TimeKey = "timestamp"
		prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log, err = prodConfig.Build()
	} else {
		devConfig := zap.NewDevelopmentConfig()
		devConfig.Level = zap.NewAtomicLevelAt(level)
		devConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		log, err = devConfig.Build()
	}
	if err != nil {
		return nil, err
	}

	if cfg.File != "" {
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore(cfg.File, level))
		}))
	}

	log = log.With(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)
	zap.ReplaceGlobals(log)
	return log, nil
}

// Nop returns a logger that discards everything; used by tests and tools.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func fileCore(path string, level zapcore.Level) zapcore.Core {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     28,
		LocalTime:  true,
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(sink), level)
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func isProduction(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync(log *zap.Logger) {
	_ = log.Sync()
}
