package log

import (
	"io"
	"os"
	"strings"

	"costlens/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger 依設定建立 zap logger：warn 以下寫 stdout，warn 以上寫 stderr
func NewLogger(conf *config.Configuration) (*zap.Logger, error) {
	return newLogger(conf, os.Stdout, os.Stderr)
}

func newLogger(conf *config.Configuration, stdout, stderr io.Writer) (*zap.Logger, error) {
	level, err := parseLevel(conf.Log.Level)
	if err != nil {
		return nil, err
	}
	threshold := zap.NewAtomicLevelAt(level)

	encoder := newEncoder(conf.Log.Format)
	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return threshold.Enabled(l) && l < zapcore.WarnLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return threshold.Enabled(l) && l >= zapcore.WarnLevel
	})
	tee := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(stdout), low),
		zapcore.NewCore(encoder, zapcore.AddSync(stderr), high),
	)

	logger := zap.New(tee,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(
			zap.String("service", conf.App.Name),
			zap.String("env", conf.App.Env),
		),
	)
	logger.Debug("logger ready", zap.Stringer("level", level), zap.String("format", formatName(conf.Log.Format)))
	return logger, nil
}

// 空字串視為 info
func parseLevel(raw string) (zapcore.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.MessageKey = "message"
	encCfg.LevelKey = "level"
	encCfg.TimeKey = "ts"
	encCfg.CallerKey = "caller"
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if formatName(format) == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewJSONEncoder(encCfg)
}

func formatName(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		return "console"
	}
	return "json"
}
