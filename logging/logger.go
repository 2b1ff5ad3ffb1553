// Package logging builds the diagnostic logger used across the client.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"howlongtobeat/models"
)

// Log file rotation limits
const (
	maxSizeMB  = 10
	maxAgeDays = 14
	maxBackups = 3
)

// New creates a logger for the given settings. With Debug off only warnings
// and errors are written, so discovery steps, request URLs and response
// bodies stay silent. Diagnostics go to stderr, never stdout.
func New(settings *models.Settings) (*zap.Logger, error) {
	return newLogger(settings, os.Stderr)
}

func newLogger(settings *models.Settings, stream io.Writer) (*zap.Logger, error) {
	if settings == nil {
		settings = models.DefaultSettings()
	}

	level := zapcore.WarnLevel
	if settings.Debug {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(stream), level),
	}

	if settings.LogFile != "" {
		fileWriter, err := fileWriter(settings.LogFile)
		if err != nil {
			return nil, err
		}
		fileConfig := encoderConfig
		fileConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(fileWriter), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// fileWriter creates a lumberjack file writer with rotation
func fileWriter(filename string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxAge:     maxAgeDays,
		MaxBackups: maxBackups,
		LocalTime:  true,
	}, nil
}
