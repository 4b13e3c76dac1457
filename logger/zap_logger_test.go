package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/saiset-co/sai-pipeline/types"
)

func TestNewDefaultLoggerDefaults(t *testing.T) {
	log, err := NewDefaultLogger(nil)
	if err != nil {
		t.Fatalf("NewDefaultLogger() error = %v", err)
	}
	log.Info("smoke", zap.String("key", "value"))
}

func TestNewDefaultLoggerJSONFormat(t *testing.T) {
	log, err := NewDefaultLogger(&types.LoggerConfig{
		Level:  "debug",
		Config: &ZapLoggerConfig{Format: "json", Output: "stderr"},
	})
	if err != nil {
		t.Fatalf("NewDefaultLogger() error = %v", err)
	}
	log.Debug("smoke")
}

func TestNewDefaultLoggerFileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "service.log")

	log, err := NewDefaultLogger(&types.LoggerConfig{
		Config: &ZapLoggerConfig{Format: "json", Output: "file", File: file},
	})
	if err != nil {
		t.Fatalf("NewDefaultLogger() error = %v", err)
	}
	log.Info("written to file")
}

func TestNewDefaultLoggerFileOutputRequiresPath(t *testing.T) {
	_, err := NewDefaultLogger(&types.LoggerConfig{
		Config: &ZapLoggerConfig{Output: "file"},
	})
	if !errors.Is(err, types.ErrLogFileIsEmpty) {
		t.Fatalf("error = %v, want ErrLogFileIsEmpty", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for input, want := range cases {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestErrorWithCause(t *testing.T) {
	log, err := NewDefaultLogger(nil)
	if err != nil {
		t.Fatalf("NewDefaultLogger() error = %v", err)
	}

	wrapper := log.(*ZapWrapper)
	wrapper.ErrorWithCause("request failed", types.WrapError(errors.New("root cause"), "context"))
	wrapper.ErrorWithCause("no error attached", nil)
}
