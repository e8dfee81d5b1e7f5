package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/layerterm/config"
)

const (
	logDir      = "logs"
	logFileName = "layerdemo.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging opens the debug log under cfg.Dir (logDir when empty), rotating it past maxLogSize
// Returns nil and discards the standard logger when debug is off
// Never writes to stdout or stderr: the terminal belongs to the renderer
func setupLogging(cfg config.LoggingConfig) *os.File {
	dir := cfg.Dir
	if dir == "" {
		dir = logDir
	}
	return setupLoggingIn(dir, cfg.Debug)
}

func setupLoggingIn(dir string, debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(dir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("layerdemo-%s.log", time.Now().Format("20060102-150405")))
		os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

// newLogger builds a zap logger writing to f; a nil f yields a no-op logger
func newLogger(f *os.File, cfg config.LoggingConfig) *zap.Logger {
	if f == nil {
		return zap.NewNop()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		ec.ConsoleSeparator = "  "
		enc = zapcore.NewConsoleEncoder(ec)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(f), level))
}
