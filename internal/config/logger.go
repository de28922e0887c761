package config

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes JSON logs to stdout and to a rotated file in dir.  Debug
// switches to the console encoder and debug level.
func NewLogger(dir string, debug bool) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	if debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	encoder := zapcore.NewJSONEncoder(encCfg)
	level := zap.InfoLevel
	if debug {
		encoder = zapcore.NewConsoleEncoder(encCfg)
		level = zap.DebugLevel
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)}
	if dir != "" {
		w, err := RotatingFile(filepath.Join(dir, "hotel-reservation.log"))
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, w, level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// RotatingFile returns a size-rotated writer for path, creating its
// directory if needed.
func RotatingFile(path string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}), nil
}
