package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger = zap.NewNop().Sugar()
)

type ctxKey struct{}

type Logger struct {
	Zap *zap.Logger
}

// Config mirrors the log section of the app configs.
type Config struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func New() *Logger {
	zapLogger, _ := zap.NewProduction()
	return setDefault(zapLogger)
}

// NewWithConfig logs JSON to stdout and, when File is set, to a rotated file.
func NewWithConfig(cfg Config) (*Logger, error) {
	level := zap.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotated), level))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return setDefault(zapLogger), nil
}

func NewNop() *Logger {
	return &Logger{Zap: zap.NewNop()}
}

func setDefault(zapLogger *zap.Logger) *Logger {
	defaultLogger = zapLogger.With(
		zap.String("logger", "defaultLogger"),
	).WithOptions(
		zap.AddCallerSkip(1),
	).Sugar()

	return &Logger{Zap: zapLogger}
}

// WithContext stores a request scoped logger.
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Sl returns the logger stored in ctx or the process default.
func Sl(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}
	return defaultLogger
}
