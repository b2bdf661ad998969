package logging

import (
	"context"
	"exzly/internal/core/domain/logging"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File enables an additional rotated JSON sink when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	file   *lumberjack.Logger
}

func NewZapLogger(opts Options) *ZapLogger {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			panic("Could not parse log level: " + opts.Level)
		}
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
	}

	l := newZapLogger(zapcore.NewTee(cores...))
	l.file = file
	return l
}

func newZapLogger(core zapcore.Core) *ZapLogger {
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &ZapLogger{logger: logger, sugar: logger.Sugar()}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
	if l.file != nil {
		l.file.Close()
	}
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(ctx, entries...)...)
}

func prepareArgs(ctx context.Context, entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2+2)
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		args = append(args, "requestId", reqID)
	}
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}
