package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vysogota0399/transactions_api/internal/config"
)

type ctxFieldsKey struct{}

type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

func NewZapLogger(cfg *config.Config) (*ZapLogger, error) {
	level := zap.NewAtomicLevelAt(zapcore.Level(cfg.LogLevel))

	zcfg := zap.NewProductionConfig()
	if cfg.Env == config.EnvDevelopment {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	zcfg.DisableStacktrace = true
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := zcfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{logger: logger, level: level}, nil
}

// New wraps an existing zap logger, mostly for tests.
func New(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger, level: zap.NewAtomicLevelAt(logger.Level())}
}

func NewNop() *ZapLogger {
	return New(zap.NewNop())
}

func (l *ZapLogger) Std() *zap.Logger {
	return l.logger
}

func (l *ZapLogger) WithContextFields(ctx context.Context, fields ...zap.Field) context.Context {
	ctxFields, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)

	merged := make([]zap.Field, 0, len(ctxFields)+len(fields))
	merged = append(merged, ctxFields...)
	merged = append(merged, fields...)

	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

func (l *ZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields...)
}

func (l *ZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *ZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *ZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func (l *ZapLogger) log(ctx context.Context, lvl zapcore.Level, msg string, fields ...zap.Field) {
	if !l.level.Enabled(lvl) {
		return
	}

	if ctxFields, ok := ctx.Value(ctxFieldsKey{}).([]zap.Field); ok {
		fields = append(ctxFields[:len(ctxFields):len(ctxFields)], fields...)
	}

	if ce := l.logger.Check(lvl, msg); ce != nil {
		ce.Write(fields...)
	}
}
