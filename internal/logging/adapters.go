package logging

import (
	"context"
	"fmt"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vysogota0399/transactions_api/internal/config"
)

// printfAdapter routes Printf style library output to a ZapLogger at a fixed
// level, tagged with the library name.
type printfAdapter struct {
	lg    *ZapLogger
	level zapcore.Level
	name  string
}

func (a printfAdapter) Printf(format string, args ...interface{}) {
	a.lg.log(
		a.lg.WithContextFields(context.Background(), zap.String("name", a.name)),
		a.level,
		fmt.Sprintf(format, args...),
	)
}

// KafkaLogger receives kafka-go reader chatter at debug level, filtered by
// KAFKA_LOG_LEVEL.
type KafkaLogger struct {
	printfAdapter
}

func NewKafkaLogger(cfg *config.Config) (*KafkaLogger, error) {
	lg, err := NewZapLogger(&config.Config{Env: cfg.Env, LogLevel: cfg.KafkaLogLevel})
	if err != nil {
		return nil, err
	}

	return &KafkaLogger{printfAdapter{lg: lg, level: zapcore.DebugLevel, name: "kafka"}}, nil
}

type KafkaErrorLogger struct {
	printfAdapter
}

func NewKafkaErrorLogger(lg *ZapLogger) *KafkaErrorLogger {
	return &KafkaErrorLogger{printfAdapter{lg: lg, level: zapcore.ErrorLevel, name: "kafka"}}
}

// GooseLogger satisfies goose.Logger.
type GooseLogger struct {
	printfAdapter
}

func NewGooseLogger(lg *ZapLogger) *GooseLogger {
	return &GooseLogger{printfAdapter{lg: lg, level: zapcore.InfoLevel, name: "goose"}}
}

func (l *GooseLogger) Fatalf(format string, a ...interface{}) {
	l.lg.logger.Fatal(fmt.Sprintf(format, a...), zap.String("name", l.name))
}

func NewFxLogger(lg *ZapLogger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: lg.Std()}
}
