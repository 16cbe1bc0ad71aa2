package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	mu      sync.RWMutex
	sugared = zap.NewNop().Sugar()
)

// Init builds the process-wide logger. "prod"/"production" gives JSON
// output at info level, "test" discards everything, anything else is the
// zap development config.
func Init(mode string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch strings.ToLower(mode) {
	case "prod", "production":
		l, err = zap.NewProductionConfig().Build()
	case "test", "silent":
		l = zap.NewNop()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}

	Replace(l)
	return nil
}

// Replace swaps the process-wide logger, e.g. for an observer in tests.
func Replace(l *zap.Logger) {
	mu.Lock()
	sugared = l.Sugar()
	mu.Unlock()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugared
}

func Sync() {
	_ = get().Sync()
}

func Debug(msg string, keysAndValues ...interface{}) {
	get().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	get().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	get().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	get().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	get().Fatalw(msg, keysAndValues...)
}
