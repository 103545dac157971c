package logging

import "github.com/rs/zerolog"

// InternalLogger is an interface used by operations and tasks for logging.
// It allows keeping a copy of the output next to the operation, for example for `mcauth login -v`.
type InternalLogger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

var _ InternalLogger = (*ZLogger)(nil)

type ZLogger struct {
	ZLog zerolog.Logger
}

func NewZLogger(zlog zerolog.Logger) ZLogger {
	return ZLogger{ZLog: zlog}
}

func (l ZLogger) Debug(format string, args ...any) {
	l.ZLog.Debug().Msgf(format, args...)
}

func (l ZLogger) Info(format string, args ...any) {
	l.ZLog.Info().Msgf(format, args...)
}

func (l ZLogger) Warn(format string, args ...any) {
	l.ZLog.Warn().Msgf(format, args...)
}

func (l ZLogger) Error(format string, args ...any) {
	l.ZLog.Error().Msgf(format, args...)
}

var _ InternalLogger = (*MultiLogger)(nil)

type MultiLogger struct {
	Loggers []InternalLogger
}

func NewMultiLogger(loggers ...InternalLogger) MultiLogger {
	return MultiLogger{Loggers: loggers}
}

func (l MultiLogger) Debug(format string, args ...any) {
	for _, logger := range l.Loggers {
		logger.Debug(format, args...)
	}
}

func (l MultiLogger) Info(format string, args ...any) {
	for _, logger := range l.Loggers {
		logger.Info(format, args...)
	}
}

func (l MultiLogger) Warn(format string, args ...any) {
	for _, logger := range l.Loggers {
		logger.Warn(format, args...)
	}
}

func (l MultiLogger) Error(format string, args ...any) {
	for _, logger := range l.Loggers {
		logger.Error(format, args...)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
