package external

import (
	"github.com/sirupsen/logrus"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// LogrusLogger implements ports.Logger over logrus.FieldLogger, grounded on
// dexidp-dex's use of logrus.FieldLogger as the injected logger type across
// its connector implementations.
type LogrusLogger struct {
	entry logrus.FieldLogger
}

// NewLogrusLogger wraps a configured *logrus.Logger.
func NewLogrusLogger(base *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{entry: base}
}

func (l *LogrusLogger) Debug(msg string, fields ...ports.Field) { l.withFields(fields).Debug(msg) }
func (l *LogrusLogger) Info(msg string, fields ...ports.Field)  { l.withFields(fields).Info(msg) }
func (l *LogrusLogger) Warn(msg string, fields ...ports.Field)  { l.withFields(fields).Warn(msg) }
func (l *LogrusLogger) Error(msg string, fields ...ports.Field) { l.withFields(fields).Error(msg) }

func (l *LogrusLogger) WithFields(fields ...ports.Field) ports.Logger {
	return &LogrusLogger{entry: l.withFields(fields)}
}

func (l *LogrusLogger) withFields(fields []ports.Field) logrus.FieldLogger {
	if len(fields) == 0 {
		return l.entry
	}
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return l.entry.WithFields(data)
}

var _ ports.Logger = (*LogrusLogger)(nil)
