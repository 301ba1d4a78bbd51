// Package logrus adapts a *logrus.Entry to versiondb.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/versiondb"
)

var _ versiondb.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l with a component=versiondb field.
func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "versiondb")}
}

func (l LogrusLogger) Debug(msg string, f versiondb.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f versiondb.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f versiondb.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f versiondb.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) with(f versiondb.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
