// Package logrus adapts sirupsen/logrus to statefor.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/statefor"
)

var _ statefor.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps a logger; a nil logger falls back to logrus.StandardLogger().
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{E: logrus.NewEntry(l)}
}

func (l Logger) Debug(msg string, f statefor.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f statefor.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f statefor.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f statefor.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
