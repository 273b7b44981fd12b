// Package zap adapts go.uber.org/zap to statefor.Logger.
package zap

import (
	"github.com/unkn0wn-root/statefor"
	"go.uber.org/zap"
)

var _ statefor.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New returns an adapter that tags every entry with component=statefor.
func New(l *zap.Logger) Logger { return Logger{L: l.With(zap.String("component", "statefor"))} }

func (z Logger) Debug(msg string, f statefor.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f statefor.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f statefor.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f statefor.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f statefor.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
