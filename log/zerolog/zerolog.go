// Package zerolog adapts rs/zerolog to statefor.Logger.
package zerolog

import (
	"github.com/rs/zerolog"
	"github.com/unkn0wn-root/statefor"
)

var _ statefor.Logger = Logger{}

type Logger struct{ L zerolog.Logger }

func (z Logger) Debug(msg string, f statefor.Fields) { emit(z.L.Debug(), msg, f) }
func (z Logger) Info(msg string, f statefor.Fields)  { emit(z.L.Info(), msg, f) }
func (z Logger) Warn(msg string, f statefor.Fields)  { emit(z.L.Warn(), msg, f) }
func (z Logger) Error(msg string, f statefor.Fields) { emit(z.L.Error(), msg, f) }

func emit(ev *zerolog.Event, msg string, f statefor.Fields) {
	if ev == nil {
		return // level disabled
	}
	for k, v := range f {
		if err, ok := v.(error); ok {
			ev = ev.AnErr(k, err)
			continue
		}
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
