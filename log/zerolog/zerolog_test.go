package zerolog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/unkn0wn-root/statefor"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: zerolog.New(&buf).Level(zerolog.InfoLevel)}

	l.Debug("state constructed", statefor.Fields{"key": "hidden"})
	l.Warn("state construction failed", statefor.Fields{"category": "wizard", "err": errors.New("boom")})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written below level: %s", out)
	}
	for _, want := range []string{`"level":"warn"`, `"category":"wizard"`, `"err":"boom"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %s missing %s", out, want)
		}
	}
}
