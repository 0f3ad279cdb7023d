package log

import (
	stdlog "log"
	"strings"
)

type stdWriter struct{ l Logger }

func (w stdWriter) Write(p []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// RedirectStdLog sends output of the standard library logger to l at
// InfoLevel.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{l: l.WithComponent("stdlog")})
}
