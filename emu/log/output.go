package log

import (
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/Sirupsen/logrus.v0"
)

var (
	logger   = newLogger(os.Stderr)
	disabled bool
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.Out = w
	l.Level = logrus.DebugLevel
	l.Formatter = &logrus.TextFormatter{
		ForceColors:      isTerminal(w),
		DisableTimestamp: true,
	}
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// Disable turns off all logging, warnings and errors included.
func Disable() {
	disabled = true
}
