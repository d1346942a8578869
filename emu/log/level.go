package log

import "gopkg.in/Sirupsen/logrus.v0"

// Level is a logging level, ordered like logrus levels: lower is more severe.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func (lvl Level) logrus() logrus.Level {
	return logrus.Level(lvl)
}

func (lvl Level) String() string {
	return lvl.logrus().String()
}
