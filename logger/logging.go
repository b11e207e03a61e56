package logger

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	enabled = true // flip to false to nuke logs
	logger  = newLogger("blockfall", log.InfoLevel)
)

func newLogger(prefix string, level log.Level) *log.Logger {
	l := log.New(os.Stdout)
	l.SetPrefix(prefix)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetLevel(level)
	return l
}

// Init replaces the process logger. Unknown levels fall back to info.
func Init(prefix, level string) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger = newLogger(prefix, lvl)
}

func EnableLogging(b bool) {
	enabled = b
}

func Debug(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Debugf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	if !enabled {
		return
	}

	logger.Infof(msg, v...)

}

func Warn(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Warnf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Errorf(msg, v...)
}
