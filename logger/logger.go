// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ------------------- leveled loggers -------------------

// Leveled writes every message at a fixed zerolog level.
type Leveled struct {
	level zerolog.Level
}

// four logger levels accessible throughout the application
var (
	Info  = &Leveled{level: zerolog.InfoLevel}
	Warn  = &Leveled{level: zerolog.WarnLevel}
	Error = &Leveled{level: zerolog.ErrorLevel}
	Debug = &Leveled{level: zerolog.DebugLevel}
)

var base atomic.Pointer[zerolog.Logger]

// Printf logs a formatted message.
func (l *Leveled) Printf(format string, v ...interface{}) {
	current().WithLevel(l.level).Msgf(format, v...)
}

// Println logs the operands separated by spaces.
func (l *Leveled) Println(v ...interface{}) {
	current().WithLevel(l.level).Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func current() *zerolog.Logger {
	return base.Load()
}

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. It:
// - Writes human readable logs to stdout.
// - When dir is non-empty, ensures it exists and also writes JSON lines to a
//   timestamped file inside it.
func InitLogger(dir string) error {
	var out io.Writer = newConsoleWriter(os.Stdout)

	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		logFileName := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
		file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
		if err != nil {
			return err
		}
		out = zerolog.MultiLevelWriter(out, file)
	}

	setOutput(out)
	return nil
}

// SetOutput redirects all loggers to w. Tests use it to capture output.
func SetOutput(w io.Writer) {
	setOutput(w)
}

// SetLogLevel adjusts the minimum level depending on environment.
// Production discards Debug output; everything else keeps it.
func SetLogLevel(env string) {
	if strings.EqualFold(env, "production") {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func setOutput(w io.Writer) {
	l := zerolog.New(w).With().Timestamp().CallerWithSkipFrameCount(3).Logger()
	base.Store(&l)
}

func newConsoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: "2006/01/02 15:04:05"}
}

// init installs a stdout logger so packages can log before main calls InitLogger.
func init() {
	setOutput(newConsoleWriter(os.Stdout))
}
