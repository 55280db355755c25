package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var (
	output io.Writer = os.Stderr
	logger           = log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.InfoLevel,
	})
)

func SetOutput(w io.Writer) {
	output = w
	logger.SetOutput(w)
}

// Hold buffers log lines until release is called, which writes them to the
// current output in the order they were logged. Used while a spinner owns
// the terminal.
func Hold() (release func()) {
	held := &bytes.Buffer{}
	prev := output
	logger.SetOutput(held)
	return func() {
		logger.SetOutput(prev)
		_, _ = prev.Write(held.Bytes())
	}
}

// SetLevel accepts debug, info, warn, error or fatal.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}

func Debug(format string, a ...interface{}) {
	logger.Debugf(format, a...)
}

func Info(format string, a ...interface{}) {
	logger.Infof(format, a...)
}

func Success(format string, a ...interface{}) {
	logger.Info(fmt.Sprintf(format, a...), "status", "ok")
}

func Warn(format string, a ...interface{}) {
	logger.Warnf(format, a...)
}

func Error(format string, a ...interface{}) {
	logger.Errorf(format, a...)
}

func Section(title string) {
	logger.Printf("══════════ %s ══════════", title)
}
