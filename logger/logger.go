// Package logger provides named, colour-tagged component loggers backed by logrus.
package logger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/sirupsen/logrus"
)

var ErrEmptyName = errors.New("logger name is empty")

// Logger writes lines of the form "[NAME] [LEVEL] message".
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger whose name is printed in color.
func New(name, color string, out io.Writer) (*Logger, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&formatter{name: name, color: color})

	return &Logger{entry: logrus.NewEntry(l)}, nil
}

func (l *Logger) Debug(msg string)   { l.entry.Debug(msg) }
func (l *Logger) Info(msg string)    { l.entry.Info(msg) }
func (l *Logger) Warning(msg string) { l.entry.Warning(msg) }
func (l *Logger) Error(msg string)   { l.entry.Error(msg) }

type formatter struct {
	name  string
	color string
}

func (f *formatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s [%s%s%s] [%s] %s",
		e.Time.Format("2006/01/02 15:04:05"),
		f.color, f.name, config.ColorReset,
		strings.ToUpper(e.Level.String()),
		e.Message,
	)
	b.WriteByte('\n')
	return b.Bytes(), nil
}
