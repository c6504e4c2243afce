package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger writes level-prefixed lines to a *log.Logger.
type Logger struct {
	l     *log.Logger
	debug bool
}

func New(l *log.Logger) *Logger {
	return &Logger{l: l}
}

func NewStderr(debug bool) *Logger {
	return &Logger{l: log.New(os.Stderr, "", log.LstdFlags|log.Lmsgprefix), debug: debug}
}

// Discard drops everything; used by the CLI unless --verbose is set.
func Discard() *Logger {
	return &Logger{l: log.New(io.Discard, "", 0)}
}

func (l *Logger) Std() *log.Logger {
	return l.l
}

func (l *Logger) Info(format string, v ...any) {
	l.l.Printf("[INFO]  %s", fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(format string, v ...any) {
	l.l.Printf("[WARN]  %s", fmt.Sprintf(format, v...))
}

func (l *Logger) Error(format string, v ...any) {
	l.l.Printf("[ERROR] %s", fmt.Sprintf(format, v...))
}

func (l *Logger) Debug(format string, v ...any) {
	if !l.debug {
		return
	}
	l.l.Printf("[DEBUG] %s", fmt.Sprintf(format, v...))
}
