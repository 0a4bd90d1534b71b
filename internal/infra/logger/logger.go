package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// sink is shared by a logger and all of its named children.
type sink struct {
	mu     sync.Mutex
	file   *log.Logger
	stdout io.Writer
	closer io.Closer
}

type Logger struct {
	sink      *sink
	level     Level
	component string
}

// New opens (or creates) filePath in append mode. When includeStdout is set,
// Info and above are mirrored to stdout.
func New(filePath string, level Level, includeStdout bool) (*Logger, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	s := &sink{file: log.New(f, "", 0), closer: f}
	if includeStdout {
		s.stdout = os.Stdout
	}
	return &Logger{sink: s, level: level}, nil
}

// NewWriter logs to w only. Used by the CLI and tests.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{sink: &sink{file: log.New(w, "", 0)}, level: level}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard, LevelError+1)
}

// Named returns a child logger whose lines carry the component name.
func (l *Logger) Named(component string) *Logger {
	name := component
	if l.component != "" {
		name = l.component + "." + component
	}
	return &Logger{sink: l.sink, level: l.level, component: name}
}

func (l *Logger) log(lvl Level, format string, v ...any) {
	if lvl < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)

	var fullMsg string
	if l.component != "" {
		fullMsg = fmt.Sprintf("%s [%s] %s: %s", timestamp, lvl, l.component, msg)
	} else {
		fullMsg = fmt.Sprintf("%s [%s] %s", timestamp, lvl, msg)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	l.sink.file.Println(fullMsg)

	// Debug stays out of stdout
	if l.sink.stdout != nil && lvl >= LevelInfo {
		fmt.Fprintln(l.sink.stdout, fullMsg)
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.log(LevelDebug, f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.log(LevelInfo, f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.log(LevelWarn, f, v...) }
func (l *Logger) Error(f string, v ...any) { l.log(LevelError, f, v...) }

// Write lets the logger back libraries that expect an io.Writer.
func (l *Logger) Write(p []byte) (n int, err error) {
	// Echo and other libraries often include a newline at the end
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		l.Info("%s", msg)
	}
	return len(p), nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.sink.closer == nil {
		return nil
	}
	return l.sink.closer.Close()
}
