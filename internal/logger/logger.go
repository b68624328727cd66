package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MaxLines is how many recent lines the in-memory buffer keeps.
const MaxLines = 256

// LogFilePath is the path to the picker log file, relative to the working directory (project root when run via go run ./cmd/picker).
const LogFilePath = "logs/selection.txt"

// Logger fans zerolog events out to the console, a log file and an in-memory line buffer the demo shows on screen.
type Logger struct {
	mu    sync.Mutex
	lines []string
	file  *os.File
	zl    zerolog.Logger
}

// New returns a Logger at level writing to console (when non-nil) and appending to path (when non-empty).
// The directory of path is created if needed.
func New(path string, level zerolog.Level, console io.Writer) (*Logger, error) {
	l := &Logger{lines: make([]string, 0)}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: lineWriter{l}, TimeFormat: "15:04:05", NoColor: true},
	}
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339})
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Zerolog returns the structured logger to hand to subsystems.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Log writes line at info level.
func (l *Logger) Log(line string) {
	l.zl.Info().Msg(line)
}

// Lines returns a copy of the stored lines, at most MaxLines of the most recent.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Tail returns a copy of the last n stored lines.
func (l *Logger) Tail(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.lines) {
		n = len(l.lines)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	copy(out, l.lines[len(l.lines)-n:])
	return out
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel maps a config or flag value to a zerolog level. Unknown values mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type lineWriter struct {
	l *Logger
}

func (w lineWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	w.l.mu.Lock()
	if len(w.l.lines) == MaxLines {
		copy(w.l.lines, w.l.lines[1:])
		w.l.lines = w.l.lines[:MaxLines-1]
	}
	w.l.lines = append(w.l.lines, line)
	w.l.mu.Unlock()
	return len(p), nil
}
