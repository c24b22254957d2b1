package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

// Level represents log severity levels
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	numLevels
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger interface defines structured logging methods
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	SetLevel(level Level)
	SetJSONOutput(enabled bool)
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level      Level
	JSONOutput bool
	// Color forces colored output on or off. Nil means auto-detect.
	Color  *bool
	Output io.Writer
}

// DefaultLogger is the default implementation of Logger
type DefaultLogger struct {
	mu         sync.Mutex
	level      Level
	jsonOutput bool
	out        io.Writer
	colors     bool
	counts     [numLevels]atomic.Int64
}

var levelColors = map[Level]*color.Color{
	DebugLevel: color.New(color.FgCyan),
	InfoLevel:  color.New(color.FgGreen),
	WarnLevel:  color.New(color.FgYellow),
	ErrorLevel: color.New(color.FgRed),
}

// New creates a new logger with the given configuration
func New(cfg LoggerConfig) *DefaultLogger {
	l := &DefaultLogger{
		level:      cfg.Level,
		jsonOutput: cfg.JSONOutput,
		out:        cfg.Output,
	}

	if l.out == nil {
		l.out = os.Stderr
	}

	if cfg.Color != nil {
		l.colors = *cfg.Color
	} else {
		l.colors = isTerminal(l.out)
	}

	return l
}

// Discard returns a logger that writes nothing.
func Discard() *DefaultLogger {
	return New(LoggerConfig{Level: ErrorLevel + 1, Output: io.Discard})
}

// isTerminal reports whether w is a terminal that should receive colors.
func isTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (f == os.Stderr || f == os.Stdout)
}

// formatMessage formats the message with key-value args
func formatMessage(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}

	var sb strings.Builder
	sb.WriteString(msg)

	if len(args)%2 != 0 {
		sb.WriteString(" ")
		sb.WriteString(fmt.Sprintf("%v", args[0]))
		args = args[1:]
	}

	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(formatValue(args[i+1]))
	}

	return sb.String()
}

// formatValue quotes strings containing spaces so key=value pairs stay parseable.
func formatValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if strings.ContainsAny(s, " \t\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// fields converts key-value args into a JSON-friendly map. An odd leading
// value is kept under "detail", matching formatMessage.
func fields(args []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(args)/2+1)
	if len(args)%2 != 0 {
		out["detail"] = args[0]
		args = args[1:]
	}
	for i := 0; i < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			out[key] = args[i+1]
		}
	}
	return out
}

// write outputs the log message
func (l *DefaultLogger) write(level Level, msg string, args []interface{}) {
	l.counts[level].Add(1)

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	if l.jsonOutput {
		entry := map[string]interface{}{
			"timestamp": timestamp,
			"level":     level.String(),
			"message":   msg,
		}
		for k, v := range fields(args) {
			if _, reserved := entry[k]; !reserved {
				entry[k] = v
			}
		}
		data, _ := json.Marshal(entry)
		fmt.Fprintln(l.out, string(data))
		return
	}

	line := formatMessage(msg, args...)
	levelStr := level.String()
	if l.colors {
		levelStr = levelColors[level].Sprint(levelStr)
	}
	fmt.Fprintf(l.out, "[%s] %s: %s\n", timestamp, levelStr, line)
}

func (l *DefaultLogger) enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	if l.enabled(DebugLevel) {
		l.write(DebugLevel, msg, args)
	}
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	if l.enabled(InfoLevel) {
		l.write(InfoLevel, msg, args)
	}
}

// Warn logs a warning message. Warnings are counted even when filtered out.
func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	if !l.enabled(WarnLevel) {
		l.counts[WarnLevel].Add(1)
		return
	}
	l.write(WarnLevel, msg, args)
}

// Error logs an error message. Errors are counted even when filtered out.
func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	if !l.enabled(ErrorLevel) {
		l.counts[ErrorLevel].Add(1)
		return
	}
	l.write(ErrorLevel, msg, args)
}

// Count returns how many messages were logged at level.
func (l *DefaultLogger) Count(level Level) int64 {
	if level < 0 || level >= numLevels {
		return 0
	}
	return l.counts[level].Load()
}

// SetLevel sets the minimum log level
func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetJSONOutput enables or disables JSON output
func (l *DefaultLogger) SetJSONOutput(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonOutput = enabled
}
