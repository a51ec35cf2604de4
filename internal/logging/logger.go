// Package logging provides structured logging with file and console output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents logging levels
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ParseLevel maps a level name to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch LogLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo:
		return LevelInfo, nil
	case LevelWarn:
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

// LogEntry is a single log line kept in memory for the status bar.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component"`
	Message   string `json:"message"`
	Data      string `json:"data,omitempty"`
}

// Logger wraps zerolog with file output and log history
type Logger struct {
	zlog    zerolog.Logger
	level   zerolog.Level
	file    *os.File
	logPath string
	mu      sync.RWMutex
	history []LogEntry
	maxHist int
}

// Config holds logger configuration
type Config struct {
	LogDir     string   // Directory for log files (default: ~/.synthia/logs)
	Level      LogLevel // Minimum log level (default: info)
	MaxHistory int      // Max entries to keep in memory (default: 200)
	Console    bool     // Also log to console
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		LogDir:     filepath.Join(home, ".synthia", "logs"),
		Level:      LevelInfo,
		MaxHistory: 200,
		Console:    false,
	}
}

// New creates a Logger writing to a dated file in cfg.LogDir, plus the
// console when cfg.Console is set.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("synthia_%s.log", time.Now().Format("2006-01-02"))
	logPath := filepath.Join(cfg.LogDir, logFileName)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	writers := []io.Writer{file}
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	}

	logger := newLogger(io.MultiWriter(writers...), cfg.Level, cfg.MaxHistory)
	logger.file = file
	logger.logPath = logPath

	logger.Info("logging", "Logger initialized", map[string]interface{}{
		"logFile": logPath,
		"level":   string(cfg.Level),
	})

	return logger, nil
}

// NewWithWriter creates a Logger that writes JSON lines to w and keeps no file.
func NewWithWriter(w io.Writer, level LogLevel) *Logger {
	return newLogger(w, level, DefaultConfig().MaxHistory)
}

// NewConsole creates a Logger with human-readable output on w.
func NewConsole(w io.Writer, level LogLevel) *Logger {
	return newLogger(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}, level, DefaultConfig().MaxHistory)
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return newLogger(io.Discard, LevelError, 0)
}

func newLogger(w io.Writer, level LogLevel, maxHist int) *Logger {
	if maxHist < 0 {
		maxHist = 0
	}
	zl := level.zerolog()
	return &Logger{
		zlog: zerolog.New(w).Level(zl).With().
			Timestamp().
			Str("app", "synthia").
			Logger(),
		level:   zl,
		history: make([]LogEntry, 0, maxHist),
		maxHist: maxHist,
	}
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level.zerolog()
	l.zlog = l.zlog.Level(l.level)
}

// Level returns the current minimum level.
func (l *Logger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.level {
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarn
	case zerolog.ErrorLevel:
		return LevelError
	default:
		return LevelDebug
	}
}

func (l *Logger) addToHistory(level zerolog.Level, component, msg, data string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxHist == 0 || level < l.level {
		return
	}
	l.history = append(l.history, LogEntry{
		Timestamp: time.Now().Format("15:04:05.000"),
		Level:     level.String(),
		Component: component,
		Message:   msg,
		Data:      data,
	})
	if len(l.history) > l.maxHist {
		l.history = l.history[len(l.history)-l.maxHist:]
	}
}

// GetHistory returns recent log entries
func (l *Logger) GetHistory(limit int) []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.history) {
		limit = len(l.history)
	}
	result := make([]LogEntry, limit)
	copy(result, l.history[len(l.history)-limit:])
	return result
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}

// Close closes the log file
func (l *Logger) Close() error {
	l.Info("logging", "Logger shutting down", nil)
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// formatData renders data as sorted key=value pairs.
func formatData(data map[string]interface{}) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, ", ")
}

func (l *Logger) emit(event *zerolog.Event, level zerolog.Level, component, msg string, data map[string]interface{}) {
	l.emitWithHistory(event, level, component, msg, data, data)
}

// emitWithHistory writes fields to the log line and hist to the in-memory
// history.
func (l *Logger) emitWithHistory(event *zerolog.Event, level zerolog.Level, component, msg string, fields, hist map[string]interface{}) {
	event = event.Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
	l.addToHistory(level, component, msg, formatData(hist))
}

func (l *Logger) current() zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.zlog
}

// Debug logs a debug message
func (l *Logger) Debug(component, msg string, data map[string]interface{}) {
	zl := l.current()
	l.emit(zl.Debug(), zerolog.DebugLevel, component, msg, data)
}

// Info logs an info message
func (l *Logger) Info(component, msg string, data map[string]interface{}) {
	zl := l.current()
	l.emit(zl.Info(), zerolog.InfoLevel, component, msg, data)
}

// Warn logs a warning message
func (l *Logger) Warn(component, msg string, data map[string]interface{}) {
	zl := l.current()
	l.emit(zl.Warn(), zerolog.WarnLevel, component, msg, data)
}

// Error logs an error message. err goes out as the "error" field.
func (l *Logger) Error(component, msg string, err error, data map[string]interface{}) {
	zl := l.current()
	event := zl.Error()
	if err == nil {
		l.emit(event, zerolog.ErrorLevel, component, msg, data)
		return
	}

	event = event.Err(err)
	fields := make(map[string]interface{}, len(data))
	hist := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		if k != "error" {
			fields[k] = v
		}
		hist[k] = v
	}
	hist["error"] = err.Error()
	l.emitWithHistory(event, zerolog.ErrorLevel, component, msg, fields, hist)
}

// Component returns a zerolog.Logger with the component field set.
func (l *Logger) Component(name string) zerolog.Logger {
	zl := l.current()
	return zl.With().Str("component", name).Logger()
}

// Zerolog returns the underlying zerolog.Logger
func (l *Logger) Zerolog() zerolog.Logger {
	return l.current()
}
