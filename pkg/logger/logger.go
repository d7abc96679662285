// Package logger provides the printf-style logging interface used by
// warpsession. Libraries default to NopLogger; the CLI wires a
// StandardLogger on stderr and, optionally, a log file via MultiLogger.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger defines the interface for logging across all warpsession components.
// Cookie values must never be passed to a Logger; names and hosts are fine.
type Logger interface {
	// Info logs an informational message (e.g., "loaded 12 cookies").
	Info(format string, args ...interface{})

	// Warning logs a warning message (e.g., "skipping Set-Cookie from example.com").
	Warning(format string, args ...interface{})

	// Error logs an error message (e.g., "failed to save cookie store").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger (e.g., an open log file).
	// Safe to call multiple times. Returns nil for loggers without resources.
	Close() error
}

// StandardLogger wraps the stdlib *log.Logger for console output.
type StandardLogger struct {
	logger *log.Logger
}

// NewStandardLogger creates a logger that wraps the given *log.Logger.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

// Info logs an informational message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs a warning message with [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs an error message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close is a no-op for StandardLogger.
func (s *StandardLogger) Close() error {
	return nil
}

// FileLogger is a StandardLogger writing to a file it owns.
type FileLogger struct {
	*StandardLogger
	f    *os.File
	once sync.Once
}

// NewFileLogger opens (or creates) path in append mode and logs to it.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &FileLogger{
		StandardLogger: NewStandardLogger(log.New(f, "", log.LstdFlags)),
		f:              f,
	}, nil
}

// Close closes the underlying file once.
func (l *FileLogger) Close() error {
	var err error
	l.once.Do(func() {
		err = l.f.Close()
	})
	return err
}

// NopLogger is a logger that discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

// Info discards the message.
func (n *NopLogger) Info(format string, args ...interface{}) {}

// Warning discards the message.
func (n *NopLogger) Warning(format string, args ...interface{}) {}

// Error discards the message.
func (n *NopLogger) Error(format string, args ...interface{}) {}

// Close is a no-op.
func (n *NopLogger) Close() error {
	return nil
}

// MockLogger records all log calls for verification in tests.
// It is safe for concurrent use.
type MockLogger struct {
	mu           sync.Mutex
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		InfoCalls:    make([]string, 0),
		WarningCalls: make([]string, 0),
		ErrorCalls:   make([]string, 0),
	}
}

// Info records the formatted message.
func (m *MockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

// Warning records the formatted message.
func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

// Error records the formatted message.
func (m *MockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

// Close records that Close was called.
func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Warnings returns a copy of the recorded warnings.
func (m *MockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.WarningCalls...)
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
