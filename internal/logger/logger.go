// Package logger provides centralized file logging for oculus-guard.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

// FileName is the name of the log file inside the data directory.
const FileName = "oculus-guard.log"

var (
	logFile  *os.File
	logMutex sync.Mutex
	logPath  string
	log      = zerolog.Nop()
)

// Init opens the log file in dir and routes all package logging to it.
func Init(dir, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logMutex.Lock()
	defer logMutex.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	logPath = filepath.Join(dir, FileName)

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	log = newLogger(f, lvl)
	return nil
}

// RedirectStderr points stderr at the log file so runtime panics are captured
// when there is no console. It does nothing before Init.
func RedirectStderr() {
	logMutex.Lock()
	defer logMutex.Unlock()
	if logFile != nil {
		redirectStderr(logFile)
	}
}

// SetOutput routes logging to w instead of a file.
func SetOutput(w io.Writer, level zerolog.Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	log = newLogger(w, level)
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Close closes the log file
func Close() {
	logMutex.Lock()
	defer logMutex.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	log = zerolog.Nop()
}

func write(level zerolog.Level, format string, args ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	log.WithLevel(level).Msg(fmt.Sprintf(format, args...))
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	write(zerolog.InfoLevel, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	write(zerolog.ErrorLevel, format, args...)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	write(zerolog.DebugLevel, format, args...)
}

// Warning logs a warning message
func Warning(format string, args ...interface{}) {
	write(zerolog.WarnLevel, format, args...)
}

// GetLogPath returns the path to the log file
func GetLogPath() string {
	return logPath
}

// Recover should be deferred at the top of every goroutine to catch panics.
// Usage: go func() { defer logger.Recover("myGoroutine"); ... }()
func Recover(name string) {
	if r := recover(); r != nil {
		logMutex.Lock()
		log.WithLevel(zerolog.PanicLevel).
			Str("goroutine", name).
			Str("stack", string(debug.Stack())).
			Msg(fmt.Sprint(r))
		if logFile != nil {
			logFile.Sync()
		}
		logMutex.Unlock()
	}
}

// SafeGo launches a goroutine with panic recovery.
func SafeGo(name string, fn func()) {
	go func() {
		defer Recover(name)
		fn()
	}()
}

// ReadLogs reads the log file contents
func ReadLogs() (string, error) {
	if logPath == "" {
		return "", fmt.Errorf("logger not initialized")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
