package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	maxSizeMB  = 5
	maxBackups = 5
)

var Log = zap.NewNop()

var (
	mu      sync.Mutex
	sink    *lumberjack.Logger
	logPath string
)

type options struct {
	console bool
}

type Option func(*options)

// WithoutConsole keeps log lines out of stderr, for full-screen terminal UIs.
func WithoutConsole() Option {
	return func(o *options) {
		o.console = false
	}
}

// Init builds the process logger: a file under dir named after the current
// day, rotated by size, mirrored to stderr with the same line format.
func Init(dir string, debug bool, opts ...Option) error {
	o := options{console: true}
	for _, opt := range opts {
		opt(&o)
	}

	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	if sink != nil {
		_ = sink.Close()
	}

	logPath = filepath.Join(dir, fmt.Sprintf("dropfix_%s.log", time.Now().Format("20060102")))
	sink = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		LocalTime:  true,
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	enc := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(sink), level),
	}
	if o.console {
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
	}

	Log = zap.New(zapcore.NewTee(cores...))
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

func Sync() {
	_ = Log.Sync()
}

// Path returns the file the logger currently writes to.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Tail returns up to n trailing lines of the current log file.
func Tail(n int) ([]string, error) {
	path := Path()
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return lines, nil
}

// Clear moves the current log file aside as a backup and starts a fresh one.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	if sink == nil {
		return fmt.Errorf("logger not initialized")
	}

	if err := sink.Rotate(); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	banner := fmt.Sprintf("=== log cleared (%s) ===\n", time.Now().Format(timeLayout))
	if _, err := sink.Write([]byte(banner)); err != nil {
		return fmt.Errorf("failed to write log banner: %w", err)
	}

	return nil
}

// Close flushes and releases the log file.
func Close() error {
	Sync()

	mu.Lock()
	defer mu.Unlock()

	Log = zap.NewNop()
	logPath = ""
	if sink == nil {
		return nil
	}

	err := sink.Close()
	sink = nil
	return err
}
