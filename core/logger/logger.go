package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.FatalLevel
	}
}

type output struct {
	w     zapcore.WriteSyncer
	color bool
}

type ColoredLogger struct {
	mu      sync.RWMutex
	level   zap.AtomicLevel
	outputs []output
	sugar   *zap.SugaredLogger
}

var globalLogger *ColoredLogger

func init() {
	globalLogger = &ColoredLogger{
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
	globalLogger.outputs = []output{newOutput(os.Stderr)}
	globalLogger.rebuild()
}

func newOutput(w io.Writer) output {
	return output{w: zapcore.AddSync(w), color: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("06-01-02 15:04:05")
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	cfg.ConsoleSeparator = " "
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg
}

// rebuild must be called with mu held for writing (or during init).
func (cl *ColoredLogger) rebuild() {
	cores := make([]zapcore.Core, 0, len(cl.outputs))
	for _, o := range cl.outputs {
		enc := zapcore.NewConsoleEncoder(encoderConfig(o.color))
		cores = append(cores, zapcore.NewCore(enc, o.w, cl.level))
	}
	cl.sugar = zap.New(zapcore.NewTee(cores...), zap.WithFatalHook(zapcore.WriteThenFatal)).Sugar()
}

func SetVerbose(verbose bool) {
	if verbose {
		globalLogger.level.SetLevel(zapcore.DebugLevel)
	} else {
		globalLogger.level.SetLevel(zapcore.InfoLevel)
	}
}

func IsVerbose() bool {
	return globalLogger.level.Enabled(zapcore.DebugLevel)
}

// SetWriterForAll replaces every output with w.
func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.outputs = []output{newOutput(writer)}
	globalLogger.rebuild()
}

// AddWriterForAll tees log output to w in addition to the current outputs.
func AddWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.outputs = append(globalLogger.outputs, newOutput(writer))
	globalLogger.rebuild()
}

// SetLogFile opens path for appending and tees all log output into it. The
// returned closer flushes and closes the file.
func SetLogFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	AddWriterForAll(f)
	return f, nil
}

func Sync() error {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	return globalLogger.sugar.Sync()
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	sugar := cl.sugar
	cl.mu.RUnlock()

	switch level {
	case DEBUG:
		sugar.Debugf(format, args...)
	case INFO:
		sugar.Infof(format, args...)
	case WARN:
		sugar.Warnf(format, args...)
	case ERROR:
		sugar.Errorf(format, args...)
	case FATAL:
		sugar.Fatalf(format, args...)
	}
}

func Enabled(level LogLevel) bool {
	return globalLogger.level.Enabled(level.zapLevel())
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}
