package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for consistent structured logging.
const (
	FieldComponent  = "component"
	FieldCycleID    = "cycle_id"
	FieldSource     = "source"
	FieldState      = "state"
	FieldCount      = "count"
	FieldError      = "error"
	FieldDurationMS = "duration_ms"
	FieldStatus     = "status"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// No-op until Initialize so packages can log before main() sets things up
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. level is a zap level name
// ("debug", "info", "warn", "error"); an empty or unknown level means info.
func Initialize(jsonOutput bool, level string) error {
	JSONOutput = jsonOutput

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = zapcore.InfoLevel
		}
	}

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		// JSON structured output for log shipping
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		zapLogger, err = config.Build()
	} else {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderCfg),
				zapcore.AddSync(os.Stderr),
				lvl,
			),
		)
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// ComponentLogger returns a named logger for a specific component.
// Prefer this over the package-level helpers when wiring dependencies.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}
