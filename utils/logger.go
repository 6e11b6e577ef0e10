package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// InfoLogger logs informational messages
	InfoLogger = zap.NewNop().Sugar()
	// ErrorLogger logs error messages
	ErrorLogger = zap.NewNop().Sugar()
	// DebugLogger logs debug messages
	DebugLogger = zap.NewNop().Sugar()
)

// InitLogger initializes the loggers. Each level writes JSON lines to its own
// daily file under LOG_DIR (default "logs"); errors are also echoed to stderr.
func InitLogger() error {
	logsDir := os.Getenv("LOG_DIR")
	if logsDir == "" {
		logsDir = "logs"
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	open := func(prefix string) (zapcore.WriteSyncer, error) {
		f, err := os.OpenFile(
			filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", prefix, timestamp)),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s log file: %v", prefix, err)
		}
		return zapcore.AddSync(f), nil
	}

	infoFile, err := open("info")
	if err != nil {
		return err
	}
	errorFile, err := open("error")
	if err != nil {
		return err
	}
	debugFile, err := open("debug")
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	InfoLogger = newLogger(zapcore.NewCore(enc, infoFile, zapcore.InfoLevel))
	ErrorLogger = newLogger(zapcore.NewTee(
		zapcore.NewCore(enc, errorFile, zapcore.ErrorLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), zapcore.ErrorLevel),
	))
	DebugLogger = newLogger(zapcore.NewCore(enc, debugFile, zapcore.DebugLevel))

	return nil
}

func newLogger(core zapcore.Core) *zap.SugaredLogger {
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// SyncLoggers flushes buffered entries
func SyncLoggers() {
	_ = InfoLogger.Sync()
	_ = ErrorLogger.Sync()
	_ = DebugLogger.Sync()
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Infof(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	ErrorLogger.Errorf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Debugf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip, requestID string, status int, duration time.Duration) {
	InfoLogger.Infow("Request",
		"method", method,
		"path", path,
		"ip", ip,
		"request_id", requestID,
		"status", status,
		"duration", duration,
	)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	ErrorLogger.Errorw("Error", "error", err, "stack", string(stack))
}
