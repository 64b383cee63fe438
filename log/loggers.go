package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Info takes a pointer subLogger struct and string and writes an info entry
func Info(sl *SubLogger, data string) {
	sl.stage(zapcore.InfoLevel, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface and writes an info entry
func Infoln(sl *SubLogger, v ...any) {
	sl.stage(zapcore.InfoLevel, func() string { return fmt.Sprint(v...) })
}

// Infof takes a pointer subLogger struct, string and interface formats and writes an info entry
func Infof(sl *SubLogger, data string, v ...any) {
	sl.stage(zapcore.InfoLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string and writes a debug entry
func Debug(sl *SubLogger, data string) {
	sl.stage(zapcore.DebugLevel, func() string { return data })
}

// Debugln takes a pointer subLogger struct and interface and writes a debug entry
func Debugln(sl *SubLogger, v ...any) {
	sl.stage(zapcore.DebugLevel, func() string { return fmt.Sprint(v...) })
}

// Debugf takes a pointer subLogger struct, string and interface formats and writes a debug entry
func Debugf(sl *SubLogger, data string, v ...any) {
	sl.stage(zapcore.DebugLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct and string and writes a warning entry
func Warn(sl *SubLogger, data string) {
	sl.stage(zapcore.WarnLevel, func() string { return data })
}

// Warnln takes a pointer subLogger struct and interface and writes a warning entry
func Warnln(sl *SubLogger, v ...any) {
	sl.stage(zapcore.WarnLevel, func() string { return fmt.Sprint(v...) })
}

// Warnf takes a pointer subLogger struct, string and interface formats and writes a warning entry
func Warnf(sl *SubLogger, data string, v ...any) {
	sl.stage(zapcore.WarnLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct and string and writes an error entry
func Error(sl *SubLogger, data string) {
	sl.stage(zapcore.ErrorLevel, func() string { return data })
}

// Errorln takes a pointer subLogger struct and interface and writes an error entry
func Errorln(sl *SubLogger, v ...any) {
	sl.stage(zapcore.ErrorLevel, func() string { return fmt.Sprint(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface formats and writes an error entry
func Errorf(sl *SubLogger, data string, v ...any) {
	sl.stage(zapcore.ErrorLevel, func() string { return fmt.Sprintf(data, v...) })
}

// stage renders the message only when the level is enabled for the sub logger
func (sl *SubLogger) stage(level zapcore.Level, msg func() string) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if !sl.levels.enabled(level) {
		return
	}
	data := strings.TrimSuffix(msg(), "\n")
	if customLogHook != nil && customLogHook(level.CapitalString(), sl.name, data) {
		return
	}
	if ce := sl.zl.Check(level, data); ce != nil {
		ce.Write()
	}
}
