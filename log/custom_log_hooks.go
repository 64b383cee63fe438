package log

// CustomLogHook receives every entry that passes the sub logger's level
// filter. header is the capitalised level and subLoggerName the sub logger it
// was written to. Returning true consumes the entry so it never reaches zap.
type CustomLogHook func(header, subLoggerName string, a ...any) (consumed bool)

var customLogHook CustomLogHook

// SetCustomLogHook installs h in front of the zap sinks, nil removes it
func SetCustomLogHook(h CustomLogHook) {
	mu.Lock()
	customLogHook = h
	mu.Unlock()
}
