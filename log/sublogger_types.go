package log

import "go.uber.org/zap"

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global       *SubLogger
	ConfigMgr    *SubLogger
	DatabaseMgr  *SubLogger
	WebsocketMgr *SubLogger

	RequestSys  *SubLogger
	ExchangeSys *SubLogger

	Trade     *SubLogger
	OrderBook *SubLogger
)

// SubLogger defines a named logging system with its own levels and output
type SubLogger struct {
	name   string
	levels Levels
	output []string
	zl     *zap.Logger
}

// Name returns the upper case name of the sub logger
func (sl *SubLogger) Name() string {
	if sl == nil {
		return ""
	}
	return sl.name
}
