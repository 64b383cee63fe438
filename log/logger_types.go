package log

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	// DefaultMaxFileSize for logger rotation file in megabytes
	DefaultMaxFileSize = 100
	// DefaultMaxBackups is the number of rotated log files kept on disk
	DefaultMaxBackups = 3

	defaultLevels = "INFO|WARN|DEBUG|ERROR"
)

var (
	// globalLogConfig holds the configuration last applied by SetupGlobalLogger
	globalLogConfig = &Config{}
	// fileOutput is shared by every sub logger that writes to "file"
	fileOutput zapcore.WriteSyncer

	// read/write mutex for logger
	mu = &sync.RWMutex{}
)

// Config holds configuration settings loaded from the application config
type Config struct {
	Enabled *bool `json:"enabled" mapstructure:"enabled"`
	SubLoggerConfig `mapstructure:",squash"`
	LoggerFileConfig *loggerFileConfig `json:"fileSettings,omitempty" mapstructure:"fileSettings"`
	AdvancedSettings advancedSettings  `json:"advancedSettings" mapstructure:"advancedSettings"`
	SubLoggers       []SubLoggerConfig `json:"subloggers,omitempty" mapstructure:"subloggers"`
}

type advancedSettings struct {
	ShowLogSystemName *bool  `json:"showLogSystemName" mapstructure:"showLogSystemName"`
	TimeStampFormat   string `json:"timeStampFormat" mapstructure:"timeStampFormat"`
	StructuredLogging bool   `json:"structuredLogging" mapstructure:"structuredLogging"`
}

// SubLoggerConfig holds sub logger configuration settings loaded from the application config
type SubLoggerConfig struct {
	Name   string `json:"name,omitempty" mapstructure:"name"`
	Level  string `json:"level" mapstructure:"level"`
	Output string `json:"output" mapstructure:"output"`
}

type loggerFileConfig struct {
	FileName   string `json:"filename,omitempty" mapstructure:"filename"`
	Rotate     *bool  `json:"rotate,omitempty" mapstructure:"rotate"`
	MaxSize    int    `json:"maxsize,omitempty" mapstructure:"maxsize"`
	MaxBackups int    `json:"maxbackups,omitempty" mapstructure:"maxbackups"`
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

func (l Levels) enabled(level zapcore.Level) bool {
	switch level {
	case zapcore.DebugLevel:
		return l.Debug
	case zapcore.InfoLevel:
		return l.Info
	case zapcore.WarnLevel:
		return l.Warn
	case zapcore.ErrorLevel:
		return l.Error
	}
	return false
}
