package log

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	errConfigIsNil              = errors.New("log config is nil")
	errSubLoggerNotFound        = errors.New("sub logger not found")
	errUnhandledOutputWriter    = errors.New("unhandled output writer")
	errFileLoggingNotConfigured = errors.New("file logging not configured")
)

func boolPtr(b bool) *bool { return &b }

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: boolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  defaultLevels,
			Output: "console",
		},
		LoggerFileConfig: &loggerFileConfig{
			FileName:   "log.txt",
			Rotate:     boolPtr(false),
			MaxSize:    DefaultMaxFileSize,
			MaxBackups: DefaultMaxBackups,
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: boolPtr(true),
			TimeStampFormat:   timestampFormat,
		},
	}
}

// SetupGlobalLogger applies the global config to every registered sub logger
func SetupGlobalLogger(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNil
	}
	mu.Lock()
	defer mu.Unlock()

	globalLogConfig = cfg
	fileOutput = nil
	if cfg.LoggerFileConfig != nil && cfg.LoggerFileConfig.FileName != "" {
		w, err := newFileWriter(cfg.LoggerFileConfig)
		if err != nil {
			return err
		}
		fileOutput = w
	}

	enabled := cfg.Enabled != nil && *cfg.Enabled
	for _, sl := range subLoggers {
		if !enabled {
			sl.levels = Levels{}
			sl.zl = zap.NewNop()
			continue
		}
		if err := configureSubLogger(sl, cfg.Level, cfg.Output); err != nil {
			return err
		}
	}
	return nil
}

// SetupSubLoggers configure individual sub loggers with provided configuration values
func SetupSubLoggers(s []SubLoggerConfig) error {
	mu.Lock()
	defer mu.Unlock()
	for x := range s {
		sl, ok := subLoggers[strings.ToUpper(s[x].Name)]
		if !ok {
			return fmt.Errorf("%w: %s", errSubLoggerNotFound, s[x].Name)
		}
		if err := configureSubLogger(sl, s[x].Level, s[x].Output); err != nil {
			return fmt.Errorf("%s: %w", sl.name, err)
		}
	}
	return nil
}

// Sync flushes any buffered log entries
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	var errs error
	for _, sl := range subLoggers {
		if sl.zl == nil {
			continue
		}
		if err := sl.zl.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// configureSubLogger must be called with mu held
func configureSubLogger(sl *SubLogger, levels, output string) error {
	ws, err := getWriters(output)
	if err != nil {
		return err
	}
	sl.levels = splitLevel(levels)
	sl.output = strings.Split(output, "|")
	sl.zl = zap.New(zapcore.NewCore(newEncoder(globalLogConfig), ws, zapcore.DebugLevel)).Named(sl.name)
	return nil
}

func getWriters(output string) (zapcore.WriteSyncer, error) {
	outputWriters := strings.Split(output, "|")
	writers := make([]zapcore.WriteSyncer, 0, len(outputWriters))
	for x := range outputWriters {
		switch strings.ToLower(outputWriters[x]) {
		case "stdout", "console":
			writers = append(writers, zapcore.Lock(os.Stdout))
		case "stderr":
			writers = append(writers, zapcore.Lock(os.Stderr))
		case "file":
			if fileOutput == nil {
				return nil, errFileLoggingNotConfigured
			}
			writers = append(writers, fileOutput)
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
	}
	return zapcore.NewMultiWriteSyncer(writers...), nil
}

func newFileWriter(cfg *loggerFileConfig) (zapcore.WriteSyncer, error) {
	if cfg.Rotate == nil || !*cfg.Rotate {
		f, err := os.OpenFile(cfg.FileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		return zapcore.Lock(f), nil
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}), nil
}

func newEncoder(cfg *Config) zapcore.Encoder {
	layout := cfg.AdvancedSettings.TimeStampFormat
	if layout == "" {
		layout = timestampFormat
	}
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(layout),
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if cfg.AdvancedSettings.ShowLogSystemName != nil && *cfg.AdvancedSettings.ShowLogSystemName {
		ec.NameKey = "system"
		ec.EncodeName = zapcore.FullNameEncoder
	}
	if cfg.AdvancedSettings.StructuredLogging {
		return zapcore.NewJSONEncoder(ec)
	}
	return zapcore.NewConsoleEncoder(ec)
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(enabledLevels[x]) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	temp := &SubLogger{
		name:   strings.ToUpper(subLogger),
		levels: splitLevel(defaultLevels),
		zl:     zap.NewNop(),
	}
	subLoggers[temp.name] = temp
	return temp
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	ConfigMgr = registerNewSubLogger("CONFIG")
	DatabaseMgr = registerNewSubLogger("DATABASE")
	WebsocketMgr = registerNewSubLogger("WEBSOCKET")

	RequestSys = registerNewSubLogger("REQUESTER")
	ExchangeSys = registerNewSubLogger("EXCHANGE")

	Trade = registerNewSubLogger("TRADE")
	OrderBook = registerNewSubLogger("ORDERBOOK")
}
