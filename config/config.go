package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/thrasher-corp/marketstream/connectivity/websocket"
	"github.com/thrasher-corp/marketstream/currency"
	"github.com/thrasher-corp/marketstream/database"
	"github.com/thrasher-corp/marketstream/exchanges/request"
	"github.com/thrasher-corp/marketstream/log"
)

var (
	errNegativeValue         = errors.New("value must not be negative")
	errExchangeNameEmpty     = errors.New("exchange name is empty")
	errDuplicateExchange     = errors.New("duplicate exchange config")
	errExchangeNotFound      = errors.New("exchange config not found")
	errInvalidEndpoint       = errors.New("invalid endpoint URL")
	errMetricsAddressMissing = errors.New("metrics listen address is empty")
)

// DefaultConfig returns a config with every default applied
func DefaultConfig() *Config {
	c, err := Load("")
	if err != nil {
		// Defaults are static and always valid
		panic(err)
	}
	return c
}

// Load reads the config file at path, which may be JSON, YAML or TOML, applies
// environment overrides and checks the result. An empty path loads defaults and
// the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error opening config file %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := c.CheckConfig(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", defaultName)

	logging := log.GenDefaultSettings()
	v.SetDefault("logging.enabled", *logging.Enabled)
	v.SetDefault("logging.level", logging.Level)
	v.SetDefault("logging.output", logging.Output)
	v.SetDefault("logging.advancedSettings.showLogSystemName", false)
	v.SetDefault("logging.advancedSettings.structuredLogging", false)

	v.SetDefault("websocket.handshakeTimeout", defaultHandshakeTimeout)
	v.SetDefault("websocket.writeTimeout", defaultWriteTimeout)
	v.SetDefault("websocket.readLimit", defaultReadLimit)
	v.SetDefault("websocket.messagesPerSecond", 0)
	v.SetDefault("websocket.maxConsecutiveErrors", 0)
	v.SetDefault("websocket.proxyURL", "")
	v.SetDefault("websocket.verbose", false)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.verbose", false)
	v.SetDefault("database.driver", database.DBSQLite3)
	v.SetDefault("database.database", defaultSQLiteDatabase)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listenAddress", defaultMetricsListenAddress)
}

// CheckConfig applies defaults to missing values and validates the config
func (c *Config) CheckConfig() error {
	if c.Name == "" {
		c.Name = defaultName
	}
	c.CheckLoggerConfig()
	if err := c.checkWebsocketConfig(); err != nil {
		return fmt.Errorf("websocket config: %w", err)
	}
	if err := c.CheckExchangeConfigValues(); err != nil {
		return fmt.Errorf("exchange config: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddress == "" {
		return errMetricsAddressMissing
	}
	return nil
}

// CheckLoggerConfig checks to see logger values are present and sets defaults
func (c *Config) CheckLoggerConfig() {
	if c.Logging.Enabled == nil || c.Logging.Output == "" {
		def := log.GenDefaultSettings()
		if c.Logging.Enabled == nil {
			c.Logging.Enabled = def.Enabled
		}
		if c.Logging.Output == "" {
			c.Logging.Output = def.Output
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = log.GenDefaultSettings().Level
	}
	if c.Logging.AdvancedSettings.ShowLogSystemName == nil {
		f := false
		c.Logging.AdvancedSettings.ShowLogSystemName = &f
	}
	if c.Logging.LoggerFileConfig != nil {
		if c.Logging.LoggerFileConfig.FileName == "" {
			c.Logging.LoggerFileConfig.FileName = "log.txt"
		}
		if c.Logging.LoggerFileConfig.MaxSize <= 0 {
			log.Warnf(log.ConfigMgr, "Logger rotation size invalid, defaulting to %v", log.DefaultMaxFileSize)
			c.Logging.LoggerFileConfig.MaxSize = log.DefaultMaxFileSize
		}
	}
}

func (c *Config) checkWebsocketConfig() error {
	w := &c.Websocket
	switch {
	case w.HandshakeTimeout < 0:
		return fmt.Errorf("handshakeTimeout %w", errNegativeValue)
	case w.WriteTimeout < 0:
		return fmt.Errorf("writeTimeout %w", errNegativeValue)
	case w.ReadLimit < 0:
		return fmt.Errorf("readLimit %w", errNegativeValue)
	case w.MessagesPerSecond < 0:
		return fmt.Errorf("messagesPerSecond %w", errNegativeValue)
	case w.MaxConsecutiveErrors < 0:
		return fmt.Errorf("maxConsecutiveErrors %w", errNegativeValue)
	}
	if w.HandshakeTimeout == 0 {
		w.HandshakeTimeout = defaultHandshakeTimeout
	}
	if w.WriteTimeout == 0 {
		w.WriteTimeout = defaultWriteTimeout
	}
	if w.ProxyURL != "" {
		if _, err := url.Parse(w.ProxyURL); err != nil {
			return fmt.Errorf("proxyURL %w: %w", errInvalidEndpoint, err)
		}
	}
	return nil
}

// CheckExchangeConfigValues checks every exchange config, adding a disabled
// Binance entry when none are configured
func (c *Config) CheckExchangeConfigValues() error {
	if len(c.Exchanges) == 0 {
		c.Exchanges = []ExchangeConfig{{Name: defaultExchange, Pairs: []string{"BTC-USDT"}}}
	}
	seen := make(map[string]struct{}, len(c.Exchanges))
	for i := range c.Exchanges {
		e := &c.Exchanges[i]
		e.Name = strings.ToLower(strings.TrimSpace(e.Name))
		if e.Name == "" {
			return fmt.Errorf("exchange %d: %w", i, errExchangeNameEmpty)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: %s", errDuplicateExchange, e.Name)
		}
		seen[e.Name] = struct{}{}
		if e.HTTPTimeout <= 0 {
			e.HTTPTimeout = defaultHTTPTimeout
		}
		if err := checkEndpoint(e.RESTURL, "http", "https"); err != nil {
			return fmt.Errorf("%s restURL: %w", e.Name, err)
		}
		if err := checkEndpoint(e.WebsocketURL, "ws", "wss"); err != nil {
			return fmt.Errorf("%s websocketURL: %w", e.Name, err)
		}
		if _, err := e.GetPairs(); err != nil {
			return fmt.Errorf("%s pairs: %w", e.Name, err)
		}
	}
	return nil
}

// checkEndpoint allows an empty URL, which selects the exchange default
func checkEndpoint(s string, schemes ...string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidEndpoint, err)
	}
	for _, scheme := range schemes {
		if u.Scheme == scheme && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", errInvalidEndpoint, s)
}

// GetExchangeConfig returns the config of the named exchange
func (c *Config) GetExchangeConfig(name string) (*ExchangeConfig, error) {
	for i := range c.Exchanges {
		if strings.EqualFold(c.Exchanges[i].Name, name) {
			return &c.Exchanges[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errExchangeNotFound, name)
}

// GetPairs parses the configured currency pairs
func (e *ExchangeConfig) GetPairs() (currency.Pairs, error) {
	pairs := make(currency.Pairs, 0, len(e.Pairs))
	for _, s := range e.Pairs {
		p, err := currency.NewPairFromString(s)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// ToConnectionConfig returns the connection settings for a websocket URL
func (w *WebsocketConfig) ToConnectionConfig(name, wsURL string) *websocket.Config {
	cfg := &websocket.Config{
		Name:                 name,
		URL:                  wsURL,
		ProxyURL:             w.ProxyURL,
		HandshakeTimeout:     w.HandshakeTimeout,
		WriteTimeout:         w.WriteTimeout,
		ReadLimit:            w.ReadLimit,
		MaxConsecutiveErrors: w.MaxConsecutiveErrors,
		Verbose:              w.Verbose,
	}
	if w.MessagesPerSecond > 0 {
		cfg.RateLimit = request.NewRateLimit(time.Second, w.MessagesPerSecond)
	}
	return cfg
}
