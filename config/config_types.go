package config

import (
	"time"

	"github.com/thrasher-corp/marketstream/database"
	"github.com/thrasher-corp/marketstream/log"
)

// Constants declared here are filename strings and test strings
const (
	// EnvPrefix is prepended to every environment override e.g.
	// MARKETSTREAM_WEBSOCKET_READLIMIT
	EnvPrefix = "MARKETSTREAM"

	defaultName                 = "marketstream"
	defaultHandshakeTimeout     = 45 * time.Second
	defaultWriteTimeout         = 10 * time.Second
	defaultReadLimit            = 1 << 20
	defaultMetricsListenAddress = "localhost:9100"
	defaultSQLiteDatabase       = "marketstream.db"
	defaultExchange             = "binance"
	defaultHTTPTimeout          = 15 * time.Second
)

// Config is the overarching object that holds all the information for
// streaming, persistence and observability
type Config struct {
	Name      string           `json:"name" mapstructure:"name"`
	Logging   log.Config       `json:"logging" mapstructure:"logging"`
	Websocket WebsocketConfig  `json:"websocket" mapstructure:"websocket"`
	Exchanges []ExchangeConfig `json:"exchanges" mapstructure:"exchanges"`
	Database  database.Config  `json:"database" mapstructure:"database"`
	Metrics   MetricsConfig    `json:"metrics" mapstructure:"metrics"`
}

// WebsocketConfig holds the settings shared by every managed websocket
// connection
type WebsocketConfig struct {
	HandshakeTimeout time.Duration `json:"handshakeTimeout" mapstructure:"handshakeTimeout"`
	WriteTimeout     time.Duration `json:"writeTimeout" mapstructure:"writeTimeout"`
	ReadLimit        int64         `json:"readLimit" mapstructure:"readLimit"`
	// MessagesPerSecond paces outbound frames, zero is unlimited
	MessagesPerSecond int `json:"messagesPerSecond" mapstructure:"messagesPerSecond"`
	// MaxConsecutiveErrors ends a connection after that many consecutive frame
	// failures, zero never does
	MaxConsecutiveErrors int    `json:"maxConsecutiveErrors" mapstructure:"maxConsecutiveErrors"`
	ProxyURL             string `json:"proxyURL" mapstructure:"proxyURL"`
	Verbose              bool   `json:"verbose" mapstructure:"verbose"`
}

// ExchangeConfig holds all the information needed for each enabled Exchange.
type ExchangeConfig struct {
	Name         string        `json:"name" mapstructure:"name"`
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	Verbose      bool          `json:"verbose" mapstructure:"verbose"`
	HTTPTimeout  time.Duration `json:"httpTimeout" mapstructure:"httpTimeout"`
	RESTURL      string        `json:"restURL" mapstructure:"restURL"`
	WebsocketURL string        `json:"websocketURL" mapstructure:"websocketURL"`
	// Pairs are delimited currency pairs e.g. BTC-USDT
	Pairs []string `json:"pairs" mapstructure:"pairs"`
}

// MetricsConfig defines the prometheus endpoint
type MetricsConfig struct {
	Enabled       bool   `json:"enabled" mapstructure:"enabled"`
	ListenAddress string `json:"listenAddress" mapstructure:"listenAddress"`
}
