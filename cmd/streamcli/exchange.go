package main

import (
	"net/http"

	"github.com/thrasher-corp/marketstream/exchanges/binance"
)

const binanceName = "binance"

func newBinance() (*binance.Exchange, error) {
	if cfg == nil {
		return nil, errNoConfig
	}
	exch, err := cfg.GetExchangeConfig(binanceName)
	if err != nil {
		return nil, err
	}
	return binance.New(&binance.Config{
		Name:         exch.Name,
		RESTURL:      exch.RESTURL,
		WebsocketURL: exch.WebsocketURL,
		HTTPClient:   &http.Client{Timeout: exch.HTTPTimeout},
		Websocket:    *cfg.Websocket.ToConnectionConfig(exch.Name, exch.WebsocketURL),
		Verbose:      exch.Verbose,
	})
}
