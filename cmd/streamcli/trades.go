package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thrasher-corp/marketstream/connectivity/websocket"
	"github.com/thrasher-corp/marketstream/currency"
	"github.com/thrasher-corp/marketstream/database"
	tradedb "github.com/thrasher-corp/marketstream/database/repository/trade"
	exchange "github.com/thrasher-corp/marketstream/exchanges"
	"github.com/thrasher-corp/marketstream/log"
	"github.com/thrasher-corp/marketstream/market"
	"github.com/urfave/cli/v2"
)

var errNoPairs = errors.New("no pairs to subscribe to")

var tradesCommand = &cli.Command{
	Name:  "trades",
	Usage: "streams Binance trades and depth updates",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "pairs",
			Usage: "comma delimited pairs e.g. \"BTC-USDT,ETH-USDT\", defaults to the configured pairs",
		},
		&cli.BoolFlag{
			Name:  "record",
			Usage: "stores every trade in the configured database",
		},
		&cli.BoolFlag{
			Name:  "depth",
			Usage: "prints depth updates as well as trades",
		},
	},
	Action: streamTrades,
}

// parsePairs prefers the flag value over the configured pairs
func parsePairs(flag string, configured []string) (currency.Pairs, error) {
	raw := configured
	if flag != "" {
		raw = strings.Split(flag, ",")
	}
	pairs := make(currency.Pairs, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		p, err := currency.NewPairFromString(s)
		if err != nil {
			return nil, err
		}
		if !pairs.Contains(p, true) {
			pairs = append(pairs, p)
		}
	}
	if len(pairs) == 0 {
		return nil, errNoPairs
	}
	return pairs, nil
}

func openRecorder(ctx context.Context) (*database.Instance, error) {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := tradedb.Setup(ctx, db); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

func streamTrades(c *cli.Context) error {
	b, err := newBinance()
	if err != nil {
		return err
	}
	exch, err := cfg.GetExchangeConfig(binanceName)
	if err != nil {
		return err
	}
	pairs, err := parsePairs(c.String("pairs"), exch.Pairs)
	if err != nil {
		return err
	}
	securities := make([]*market.Security, 0, len(pairs))
	for _, p := range pairs {
		s, err := b.NewSecurity(p.Base.String(), p.Quote.String())
		if err != nil {
			return err
		}
		securities = append(securities, s)
	}

	var db *database.Instance
	if c.Bool("record") {
		if db, err = openRecorder(c.Context); err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Errorf(log.DatabaseMgr, "Closing database: %v", err)
			}
		}()
	}

	stop, err := serveMetrics(c.Context)
	if err != nil {
		return err
	}
	defer stop()

	stream, err := b.NewStream(c.Context)
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Shutdown(); err != nil {
			log.Errorf(log.ExchangeSys, "%s stream shutdown: %v", b.GetName(), err)
		}
	}()
	if err := stream.Subscribe(c.Context, securities); err != nil {
		return err
	}
	log.Infof(log.ExchangeSys, "%s streaming %s", b.GetName(), pairs.Strings())

	showDepth := c.Bool("depth")
	for {
		ev, err := stream.NextEvent(c.Context)
		switch {
		case errors.Is(err, websocket.ErrEndOfStream), errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}
		switch ev.Type {
		case exchange.TradeEvent:
			t := ev.Trade
			fmt.Fprintf(c.App.Writer, "%s %s %s %s @ %s\n",
				t.Timestamp.UTC().Format("15:04:05.000"), t.Pair, t.Side, t.Quantity, t.Price)
			if db == nil {
				continue
			}
			if err := tradedb.Insert(c.Context, db, tradedb.FromTrade(t)); err != nil {
				log.Errorf(log.Trade, "Recording %s trade %d: %v", t.Pair, t.TradeID, err)
			}
		case exchange.OrderBookUpdateEvent:
			if !showDepth {
				continue
			}
			u := ev.OrderBookUpdate
			fmt.Fprintf(c.App.Writer, "%s %s depth %d-%d bids:%d asks:%d\n",
				u.Timestamp.UTC().Format("15:04:05.000"), u.Pair, u.FirstUpdateID, u.LastUpdateID, len(u.Bids), len(u.Asks))
		}
	}
}
