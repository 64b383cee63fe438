package main

import (
	"strings"

	"github.com/urfave/cli/v2"
)

var pairsCommand = &cli.Command{
	Name:  "pairs",
	Usage: "lists every pair Binance currently trades",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "quote",
			Usage: "only list pairs quoted in this currency e.g. USDT",
		},
	},
	Action: getPairs,
}

type pairOutput struct {
	Symbol string `json:"symbol"`
	Pair   string `json:"pair"`
	Quote  string `json:"quote"`
	Type   string `json:"type"`
}

func getPairs(c *cli.Context) error {
	b, err := newBinance()
	if err != nil {
		return err
	}
	securities, err := b.GetAllPairs(c.Context)
	if err != nil {
		return err
	}
	quote := strings.ToUpper(c.String("quote"))
	out := make([]pairOutput, 0, len(securities))
	for _, s := range securities {
		if quote != "" && s.Pair.Quote.String() != quote {
			continue
		}
		out = append(out, pairOutput{
			Symbol: s.Symbol,
			Pair:   s.Name,
			Quote:  s.Quote.Name,
			Type:   s.Type.String(),
		})
	}
	return jsonOutput(c, out)
}
