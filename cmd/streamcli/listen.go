package main

import (
	"errors"
	"fmt"

	"github.com/thrasher-corp/marketstream/connectivity/websocket"
	"github.com/urfave/cli/v2"
)

var errURLRequired = errors.New("a websocket URL is required")

var listenCommand = &cli.Command{
	Name:      "listen",
	Usage:     "connects to a websocket endpoint and prints every frame it receives",
	ArgsUsage: "<url>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "the ws or wss URL to connect to",
		},
		&cli.StringSliceFlag{
			Name:  "send",
			Usage: "text frames sent in order once connected, may be repeated",
		},
	},
	Action: listen,
}

func listen(c *cli.Context) error {
	wsURL := c.String("url")
	if !c.IsSet("url") {
		wsURL = c.Args().First()
	}
	if wsURL == "" {
		return errURLRequired
	}
	if cfg == nil {
		return errNoConfig
	}

	stop, err := serveMetrics(c.Context)
	if err != nil {
		return err
	}
	defer stop()

	client, err := websocket.Connect(c.Context, cfg.Websocket.ToConnectionConfig("", wsURL))
	if err != nil {
		return err
	}
	for _, msg := range c.StringSlice("send") {
		if err := client.Send(msg); err != nil {
			return err
		}
	}
	return printFrames(c, client)
}

// printFrames writes frames until the stream ends. A cancelled context
// disconnects the client and waits for it to be released.
func printFrames(c *cli.Context, client *websocket.Client) error {
	for {
		f, err := client.Receive(c.Context)
		switch {
		case errors.Is(err, websocket.ErrEndOfStream):
			<-client.Done()
			return nil
		case err != nil:
			client.Disconnect()
			<-client.Done()
			return nil
		}
		if f.Type == websocket.TextMessage {
			_, err = fmt.Fprintln(c.App.Writer, f.Text())
		} else {
			_, err = fmt.Fprintf(c.App.Writer, "%s %x\n", f, f.Payload)
		}
		if err != nil {
			client.Disconnect()
			<-client.Done()
			return err
		}
	}
}
