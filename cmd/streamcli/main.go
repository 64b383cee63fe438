package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/thrasher-corp/marketstream/config"
	"github.com/thrasher-corp/marketstream/log"
	"github.com/thrasher-corp/marketstream/signaler"
	"github.com/urfave/cli/v2"
)

var (
	configPath string
	verbose    bool
	cfg        *config.Config
)

var errNoConfig = errors.New("config not loaded")

func jsonOutput(c *cli.Context, in any) error {
	j, err := json.MarshalIndent(in, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(j))
	return err
}

// setup loads the config and starts the logger before any command runs
func setup(_ *cli.Context) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Websocket.Verbose = true
		cfg.Database.Verbose = true
		for i := range cfg.Exchanges {
			cfg.Exchanges[i].Verbose = true
		}
	}
	if err := log.SetupGlobalLogger(&cfg.Logging); err != nil {
		return fmt.Errorf("unable to setup logger: %w", err)
	}
	return log.SetupSubLoggers(cfg.Logging.SubLoggers)
}

func teardown(_ *cli.Context) error {
	// Console writers cannot always be synced, a failure there is not fatal
	_ = log.Sync()
	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "streamcli"
	app.Usage = "command line interface for streaming and recording market data"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "the config file to load, JSON, YAML or TOML",
			EnvVars:     []string{config.EnvPrefix + "_CONFIG"},
			Destination: &configPath,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "logs every frame, request and query",
			Destination: &verbose,
		},
	}
	app.Before = setup
	app.After = teardown
	app.Commands = []*cli.Command{
		listenCommand,
		tradesCommand,
		pairsCommand,
	}
	return app
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Commands observe the cancelled context and disconnect their streams
		<-signaler.WaitForInterrupt()
		fmt.Println("streamcli interrupted, shutting down")
		cancel()
	}()

	err := newApp().RunContext(ctx, os.Args)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
