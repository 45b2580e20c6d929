package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/code-payments/mojo-sdk/pkg/mojo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.StandardLogger().WithField("type", "cmd/mojo").WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mojo",
		Usage: "Derive world program addresses and encode instructions offline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{"MOJO_CONFIG"},
				Usage:   "optional config file",
			},
			&cli.StringFlag{
				Name:  "network",
				Usage: "use the built-in configuration of devnet, mainnet or localnet",
			},
		},
		Commands: []*cli.Command{
			deriveCmd,
			encodeCmd,
			decodeCmd,
		},
	}
}

// loadEnvironment resolves the configuration for a command and applies its
// log level. --network only replaces the network; environment and file
// overrides still apply on top of that network's defaults.
func loadEnvironment(cctx *cli.Context) (*mojo.Environment, error) {
	var (
		config mojo.Config
		err    error
	)
	if cctx.IsSet("network") {
		var network mojo.Network
		if network, err = mojo.ParseNetwork(cctx.String("network")); err != nil {
			return nil, err
		}
		config, err = mojo.LoadNetworkConfig(cctx.String("config"), network)
	} else {
		config, err = mojo.LoadConfig(cctx.String("config"))
	}
	if err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	return config.Resolve()
}
