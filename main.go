package main

import (
	"flag"
	"os"

	"go.uber.org/fx"
	"golang.org/x/exp/slog"
)

func main() {
	config_path := flag.String("config", "./config.yaml", "path of the config file")
	flag.Parse()

	config, err := ReadConfig(*config_path)
	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	SetupLogging(config)

	app := fx.New(
		fx.NopLogger,
		Module(config),
	)
	app.Run()
}
