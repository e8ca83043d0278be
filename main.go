package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
)

func run(ctx context.Context, cfg Config) int {
	system := &System{cfg: cfg, out: os.Stdout}
	if cfg.ResultsDb != "" {
		storage, err := OpenStorage(cfg.ResultsDb)
		if err != nil {
			Logger.Errorf("%v", err)
			return ExitFailure
		}
		defer storage.Close()
		system.storage = storage
	}

	report, err := system.Run(ctx)
	if err != nil {
		Logger.Errorf("%v", err)
		return ExitFailure
	}
	if cfg.Strict && !report.Identical() {
		return ExitMismatch
	}
	return ExitOk
}

func main() {
	if err := godotenv.Load(); err == nil {
		ApplyLogLevel()
		Logger.Debugf("loaded environment from .env")
	}

	cfg, err := ParseConfig(os.Args[1:])
	if err != nil {
		Logger.Errorf("invalid arguments: %v", err)
		Logger.Sync()
		os.Exit(ExitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, cfg)
	stop()
	Logger.Sync()
	os.Exit(code)
}
