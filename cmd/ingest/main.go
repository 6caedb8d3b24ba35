package main

import (
	"log/slog"
	"os"

	"github.com/niksmo/good-goods/config"
	"github.com/niksmo/good-goods/internal/app"
	"github.com/niksmo/good-goods/pkg/sigctx"
	"github.com/spf13/pflag"
)

func main() {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	sources := pflag.StringSlice(
		"sources", nil, "source tags to ingest, all configured when empty",
	)

	cfg := config.Load()
	cfg.Print()

	ingest := app.NewIngestApp(sigCtx, cfg)
	_, err := ingest.Run(*sources)
	ingest.Close()

	if err != nil {
		slog.Error("ingestion finished with errors", "err", err)
		stop()
		os.Exit(1)
	}
	slog.Info("ingestion finished")
}
