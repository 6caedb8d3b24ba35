package main

import (
	"context"
	"time"

	"github.com/niksmo/good-goods/config"
	"github.com/niksmo/good-goods/internal/app"
	"github.com/niksmo/good-goods/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	catalog := app.NewCatalogApp(sigCtx, cfg)

	catalog.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	catalog.Close(ctx)
}
