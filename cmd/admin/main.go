package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/referralhub/internal/admin/console"
	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/config"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			log.Print("too many failed attempts")
		} else {
			log.Printf("%v", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := console.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
