package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paklog/inventory-ledger/internal/bootstrap"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "inventory-ledger: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inventory-ledger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Log.Infof("inventory-ledger: starting workers")
	app.StartWorkers(ctx)

	<-ctx.Done()

	app.Log.Infof("inventory-ledger: shutting down")
	app.StopWorkers()
	app.Close(context.Background())
}
