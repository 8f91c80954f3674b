package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"payupl/config"
	"payupl/internal/app"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("Webhook receiver error: %s", err)
	}
}
