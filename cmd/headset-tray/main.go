package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelepuginivan/headset-tray/cmd/headset-tray/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.NewCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
