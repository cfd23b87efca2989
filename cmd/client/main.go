package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"

	"github.com/dmitrijs2005/apodkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/apodkeeper/internal/client/cli"
	"github.com/dmitrijs2005/apodkeeper/internal/client/config"
	"github.com/dmitrijs2005/apodkeeper/internal/logging"
)

func main() {
	figure.NewFigure("APODKeeper", "cybermedium", true).Print()
	fmt.Println()
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	app.Root(ctx)
}
