package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"

	"github.com/dmitrijs2005/apodkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/apodkeeper/internal/server"
	"github.com/dmitrijs2005/apodkeeper/internal/server/config"
)

func main() {
	figure.NewFigure("APODKeeper", "cybermedium", true).Print()
	fmt.Println()
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
