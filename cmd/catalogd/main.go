package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/odnamestaj/catalog/config"
	"github.com/odnamestaj/catalog/internal/api"
	"github.com/odnamestaj/catalog/internal/app"
	"github.com/odnamestaj/catalog/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h           = flag.Bool("h", false, "help usage")
	conffile    = flag.String("c", "", "config yaml file")
	syncOnce    = flag.Bool("sync", false, "import the configured feed once and exit")
	printConfig = flag.Bool("print-config", false, "print the resolved config and exit")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()
	if *h {
		flag.Usage()
		return 0
	}

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *printConfig {
		fmt.Printf("%+v\n", *cfg)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.NewApplication(cfg)
	if *syncOnce {
		application.WithoutJobs()
	}
	if err := application.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer application.Release()

	if *syncOnce {
		return syncFeed(application)
	}

	server := webserver.NewWebServer(cfg)
	api.Register(server, api.NewHandlers(cfg, application.Store(), application.Products(), application.Importer()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down web server")
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("web server stopped", zap.Error(err))
		return 1
	}
	return 0
}

// syncFeed imports the configured feed once and returns the exit status.
func syncFeed(a app.AppContext) int {
	inserted, err := a.SyncFeed()
	if err != nil {
		zap.L().Error("feed sync failed", zap.Error(err))
		return 1
	}
	zap.L().Info("feed sync finished", zap.Int("inserted", inserted))
	return 0
}
