package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	host, err := injector.InitializeHost(injector.ConfigPath(*configPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, host)
	stop()

	if err != nil {
		host.Logger.Error("Engine failed", log.Error(err))
	}
	_ = host.Logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run drives the engine and, when enabled, the websocket viewer. The viewer
// is shut down as soon as the engine stops.
func run(ctx context.Context, host *injector.Host) error {
	engine := host.Engine
	newScene(host.Config).register(engine)

	v := host.Viewer
	if v == nil {
		return engine.Run(ctx)
	}
	v.OnInput(engine.PushInput)

	g, gctx := errgroup.WithContext(ctx)
	serveCtx, cancel := context.WithCancel(gctx)
	g.Go(func() error {
		err := v.ListenAndServe(serveCtx, host.Config.Viewer.Addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		return engine.Run(gctx)
	})
	return g.Wait()
}
