// Command sampledist serves the sampling distribution demo over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/hyp3rd/sampledist"
	"github.com/hyp3rd/sampledist/pkg/middleware"
	"github.com/hyp3rd/sampledist/pkg/render"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	addr := flag.String("addr", "", "listen address, overrides the configuration")
	seed := flag.Uint64("seed", 0, "sampling seed, 0 picks a random one")
	flag.Parse()

	err := run(*configPath, *addr, *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, addr string, seed uint64) error {
	var opts []sampledist.Option
	if addr != "" {
		opts = append(opts, sampledist.WithHTTPAddress(addr))
	}

	if seed != 0 {
		opts = append(opts, sampledist.WithSeed(seed))
	}

	cfg := sampledist.NewConfig(opts...)
	if configPath != "" {
		var err error

		cfg, err = sampledist.LoadConfig(configPath, opts...)
		if err != nil {
			return err
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}

	defer func() { _ = logger.Sync() }()

	stdLog := zap.NewStdLog(logger)

	scene := render.NewScene()
	journal := render.NewJournal(cfg.JournalSize)

	collector, err := stats.NewCollector(cfg.StatsCollector)
	if err != nil {
		return err
	}

	ctrl, err := sampledist.NewController(render.NewRecorder(scene, journal), cfg,
		sampledist.WithLogger(stdLog),
		sampledist.WithStatsCollector(collector),
	)
	if err != nil {
		return err
	}

	// Use noop providers by default. Replace with real SDK providers in production.
	meter := noop.NewMeterProvider().Meter("sampledist")
	tracer := tracenoop.NewTracerProvider().Tracer("sampledist")

	svc := sampledist.ApplyMiddleware(ctrl,
		func(next sampledist.Service) sampledist.Service {
			return middleware.NewLoggingMiddleware(next, stdLog)
		},
		func(next sampledist.Service) sampledist.Service {
			return middleware.NewStatsCollectorMiddleware(next, collector)
		},
		func(next sampledist.Service) sampledist.Service {
			return middleware.NewOTelTracingMiddleware(next, tracer, middleware.WithCommonAttributes(
				attribute.String("session.id", ctrl.SessionID()),
			))
		},
	)

	svc, err = middleware.NewOTelMetricsMiddleware(svc, meter)
	if err != nil {
		return err
	}
	defer svc.Stop()

	server := sampledist.NewDemoHTTPServer(cfg.HTTP.Address,
		sampledist.WithDemoReadTimeout(cfg.HTTP.ReadTimeout),
		sampledist.WithDemoWriteTimeout(cfg.HTTP.WriteTimeout),
		sampledist.WithDemoScene(scene),
		sampledist.WithDemoJournal(journal),
		sampledist.WithDemoLogger(stdLog),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = server.Start(ctx, svc)
	if err != nil {
		return err
	}

	logger.Info("sampledist listening",
		zap.String("address", server.Address()),
		zap.String("session", ctrl.SessionID()),
		zap.String("distribution", cfg.Distribution))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
