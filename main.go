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
	"time"

	"github.com/charmbracelet/log"
	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run parses args, wires the arena and serves it until ctx is cancelled or a
// signal arrives. Deferred cleanup, including the NATS drain, runs on every
// return.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tank-arena", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	port := fs.String("port", "", "Server port (overrides config)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	natsURL := fs.String("nats", "", "NATS server URL to publish effects to")
	seed := fs.Int64("seed", 0, "Random seed (0 keeps the configured seed)")
	defenders := fs.Int("defenders", 0, "Number of AI tanks (0 keeps the configured defenders)")
	autostart := fs.Bool("autostart", false, "Start waves as soon as the server is up")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}
		cfg = loaded
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *natsURL != "" {
		cfg.NATSURL = *natsURL
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *defenders > 0 {
		cfg.Defenders = server.RingDefenders(*defenders, 5)
	}
	if *autostart {
		cfg.Autostart = true
	}
	cfg.Sanitize()

	logger := server.NewLogger(cfg.LogLevel, os.Stderr)
	log.SetDefault(logger)
	logger.Info("starting tank arena", "port", cfg.Port, "seed", cfg.Seed, "defenders", len(cfg.Defenders))

	navigator, err := cfg.Navigator()
	if err != nil {
		return fmt.Errorf("cannot build battlefield: %w", err)
	}

	hub := server.NewHub(logger)
	sinks := game.MultiSink{hub}
	if cfg.NATSURL != "" {
		nc, err := server.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			logger.Warn("publishing effects to websocket clients only", "error", err)
		} else {
			defer func() {
				if err := nc.Drain(); err != nil {
					logger.Warn("nats drain failed", "error", err)
				}
			}()
			sinks = append(sinks, server.NewNATSSink(nc, cfg.NATSSubject, logger))
			logger.Info("publishing effects", "nats", cfg.NATSURL, "subject", cfg.NATSSubject+".>")
		}
	}

	sim, err := server.NewSimulation(server.Options{
		Navigator: navigator,
		Effects:   sinks,
		Logger:    logger,
		Seed:      cfg.Seed,
		Waves:     cfg.Waves,
		Match:     cfg.Match,
		Defenders: cfg.Defenders,
	})
	if err != nil {
		return fmt.Errorf("cannot create simulation: %w", err)
	}
	if cfg.Autostart {
		if err := sim.StartWaves(); err != nil {
			logger.Warn("waves not started", "error", err)
		}
	}

	srv := server.NewServer(sim, hub, logger, cfg.SnapshotRate)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sim.Run(ctx) })
	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error { return srv.RunSnapshots(ctx) })
	g.Go(func() error {
		logger.Info("server running", "url", "http://localhost:"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
