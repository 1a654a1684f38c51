package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/events"
	"gemini-proxy-go/internal/forwarder"
	"gemini-proxy-go/internal/logging"
	tracing "gemini-proxy-go/internal/monitoring/tracing"
	srv "gemini-proxy-go/internal/server"
	"gemini-proxy-go/internal/version"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cfg, err := config.LoadWithFile(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *debug {
		cfg.Logging.Debug = true
	}
	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}

	traceShutdown, err := tracing.Init(context.Background())
	if err != nil {
		log.WithError(err).Warn("failed to initialize tracing")
	}
	defer func() {
		if err := traceShutdown(context.Background()); err != nil {
			log.WithError(err).Warn("failed to shutdown tracing")
		}
	}()

	fw := forwarder.NewFromConfig(cfg)
	log.WithFields(log.Fields{
		"version":    version.Version,
		"config":     *configPath,
		"credential": string(fw.Mode()),
		"model":      cfg.Upstream.Model,
	}).Info("Starting gemini-proxy-go")

	hub := events.NewHub()
	subscribeReloads(hub, cfg, *debug)
	watcher := config.NewWatcher(*configPath, func(next *config.Config) {
		hub.Publish(context.Background(), events.TopicConfigReloaded, next, map[string]string{"path": *configPath})
	})
	watcher.Start()
	defer watcher.Stop()

	engine := srv.BuildEngine(cfg, srv.Dependencies{Forwarder: fw})
	httpSrv := newHTTPServer(cfg, engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, httpSrv, nil); err != nil {
		log.WithError(err).Error("server stopped with error")
		return
	}
	log.Info("Server stopped")
}
