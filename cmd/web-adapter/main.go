package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"zotsearch/internal/config"
	"zotsearch/internal/logger"
	"zotsearch/internal/render"
	"zotsearch/internal/search"
	"zotsearch/internal/web"
)

func main() {
	cfg := config.Get()

	closer, err := logger.Setup(cfg.Logging)
	if err != nil {
		logrus.Fatalf("failed to set up logging: %v", err)
	}
	defer closer.Close()
	log := logrus.StandardLogger()

	client := search.FromConfig(cfg.Backend, log)
	renderer := render.NewRenderer(cfg.CoverBase(), cfg.Render.MaxAuthors)

	opts := web.Options{Timeout: cfg.Backend.Timeout}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	srv, err := web.NewServer(client, renderer, log, opts)
	if err != nil {
		log.Fatalf("failed to build web server: %v", err)
	}

	addr := cfg.WebAdapter.Address()
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{
		"addr":    addr,
		"backend": cfg.Backend.BaseURL,
	}).Infof("🌐 Web Adapter started on http://%s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to start web server: %v", err)
	}
	log.Info("web adapter stopped")
}
