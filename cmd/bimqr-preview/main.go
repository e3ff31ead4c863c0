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

	"go.uber.org/zap"

	"bimqr/internal/config"
	"bimqr/internal/logging"
	"bimqr/internal/preview"
)

func main() {
	cfg, err := config.Load()
	must(err)

	dir := flag.String("dir", cfg.SiteDir, "generated site directory")
	addr := flag.String("addr", cfg.PreviewAddr, "listen address")
	flag.Parse()

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		must(fmt.Errorf("site directory not found: %s (run bimqr first)", *dir))
	}

	logger, err := logging.New(cfg.LogLevel)
	must(err)
	defer func() { _ = logger.Sync() }()

	e := preview.NewServer(*dir, logger)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("serving site", zap.String("dir", *dir), zap.String("addr", *addr))
		if err := e.Start(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	must(e.Shutdown(shutdownCtx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
