package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jildai/skin-analyzer/internal/config"
	"github.com/jildai/skin-analyzer/internal/logger"
	"github.com/jildai/skin-analyzer/internal/transport"
	"github.com/jildai/skin-analyzer/pkg/analysis"
	"github.com/jildai/skin-analyzer/pkg/processing"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	log.WithFields(logrus.Fields{
		"openrouter":  cfg.IsOpenRouterConfigured(),
		"huggingface": cfg.IsHuggingFaceConfigured(),
		"local":       cfg.IsLocalConfigured(),
	}).Info("Provider configuration")

	proc := processing.NewWithConfig(processing.Config{
		MaxFileSizeMB:    cfg.MaxFileSizeMB,
		MaxWidth:         cfg.MaxImageWidth,
		MaxHeight:        cfg.MaxImageHeight,
		Quality:          cfg.EncodeQuality,
		SupportedFormats: cfg.SupportedFormats,
	})
	analyzer := analysis.New(cfg, log)
	handler := transport.NewHandler(analyzer, proc, cfg, log)

	// WriteTimeout must cover the 120s inference call plus preparation
	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
	}

	go func() {
		log.WithField("address", cfg.ServerAddress()).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
