package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nijaru/yt-proxy/config"
	"github.com/nijaru/yt-proxy/handlers"
	"github.com/nijaru/yt-proxy/locale"
	"github.com/nijaru/yt-proxy/logger"
	"github.com/nijaru/yt-proxy/media"
	"github.com/nijaru/yt-proxy/youtube"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()

	if err := config.ValidateConfig(cfg); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	logr, err := logger.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}

	formatter, err := locale.NewFormatter(cfg.Locale.NumberLocale, cfg.Locale.DateLocale)
	if err != nil {
		logr.WithError(err).Fatal("Failed to initialize formatter")
	}
	messages, err := locale.NewMessages(cfg.Locale.MessageLanguage)
	if err != nil {
		logr.WithError(err).Fatal("Failed to initialize messages")
	}

	service := media.NewService(youtube.NewClient(cfg.Upstream), formatter, cfg.ResolveTimeout)
	handler := handlers.NewHandler(service, messages, cfg.MaxBodyBytes)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.NewRouter(handler, cfg, logr),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logr.WithFields(logrus.Fields{
			"port":     cfg.ServerPort,
			"language": cfg.Locale.MessageLanguage,
		}).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.WithError(err).Fatalf("Could not listen on :%s", cfg.ServerPort)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop

	logr.Info("Shutting down the server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.WithError(err).Fatal("Server shutdown failed")
	}
	logr.Info("Server stopped")
}
