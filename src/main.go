package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/abhinavmishra97/ai-call-processing-service/logger"
	"github.com/abhinavmishra97/ai-call-processing-service/src/config"
	"github.com/abhinavmishra97/ai-call-processing-service/src/server"
)

// @title AI Call Processing Service API
// @version 1.0
// @description Ingests streamed call packets, tracks the call lifecycle and runs asynchronous AI post-processing

// @contact.name  Call Processing Team
// @contact.url   https://github.com/abhinavmishra97/ai-call-processing-service

func main() {
	cfg := loadConfig()
	setupLogging(cfg)

	srv, err := server.NewServer(&cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func loadConfig() config.GlobalConfig {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

func setupLogging(cfg config.GlobalConfig) {
	logger.Init(cfg.LogLevel)

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(slogger)
}
