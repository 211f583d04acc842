package server

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ShutdownHandlerInterface defines the interface for handling graceful shutdown
type ShutdownHandlerInterface interface {
	// HandleShutdown orchestrates the shutdown process
	// Returns an error if shutdown encounters an issue
	HandleShutdown(serverDone chan error, osSignals chan os.Signal) error

	// ShutdownServer initiates server shutdown
	ShutdownServer()
}

// ShutdownHandler implements the ShutdownHandlerInterface
type ShutdownHandler struct {
	server *Server
}

// NewShutdownHandler creates a new shutdown handler
func NewShutdownHandler(server *Server) ShutdownHandlerInterface {
	return &ShutdownHandler{
		server: server,
	}
}

// HandleShutdown orchestrates graceful shutdown based on shutdown sources
func (h *ShutdownHandler) HandleShutdown(serverDone chan error, osSignals chan os.Signal) error {
	// Wait for one of two shutdown triggers:
	// 1. Server error/completion (serverDone)
	// 2. OS signal (SIGTERM/SIGINT from Kubernetes or user)
	select {
	case err := <-serverDone:
		slog.Info("Server stopped, initiating shutdown")
		h.ShutdownServer()
		return err

	case sig := <-osSignals:
		slog.Info("Received OS signal, initiating graceful shutdown", "signal", sig.String())
		h.ShutdownServer()
		return <-serverDone
	}
}

// ShutdownServer drains in-flight requests, then releases the store and
// broker connections. In-flight pipeline runs hold their own handles and
// finish on their own schedule.
func (h *ShutdownHandler) ShutdownServer() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.server.http.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	h.server.publisher.Close()

	if err := h.server.database.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}

	slog.Info("Server exited gracefully")
}
