package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhinavmishra97/ai-call-processing-service/logger"
	"github.com/abhinavmishra97/ai-call-processing-service/src/ai"
	"github.com/abhinavmishra97/ai-call-processing-service/src/config"
	"github.com/abhinavmishra97/ai-call-processing-service/src/controller"
	"github.com/abhinavmishra97/ai-call-processing-service/src/db"
	"github.com/abhinavmishra97/ai-call-processing-service/src/rabbitmq"
	"github.com/abhinavmishra97/ai-call-processing-service/src/repository"
	"github.com/abhinavmishra97/ai-call-processing-service/src/retry"
	"github.com/abhinavmishra97/ai-call-processing-service/src/router"
	"github.com/abhinavmishra97/ai-call-processing-service/src/service"
)

// Server represents the HTTP server
type Server struct {
	config          *config.GlobalConfig
	database        *db.DB
	publisher       *rabbitmq.AMQPPublisher
	http            *http.Server
	shutdownHandler ShutdownHandlerInterface
}

// NewServer creates a new server instance
func NewServer(cfg *config.GlobalConfig) (*Server, error) {
	// Initialize database connection
	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connect to RabbitMQ and declare the call-events exchange up front
	publisher, err := rabbitmq.NewAMQPPublisher(cfg.RabbitURL(), config.CallEventsExchange)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	server := &Server{
		config:    cfg,
		database:  database,
		publisher: publisher,
	}
	server.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: server.buildRouter(),
	}

	// Create and assign shutdown handler
	server.shutdownHandler = NewShutdownHandler(server)

	return server, nil
}

// buildRouter wires repositories, services and controllers into the gin engine.
func (s *Server) buildRouter() http.Handler {
	repo := repository.NewCallRepository(s.database)
	notifier := service.NewEventPublisher(s.publisher, config.CallEventsExchange)

	var analyzer ai.Analyzer
	if s.config.UseMockAnalyzer {
		slog.Warn("Using mock analyzer; no external analysis service will be called")
		analyzer = ai.NewMockAnalyzer()
	} else {
		analyzer = ai.NewHTTPAnalyzer(s.config.AnalyzerServiceAddr)
	}

	registry := service.NewCallRegistry(repo)
	ingestor := service.NewPacketIngestor(repo, registry)
	processor := service.NewProcessor(repo, analyzer, notifier, retry.DefaultConfig())
	callService := service.NewCallService(repo, notifier, processor)

	r := router.Router{
		Logger:           logger.Logger,
		StreamController: controller.NewStreamController(ingestor),
		CallController:   controller.NewCallController(callService),
	}
	return r.SetUpRouter()
}

// Run starts the server with graceful shutdown using ShutdownHandler
func (s *Server) Run() error {
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	serverDone := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.http.Addr)
		err := s.http.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverDone <- err
			return
		}
		serverDone <- nil
	}()

	return s.shutdownHandler.HandleShutdown(serverDone, osSignals)
}
