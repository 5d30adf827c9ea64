package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safestreet-service/config"
	"safestreet-service/handlers"
	"safestreet-service/rabbitmq"
	"safestreet-service/service"
	"safestreet-service/version"

	"github.com/apex/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	EndPointReport        = "/report"
	EndPointHazards       = "/hazards"
	EndPointPredict       = "/predict"
	EndPointListenHazards = "/hazards/listen"
	EndPointHealth        = "/health"
	EndPointVersion       = "/version"
	EndPointMetrics       = "/metrics"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warnf("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Set log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create service
	svc, err := service.NewService(cfg)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	// Initialize RabbitMQ publisher for downstream report processing
	publisher, err := rabbitmq.NewPublisher(cfg.GetRabbitMQURL(), cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey)
	if err != nil {
		log.Warnf("Failed to initialize RabbitMQ publisher: %v", err)
		log.Warnf("Report publishing will be unavailable. Continuing without RabbitMQ...")
	} else {
		svc.SetPublisher(publisher)
		log.Infof("RabbitMQ publisher initialized: exchange=%s, routing_key=%s", cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey)
	}

	// Start service
	if err := svc.Start(); err != nil {
		log.Fatalf("Failed to start service: %v", err)
	}

	// Setup HTTP server
	h := handlers.NewHandlers(svc)
	router := setupRouter(h)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infof("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop the service
	if err := svc.Stop(); err != nil {
		log.Errorf("Error stopping service: %v", err)
	}

	// Shutdown the HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Infof("Server exited")
}

func setupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// Add gzip compression middleware
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Root endpoints
	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointVersion, func(c *gin.Context) {
		c.JSON(200, version.Get(handlers.ServiceName))
	})
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		// Submit a hazard report
		api.POST(EndPointReport, h.SubmitReport)

		// Recent hazards for a location
		api.GET(EndPointHazards, h.GetHazards)

		// Should-avoid prediction for a location
		api.GET(EndPointPredict, h.Predict)

		// WebSocket endpoint for live report streaming
		api.GET(EndPointListenHazards, h.ListenHazards)
	}

	return router
}
