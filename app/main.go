package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"taskboard-go/app/config"
	"taskboard-go/app/controllers"
	"taskboard-go/app/logging"
	"taskboard-go/app/repository"
	"taskboard-go/app/routes"
	"taskboard-go/app/services"
)

func main() {
	// Load environment variables from .env file, if one is present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}
	cfg := config.Load()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup OpenTelemetry
	otelShutdown, err := logging.SetupOTelSDK(context.Background())
	if err != nil {
		log.Fatal("Failed to setup OTel SDK:", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "OTel shutdown error: %v\n", err)
		}
	}()

	// Initialize Neo4j connection
	neo4jDriver, err := config.InitNeo4j(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Neo4j connection:", err)
	}
	defer neo4jDriver.Close(context.Background())

	// Initialize the storage, service and controller layers
	taskRepo := repository.NewNeo4jRepository(neo4jDriver)
	taskService := services.NewTaskService(taskRepo)
	taskController := controllers.NewTaskController(taskService)

	instanceID := uuid.New().String()
	logging.Log("Starting taskboard instance "+instanceID, slog.LevelInfo)

	// Start the retention sweeper on its own schedule
	sweeper := services.NewRetentionSweeper(taskRepo, cfg.SweepInterval)
	go sweeper.Run(ctx)

	// Setup HTTP server
	router := mux.NewRouter()
	routes.RegisterRoutes(router, taskController)

	httpServer := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: otelhttp.NewHandler(router, "taskboard-api"),
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("Server is running on http://0.0.0.0:%s\n", cfg.APIPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Fatal("Server startup failed:", err)
	case <-ctx.Done():
		fmt.Println("\nShutdown signal received, closing server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Fatal("Graceful shutdown failed:", err)
		}
		fmt.Println("Server exited cleanly")
	}
}
