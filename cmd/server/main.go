package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tour-planner/internal/database"
	"tour-planner/internal/genetic"
	"tour-planner/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	addr := getEnv("SERVER_ADDR", "127.0.0.1:8080")

	appConfig, err := database.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	defaults, err := solverDefaults(appConfig)
	if err != nil {
		return fmt.Errorf("invalid solver settings in config file: %w", err)
	}

	srv, err := server.New(server.Config{
		Addr:     addr,
		DBPath:   getEnv("TOUR_DB_PATH", appConfig.DatabasePath),
		Defaults: defaults,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	actualAddr, err := srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Printf("API available at http://%s/api/v1", actualAddr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	log.Printf("Received signal %v, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// solverDefaults lays the config file's solver block over the stock
// parameters
func solverDefaults(appConfig *database.AppConfig) (genetic.Config, error) {
	defaults, err := genetic.DefaultConfig().WithOverrides(appConfig.Solver)
	if err != nil {
		return defaults, err
	}
	if appConfig.Solver != nil {
		log.Printf("[CONFIG] Using solver defaults from config file: generations=%d population=%d",
			defaults.Generations, defaults.PopulationSize)
	}
	return defaults, defaults.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
