// Command main is the entry point for the Chatter content API server.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"chatter/internal/config"
	"chatter/internal/server"

	"github.com/gofiber/fiber/v2"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "Chatter API",
		BodyLimit: cfg.MediaMaxUploadSizeMB * 1024 * 1024,
	})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")

		grace, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := app.ShutdownWithContext(grace); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
		if err := srv.Shutdown(grace); err != nil {
			log.Printf("Resource shutdown error: %v", err)
		}
	}()

	log.Printf("Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
