package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dwellio/backend/internal/config"
	"github.com/dwellio/backend/internal/database"
	"github.com/dwellio/backend/internal/handlers"
	"github.com/dwellio/backend/internal/middleware"
	"github.com/dwellio/backend/internal/repository"
	"github.com/dwellio/backend/internal/routes"
	"github.com/dwellio/backend/internal/storage"
	"github.com/dwellio/backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	client, err := database.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer func() {
		_ = database.Disconnect(context.Background(), client)
	}()

	media, err := storage.NewCloudinaryClient(cfg.Cloudinary)
	if err != nil {
		log.Fatalf("cloudinary initialization failed: %v", err)
	}

	db := client.Database(cfg.Mongo.Name)
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(client, db, cfg.Mongo.Timeout)

	validate := handlers.NewValidator()
	propertiesHandler := handlers.NewPropertiesHandler(propertyRepo, userRepo, media, validate)
	usersHandler := handlers.NewUsersHandler(userRepo)

	// 50MB body limit so embedded image payloads fit.
	app := fiber.New(fiber.Config{BodyLimit: 50 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	routes.Register(app, propertiesHandler, usersHandler)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
