package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-summarizer/internal/config"
	"pdf-summarizer/internal/handler"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Invalid configuration:\n%v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Wiring
	container, err := config.NewContainer(ctx, cfg)
	if err != nil {
		log.Printf("Failed to initialize application: %v", err)
		os.Exit(1)
	}

	sessions := handler.NewSessionManager(handler.SessionOptions{
		Secret: cfg.SessionSecret,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.CookieSecure,
	})
	render, err := handler.NewRenderer(container.Logger)
	if err != nil {
		container.Logger.Error("Failed to parse templates", err)
		_ = container.Close()
		os.Exit(1)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(container.AuthService, sessions, render, container.Logger)
	dashboardHandler := handler.NewDashboardHandler(container.AuthService, container.DocumentService, sessions, render, container.Logger)
	documentHandler := handler.NewDocumentHandler(container.DocumentService, sessions, render, container.Logger, cfg.MaxFileSize)

	// Router
	router := handler.NewRouter(
		authHandler,
		dashboardHandler,
		documentHandler,
		handler.RequireAuth(sessions),
		container.Logger,
		cfg.CORSAllowedOrigins,
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Extraction and summarization of a large PDF can take minutes.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown failed", err)
	}
	if err := container.Close(); err != nil {
		container.Logger.Error("Failed to release resources", err)
	}

	container.Logger.Info("Server exited")
}
