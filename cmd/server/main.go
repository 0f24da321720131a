package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/config"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/handlers"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/router"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/routing"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/service"
	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/websocket"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Availability hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	repo := database.NewRepository(pool)
	bookingService := service.NewService(repo, hub, routing.CheapestOptions{
		MaxStops: cfg.SearchMaxStops,
	})

	// Load the route graph and airport index from the snapshot
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = bookingService.RebuildSnapshot(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to build route snapshot: %v", err)
	}

	// Initialize handlers
	h := handlers.NewHandler(bookingService)

	// Create router
	r := router.SetupRouter(h, hub)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Reservation API starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
