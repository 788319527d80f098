package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lostcities-calculator/internal/config"
	"lostcities-calculator/internal/database"
	"lostcities-calculator/internal/server"
	"lostcities-calculator/internal/session"
	"lostcities-calculator/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Lost Cities score calculator...")

	cfg, err := config.Load(os.Args[0], os.Args[1:], ".env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(session.New(db, db))
	go hub.Run(ctx)

	srv := server.New(cfg.Addr, cfg.PublicURL, hub, db, web.Static())
	if err := srv.Start(ctx); err != nil {
		log.Printf("Server error: %v", err)
	}
}
