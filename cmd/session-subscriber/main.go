package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"SessionSpectra/internal/config"
	"SessionSpectra/internal/model"
	"SessionSpectra/internal/probe"
	"SessionSpectra/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	writers := writer.New(cfg)
	if len(writers) == 0 {
		log.Fatal("No writers enabled in config. Subscriber has nowhere to store sessions.")
	}

	subscriber, err := probe.NewSubscriber(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer subscriber.Close()

	ctx := context.Background()
	err = subscriber.Start(func(session *model.Session) {
		for _, w := range writers {
			if err := w.Write(ctx, []*model.Session{session}); err != nil {
				log.Printf("Error writing session via %s writer: %v", w.Name(), err)
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Subscriber shutting down...")
	for _, w := range writers {
		if err := w.Close(); err != nil {
			log.Printf("Error closing %s writer: %v", w.Name(), err)
		}
	}
}
