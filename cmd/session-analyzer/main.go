package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"SessionSpectra/internal/config"
	"SessionSpectra/internal/engine/session"
	"SessionSpectra/internal/ingest"
	"SessionSpectra/internal/model"
	"SessionSpectra/internal/probe"
	"SessionSpectra/internal/writer"
	"SessionSpectra/pkg/pcap"
	"SessionSpectra/pkg/tshark"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: session-analyzer [-config <file>] <path_to_capture_file>")
		os.Exit(1)
	}
	capturePath := flag.Arg(0)

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	packets, err := decode(cfg, capturePath)
	if err != nil {
		log.Fatalf("Failed to decode capture: %v", err)
	}
	log.Printf("Decoded %d packets from '%s'.", len(packets), capturePath)

	sessions := session.Reconstruct(packets)
	log.Printf("Reconstructed %d sessions.", len(sessions))

	ctx := context.Background()
	for _, w := range writer.New(cfg) {
		if err := w.Write(ctx, sessions); err != nil {
			log.Printf("Error writing sessions via %s writer: %v", w.Name(), err)
		}
		if err := w.Close(); err != nil {
			log.Printf("Error closing %s writer: %v", w.Name(), err)
		}
	}

	if cfg.Probe.Enabled {
		publisher, err := probe.NewPublisher(cfg.Probe)
		if err != nil {
			log.Fatalf("Failed to create publisher: %v", err)
		}
		defer publisher.Close()

		if err := publisher.PublishAll(sessions); err != nil {
			log.Fatalf("Failed to publish sessions: %v", err)
		}
		log.Printf("Published %d sessions to '%s'.", len(sessions), cfg.Probe.Subject)
	}
}

// decode turns the capture file into packets through the configured decoder.
func decode(cfg *config.Config, capturePath string) ([]*model.Packet, error) {
	switch cfg.Decoder.Type {
	case "pcap":
		reader, err := pcap.NewReader(capturePath)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.ReadPackets()
	case "tshark", "":
		runner, err := tshark.NewRunner(cfg.Decoder.TsharkPath)
		if err != nil {
			return nil, err
		}
		raw, err := runner.Decode(context.Background(), capturePath)
		if err != nil {
			return nil, err
		}
		records, err := ingest.RecordsFromTsharkJSON(raw)
		if err != nil {
			return nil, err
		}
		return ingest.PacketsFromRecords(records), nil
	default:
		return nil, fmt.Errorf("unknown decoder type %q", cfg.Decoder.Type)
	}
}
