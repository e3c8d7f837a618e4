package probe

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"SessionSpectra/internal/config"
	"SessionSpectra/internal/model"
)

// Publisher is responsible for publishing reconstructed sessions to a NATS
// subject. Payloads are the same self-describing JSON documents the writers
// produce.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(cfg config.ProbeConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// Publish serializes one session to JSON and publishes it to the configured
// subject.
func (p *Publisher) Publish(session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

// PublishAll publishes every session in a batch, stopping at the first
// transport error.
func (p *Publisher) PublishAll(sessions []*model.Session) error {
	for _, s := range sessions {
		if err := p.Publish(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
