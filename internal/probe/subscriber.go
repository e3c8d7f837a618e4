package probe

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"SessionSpectra/internal/config"
	"SessionSpectra/internal/model"
)

// SessionHandler is a function that processes a received session.
type SessionHandler func(session *model.Session)

// Subscriber is responsible for subscribing to a NATS subject and processing
// the session documents published there.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(cfg config.ProbeConfig) (*Subscriber, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)
	return &Subscriber{nc: nc, subject: cfg.Subject}, nil
}

// Start subscribes to the configured subject and processes messages with the
// provided handler. Messages that fail to decode are logged and dropped.
func (s *Subscriber) Start(handler SessionHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		var session model.Session
		if err := json.Unmarshal(msg.Data, &session); err != nil {
			log.Printf("Error unmarshalling session: %v", err)
			return
		}
		handler(&session)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("Subscribed to '%s'. Waiting for messages...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("NATS connection closed.")
	}
}
