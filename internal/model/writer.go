package model

import "context"

// Writer defines a generic interface for persisting reconstructed sessions
// to a store. Implementations live in internal/writer.
type Writer interface {
	// Name identifies the writer in logs and configuration.
	Name() string

	// Write persists one batch of sessions. Implementations must treat the
	// sessions and their packets as read-only.
	Write(ctx context.Context, sessions []*Session) error

	// Close releases any underlying connection or file handle.
	Close() error
}
