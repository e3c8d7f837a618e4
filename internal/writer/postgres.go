package writer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"

	_ "github.com/lib/pq"

	"SessionSpectra/internal/config"
	"SessionSpectra/internal/model"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS tcp_sessions (
	id SERIAL PRIMARY KEY,
	src_ip TEXT NOT NULL,
	dst_ip TEXT NOT NULL,
	src_port INTEGER NOT NULL,
	dst_port INTEGER NOT NULL,
	start_time TIMESTAMP WITH TIME ZONE NOT NULL,
	end_time TIMESTAMP WITH TIME ZONE,
	packet_count INTEGER NOT NULL,
	byte_count BIGINT NOT NULL,
	recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`

// PostgresWriter stores per-session summaries in Postgres.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter connects to Postgres and ensures the sessions table
// exists.
func NewPostgresWriter(cfg config.PostgresConfig) (*PostgresWriter, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, sslMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	if _, err = db.Exec(createSessionsTable); err != nil {
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &PostgresWriter{db: db}, nil
}

func (w *PostgresWriter) Name() string { return "postgres" }

// Write inserts one row per session.
func (w *PostgresWriter) Write(ctx context.Context, sessions []*model.Session) error {
	query := `INSERT INTO tcp_sessions
		(src_ip, dst_ip, src_port, dst_port, start_time, end_time, packet_count, byte_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, s := range sessions {
		_, err := w.db.ExecContext(ctx, query,
			net.IP(s.Key.SrcIP[:]).String(),
			net.IP(s.Key.DstIP[:]).String(),
			int(s.Key.SrcPort),
			int(s.Key.DstPort),
			s.StartTime,
			s.EndTime,
			len(s.Packets),
			int64(s.ByteCount()),
		)
		if err != nil {
			return fmt.Errorf("error inserting session %s: %w", s.Key, err)
		}
	}

	log.Printf("Wrote %d sessions to Postgres", len(sessions))
	return nil
}

func (w *PostgresWriter) Close() error {
	return w.db.Close()
}
