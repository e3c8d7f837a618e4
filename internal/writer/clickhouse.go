package writer

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"SessionSpectra/internal/config"
	"SessionSpectra/internal/model"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS tcp_sessions (
    RecordedAt  DateTime,
    SrcIP       String,
    DstIP       String,
    SrcPort     UInt16,
    DstPort     UInt16,
    StartTime   DateTime64(6),
    EndTime     Nullable(DateTime64(6)),
    PacketCount UInt64,
    ByteCount   UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(RecordedAt)
ORDER BY (RecordedAt, SrcIP, SrcPort);
`

// ClickHouseWriter stores per-session summaries in ClickHouse.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures the sessions table
// exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (*ClickHouseWriter, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

func (w *ClickHouseWriter) Name() string { return "clickhouse" }

// Write inserts one row per session into tcp_sessions.
func (w *ClickHouseWriter) Write(ctx context.Context, sessions []*model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO tcp_sessions")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	recordedAt := time.Now()
	for _, s := range sessions {
		var endTime interface{}
		if s.EndTime != nil {
			endTime = *s.EndTime
		}
		err = batch.Append(
			recordedAt,
			net.IP(s.Key.SrcIP[:]).String(),
			net.IP(s.Key.DstIP[:]).String(),
			s.Key.SrcPort,
			s.Key.DstPort,
			s.StartTime,
			endTime,
			uint64(len(s.Packets)),
			s.ByteCount(),
		)
		if err != nil {
			return fmt.Errorf("failed to append session to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d sessions to ClickHouse", len(sessions))
	return nil
}

func (w *ClickHouseWriter) Close() error {
	return w.conn.Close()
}
