package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DecoderConfig selects how capture files are turned into decoded records.
type DecoderConfig struct {
	// Type is "tshark" (external decoder) or "pcap" (gopacket, in-process).
	Type       string `yaml:"type"`
	TsharkPath string `yaml:"tshark_path"`
}

// ProbeConfig holds NATS transport settings for publishing sessions.
type ProbeConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// ClickHouseConfig holds connection settings for the ClickHouse writer.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// PostgresConfig holds connection settings for the Postgres writer.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

// WriterDef defines a single session sink from the config file.
type WriterDef struct {
	Type       string           `yaml:"type"` // json | gob | clickhouse | postgres
	Enabled    bool             `yaml:"enabled"`
	RootPath   string           `yaml:"root_path"` // json and gob writers
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Postgres   PostgresConfig   `yaml:"postgres"`
}

// APIConfig holds settings for the HTTP analyze service.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Probe   ProbeConfig   `yaml:"probe"`
	Writers []WriterDef   `yaml:"writers"`
	API     APIConfig     `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config
// struct. Secrets and endpoints can be overridden from the environment
// (typically populated by godotenv in the mains): NATS_URL,
// CLICKHOUSE_PASSWORD, POSTGRES_PASSWORD.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	cfg.applyEnvOverrides()
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("NATS_URL"); url != "" {
		c.Probe.NATSURL = url
	}
	for i := range c.Writers {
		switch c.Writers[i].Type {
		case "clickhouse":
			if pw := os.Getenv("CLICKHOUSE_PASSWORD"); pw != "" {
				c.Writers[i].ClickHouse.Password = pw
			}
		case "postgres":
			if pw := os.Getenv("POSTGRES_PASSWORD"); pw != "" {
				c.Writers[i].Postgres.Password = pw
			}
		}
	}
}
