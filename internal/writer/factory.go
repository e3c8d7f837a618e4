package writer

import (
	"log"

	"SessionSpectra/internal/config"
	"SessionSpectra/internal/model"
)

// New builds the set of enabled writers from the configuration. Writers that
// fail to initialize (an unreachable database, for instance) are logged and
// skipped rather than aborting the run.
func New(cfg *config.Config) []model.Writer {
	writers := make([]model.Writer, 0, len(cfg.Writers))
	for _, def := range cfg.Writers {
		if !def.Enabled {
			continue
		}

		var (
			w   model.Writer
			err error
		)
		switch def.Type {
		case "json":
			w = NewJSONWriter(def.RootPath)
		case "gob":
			w = NewGobWriter(def.RootPath)
		case "clickhouse":
			w, err = NewClickHouseWriter(def.ClickHouse)
		case "postgres":
			w, err = NewPostgresWriter(def.Postgres)
		default:
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", def.Type)
			continue
		}
		if err != nil {
			log.Printf("Warning: failed to create writer type '%s': %v, skipping.", def.Type, err)
			continue
		}
		writers = append(writers, w)
	}
	return writers
}
