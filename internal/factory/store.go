package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/config"
	storepkg "github.com/inkwell-hq/inkwell/internal/store"
	storepg "github.com/inkwell-hq/inkwell/internal/store/postgres"
	storelite "github.com/inkwell-hq/inkwell/internal/store/sqlite"
)

// NewStore returns the store implementation selected by cfg.DBDriver.
// The postgres driver requires a non-empty cfg.PostgresDSN; the schema is
// applied synchronously so health checks probe a usable database.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := cfg.PostgresDSN
		if dsn == "" {
			return nil, fmt.Errorf("INKWELL_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(dsn)
		if err != nil {
			return nil, err
		}
		if err := storepg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("store schema verified")
		return storepg.NewWithDB(db), nil
	case "sqlite":
		return storelite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
