package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/usergate/userauth/internal/core/ports"
	"github.com/usergate/userauth/internal/infrastructure/config"
	"github.com/usergate/userauth/internal/infrastructure/db/mongo"
	"github.com/usergate/userauth/internal/infrastructure/db/postgres"
)

// backend is the selected credential and role store.
type backend struct {
	users ports.UserRepository
	roles ports.RoleRepository
	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (b *backend) Ping(ctx context.Context) error { return b.ping(ctx) }

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		st, err := postgres.Open(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")
		return &backend{users: st.Users, roles: st.Roles, ping: st.Ping, close: st.Close}, nil
	case config.StoreMongo:
		st, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Str("database", cfg.Mongo.Database).Msg("store connected")
		return &backend{users: st.Users, roles: st.Roles, ping: st.Ping, close: st.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
