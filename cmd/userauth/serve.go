package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/usergate/userauth/internal/api"
	"github.com/usergate/userauth/internal/api/handler"
	"github.com/usergate/userauth/internal/core/ports"
	"github.com/usergate/userauth/internal/core/service"
	"github.com/usergate/userauth/internal/infrastructure/config"
	"github.com/usergate/userauth/internal/infrastructure/db/postgres"
	"github.com/usergate/userauth/internal/infrastructure/db/redis"
	"github.com/usergate/userauth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply postgres migrations before serving (postgres driver only)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "userauth",
	})

	if serveMigrate && cfg.StoreDriver == config.StorePostgres {
		if err := postgres.MigrateUp(cfg.Postgres.DSN); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("store close")
		}
	}()

	deps := map[string]handler.Pinger{cfg.StoreDriver: store}
	var roles ports.RoleRepository = store.roles
	if cfg.Redis.Addr != "" {
		rc, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rc.Close()
		roles = redis.NewCachedRoleRepository(roles, rc, cfg.Redis.RoleCacheTTL, log)
		deps["redis"] = rc
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.RoleCacheTTL).Msg("role cache enabled")
	}

	if err := roles.EnsureRoles(ctx, cfg.SeedRoles); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	hasher := service.NewBcryptHasher(cfg.JWT.BcryptCost)
	tokens, err := service.NewTokenService(cfg.TokenConfig())
	if err != nil {
		return err
	}
	userService := service.NewUserService(store.users, roles, hasher, log)
	authService := service.NewAuthService(store.users, userService, hasher, tokens, log)

	e := api.NewRouter(api.Deps{
		Auth:         authService,
		Users:        userService,
		Tokens:       tokens,
		Dependencies: deps,
		Logger:       log,
	})
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
