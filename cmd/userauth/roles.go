package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usergate/userauth/internal/core/domain"
	"github.com/usergate/userauth/internal/infrastructure/config"
	"github.com/usergate/userauth/pkg/logger"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage the role store",
}

var rolesSeedCmd = &cobra.Command{
	Use:   "seed [role...]",
	Short: "Create the given roles (default SEED_ROLES) if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "userauth"})

		names := domain.DedupeRoleNames(args)
		if len(names) == 0 {
			names = cfg.SeedRoles
		}

		store, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer store.close(context.Background())

		if err := store.roles.EnsureRoles(cmd.Context(), names); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
		cmd.Printf("roles ensured: %s\n", strings.Join(names, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rolesCmd.AddCommand(rolesSeedCmd)
}
