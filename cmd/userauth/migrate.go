package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/usergate/userauth/internal/infrastructure/config"
	"github.com/usergate/userauth/internal/infrastructure/db/postgres"
)

var migrateDSN string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run postgres schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := resolveDSN(cmd.Context())
		if err != nil {
			return err
		}
		if err := postgres.MigrateUp(dsn); err != nil {
			return err
		}
		cmd.Println("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := resolveDSN(cmd.Context())
		if err != nil {
			return err
		}
		if err := postgres.MigrateDown(dsn); err != nil {
			return err
		}
		cmd.Println("migrations rolled back")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	migrateCmd.PersistentFlags().StringVar(&migrateDSN, "dsn", "", "postgres DSN (defaults to POSTGRES_DSN)")
}

// resolveDSN prefers the --dsn flag so migrations can run without the
// rest of the service configuration.
func resolveDSN(ctx context.Context) (string, error) {
	if migrateDSN != "" {
		return migrateDSN, nil
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return "", err
	}
	return cfg.Postgres.DSN, nil
}
