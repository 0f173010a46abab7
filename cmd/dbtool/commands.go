package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-log-service/internal/adapters/repositories"
	"trip-log-service/internal/config"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/services"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Manage the trip log database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newMigrateCmd(), newSeedCmd(), newCreateDriverCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, conn *sql.DB, cfg config.Config) error {
				cmd.Println("Initializing database schema...")
				if err := repositories.InitSchema(ctx, conn, cfg.DBDriver); err != nil {
					return fmt.Errorf("schema initialization failed: %w", err)
				}
				cmd.Println("Schema ready.")
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load drivers and trips from a YAML seed file",
		Long: `Creates the schema if needed, then inserts the drivers and trips listed
in the seed file. Drivers that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, conn *sql.DB, cfg config.Config) error {
				if path == "" {
					path = cfg.SeedPath
				}
				if err := repositories.InitSchema(ctx, conn, cfg.DBDriver); err != nil {
					return fmt.Errorf("schema initialization failed: %w", err)
				}

				cmd.Printf("Seeding database from %s...\n", path)
				n, err := repositories.SeedFromYAML(ctx, conn, cfg.DBDriver, path)
				if err != nil {
					return fmt.Errorf("seeding failed: %w", err)
				}
				cmd.Printf("Seeding complete: %d driver(s) created.\n", n)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "seed file (defaults to SEED_PATH)")
	return cmd
}

func newCreateDriverCmd() *cobra.Command {
	var in services.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-driver <username>",
		Short: "Register a driver account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Username = args[0]
			return withDB(cmd, func(ctx context.Context, conn *sql.DB, cfg config.Config) error {
				accounts := services.NewAccounts(repositories.NewSQLDriverRepository(conn, cfg.DBDriver), nil)

				d, err := accounts.Register(ctx, in)
				if errors.Is(err, services.ErrUsernameTaken) {
					return fmt.Errorf("driver %q already exists", in.Username)
				}
				if err != nil {
					return err
				}

				cmd.Printf("Created driver %q (id=%d, staff=%t).\n", d.Username, d.ID, d.IsStaff)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Password, "password", "", "account password (required)")
	cmd.Flags().BoolVar(&in.IsStaff, "staff", false, "allow listing other drivers' trips")
	cmd.Flags().StringVar(&in.Carrier, "carrier", "", "carrier name")
	cmd.Flags().StringVar(&in.TruckNumber, "truck", "", "truck/trailer number")
	cmd.Flags().StringVar(&in.HomeTerminalAddress, "home-terminal", "", "home terminal address")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// withDB loads configuration, opens the configured database and runs fn.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, conn *sql.DB, cfg config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, conn, cfg)
}
