package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uniagendas/internal/platform/config"
	"uniagendas/internal/platform/database"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema (reads DATABASE_URL)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE:  runMigrateUp,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE:  runMigrateVersion,
		},
	)
	return cmd
}

func openDatabase(cmd *cobra.Command) (*database.Pool, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return database.Open(cmd.Context(), cfg.Database)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	pool, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(pool.DB()); err != nil {
		return err
	}
	version, _, err := database.Version(pool.DB())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
	return nil
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	pool, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer pool.Close()

	version, dirty, err := database.Version(pool.DB())
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
	return nil
}
