package server

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Abdorithm/alx-files-manager/pkg/db/migrations"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"github.com/spf13/cobra"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the metadata database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			applied, err := m.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied migration %d\n", v)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the last applied migration",
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			version, err := m.Rollback(cmd.Context())
			if err != nil {
				return err
			}
			if version == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to revert")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reverted migration %d\n", version)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List known migrations and whether they are applied",
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			status, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tAPPLIED\tDESCRIPTION")
			for _, s := range status {
				fmt.Fprintf(tw, "%d\t%t\t%s\n", s.Version, s.Applied, s.Description)
			}
			return tw.Flush()
		}),
	})

	return cmd
}

func withMigrator(fn func(*cobra.Command, *migrations.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cmd.Context() == nil {
			cmd.SetContext(context.Background())
		}

		cfg, err := config.LoadServerConfig()
		if err != nil {
			return fmt.Errorf("failed to load server configuration: %w", err)
		}

		st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Metadata.SQLite.Path})
		if err != nil {
			return err
		}
		defer st.Close()

		return fn(cmd, migrations.NewMigrator(st.DB()))
	}
}
