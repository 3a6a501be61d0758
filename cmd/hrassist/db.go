package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsys/hrassist/pkg/db"
	"github.com/skillsys/hrassist/pkg/db/migrations"
	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/presenter"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management commands",
	Long:  `Commands for managing the HR database: migrations, status and seeding.`,
}

var dbMigrateCmd = withTracing(&cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		conn, err := db.Open(ctx, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer conn.Close()

		runner := db.NewMigrationRunner(conn)
		pending, err := runner.Pending(ctx, migrations.All())
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			presenter.Info("Database is up to date")
			return nil
		}

		if err := runner.Run(ctx, migrations.All()); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		for _, m := range pending {
			presenter.Success(fmt.Sprintf("%d - %s", m.Version, m.Description))
		}
		return nil
	},
})

var dbStatusCmd = withTracing(&cobra.Command{
	Use:   "status",
	Short: "Show database migration status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		conn, err := db.Open(ctx, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer conn.Close()

		applied, err := db.NewMigrationRunner(conn).AppliedVersions(ctx)
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		appliedSet := make(map[int64]bool, len(applied))
		for _, v := range applied {
			appliedSet[v] = true
		}

		all := migrations.All()
		presenter.Section("Database Migration Status")
		presenter.Info(fmt.Sprintf("Database: %s\n", cfg.Database.Path))

		count := 0
		for _, m := range all {
			status := "[ ]"
			if appliedSet[m.Version] {
				status = "[✓]"
				count++
			}
			presenter.Info(fmt.Sprintf("%s %d - %s", status, m.Version, m.Description))
		}
		presenter.Info(fmt.Sprintf("\nApplied: %d/%d migrations", count, len(all)))
		return nil
	},
})

var dbRollbackCmd = withTracing(&cobra.Command{
	Use:   "rollback",
	Short: "Roll back the last applied migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		conn, err := db.Open(ctx, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer conn.Close()

		runner := db.NewMigrationRunner(conn)
		applied, err := runner.AppliedVersions(ctx)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			presenter.Warning("No migrations to roll back")
			return nil
		}

		if err := runner.Rollback(ctx, migrations.All()); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		presenter.Success(fmt.Sprintf("Rolled back migration %d", applied[len(applied)-1]))
		return nil
	},
})

var dbSeedCmd = withTracing(&cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load reference data and employees from a YAML file",
	Long: `Load departments, positions, skills and employees from a YAML file.
Employees with an existing id are replaced, reference names are created on first use.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		data, err := hr.LoadSeedFile(args[0])
		if err != nil {
			return err
		}

		conn, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := hr.NewStore(conn).Seed(ctx, data); err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("Seeded %d employees from %s", len(data.Employees), args[0]))
		return nil
	},
})

func init() {
	dbCmd.AddCommand(dbMigrateCmd, dbStatusCmd, dbRollbackCmd, dbSeedCmd)
}
