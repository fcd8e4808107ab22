package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/rbac-admin/internal"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	source, err := migrationSource(cfg)
	if err != nil {
		return err
	}

	db, err := goose.OpenDBWithDriver("pgx", source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}

	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}

// migrationSource picks the postgres database to migrate. The collections and
// the audit log may live in the same database.
func migrationSource(cfg *internal.Config) (string, error) {
	if cfg.Storage.Driver == internal.StorageSQL && cfg.Storage.SQL.Driver == "pgx" {
		return cfg.Storage.SQL.Source, nil
	}
	if cfg.Audit.Driver == internal.AuditGorm && cfg.Audit.Dialect == "postgres" {
		return cfg.Audit.Source, nil
	}
	return "", fmt.Errorf("nothing to migrate: neither storage nor audit uses postgres")
}
