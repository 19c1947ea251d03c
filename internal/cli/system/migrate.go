package system

import (
	"fmt"

	"github.com/julianstephens/becoming/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	runner, err := ctx.Store.MigrationRunner()
	if err != nil {
		return err
	}

	if c.Status {
		st, err := runner.Status()
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		if st.UpToDate() {
			fmt.Println("Database is up to date.")
			return nil
		}
		for _, m := range st.Pending {
			fmt.Printf("  pending: %03d %s\n", m.Version, m.Name)
		}
		return nil
	}

	ctx.PerformAutomaticBackup()
	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
