package system

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/becoming/internal/backup"
	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/lockfile"
	"github.com/julianstephens/becoming/internal/storage"
	"github.com/julianstephens/becoming/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks never fail the run.
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	run     func(*cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Lockfile", warnOnly: true, run: checkLockfile},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("%s Database reachable: FAIL\n", cli.DangerStyle.Render("❌"))
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("%s Database reachable: OK\n", cli.SuccessStyle.Render("✓"))
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("%s %s: OK\n", cli.SuccessStyle.Render("✓"), c.name)
		case c.warnOnly:
			fmt.Printf("%s %s: WARNING\n", cli.WarningStyle.Render("⚠"), c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("%s %s: FAIL\n", cli.DangerStyle.Render("❌"), c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if s := ctx.SQLite(); s != nil {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := ctx.Store.MigrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, err := ctx.Store.MigrationRunner()
	if err != nil {
		return err
	}
	st, err := runner.Status()
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.SQLite() == nil {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.Dir())
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("most recent backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkLockfile(ctx *cli.Context) error {
	if ctx.SQLite() == nil {
		return nil
	}
	holder, err := lockfile.Read(lockfile.PathFor(ctx.Store.GetConfigPath()))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("lock held by pid %d (%s) since %s", holder.PID, holder.Executable, holder.Acquired.Format(time.RFC3339))
}

func checkValidation(ctx *cli.Context) error {
	ds, err := storage.LoadDataset(ctx.Ctx(), ctx.Store)
	if err != nil {
		return err
	}
	today := ctx.Tracker.Today()
	result := validation.New().ValidateDataset(ds, today)
	if result.HasErrors() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	if result.HasConflicts() {
		fmt.Print(result.FormatReport())
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	name, offset := now.In(ctx.Location).Zone()
	fmt.Printf("   Using timezone %s (%s, UTC%+d)\n", ctx.Location, name, offset/3600)
	return nil
}
