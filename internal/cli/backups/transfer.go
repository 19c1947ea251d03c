package backups

import (
	"fmt"
	"os"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/storage"
	"github.com/julianstephens/becoming/internal/transfer"
	"github.com/julianstephens/becoming/internal/validation"
)

type ExportCmd struct {
	File string `arg:"" help:"Destination YAML file, or - for stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ds, err := storage.LoadDataset(ctx.Ctx(), ctx.Store)
	if err != nil {
		return err
	}

	if c.File == "-" {
		return transfer.Export(os.Stdout, ds, ctx.Tracker.Now())
	}
	f, err := os.Create(c.File)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := transfer.Export(f, ds, ctx.Tracker.Now()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	fmt.Printf("Exported %d personas, %d actions, %d logs and %d reflections to %s\n",
		len(ds.Personas), len(ds.Actions), len(ds.Logs), len(ds.Reflections), c.File)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"YAML file produced by 'becoming export'." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	ds, err := transfer.Import(f)
	if err != nil {
		return err
	}
	result := validation.New().ValidateDataset(ds, ctx.Tracker.Today())
	if result.HasErrors() {
		return fmt.Errorf("import rejected:\n%s", result.FormatReport())
	}
	if result.HasConflicts() {
		fmt.Print(result.FormatReport())
	}

	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	desc := fmt.Sprintf("%d personas, %d benchmarks, %d actions, %d logs and %d reflections will replace everything currently stored.",
		len(ds.Personas), len(ds.Benchmarks), len(ds.Actions), len(ds.Logs), len(ds.Reflections))
	if err := ctx.Confirm("Replace all data with the import?", desc); err != nil {
		return err
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.ReplaceAll(ds); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Printf("%s Imported %s\n", cli.SuccessStyle.Render("✓"), c.File)
	return nil
}
