package personas

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/tracker"
)

type BenchmarkCmd struct {
	Add      BenchmarkAddCmd      `cmd:"" help:"Add a milestone to a persona."`
	List     BenchmarkListCmd     `cmd:"" help:"List a persona's benchmarks."`
	Complete BenchmarkCompleteCmd `cmd:"" help:"Mark a benchmark completed."`
	Reopen   BenchmarkReopenCmd   `cmd:"" help:"Mark a completed benchmark active again."`
	Delete   BenchmarkDeleteCmd   `cmd:"" help:"Delete a benchmark with its actions and logs."`
}

type BenchmarkAddCmd struct {
	Title   string `arg:"" help:"Milestone title."`
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
	Target  string `help:"Target date (YYYY-MM-DD)."`
}

func (c *BenchmarkAddCmd) Run(ctx *cli.Context) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	var target *time.Time
	if c.Target != "" {
		d, err := models.ParseDate(c.Target)
		if err != nil {
			return err
		}
		t := d.In(ctx.Location)
		target = &t
	}
	b, err := tr.CreateBenchmark(ctx.Ctx(), p.ID, c.Title, target)
	if err != nil {
		return err
	}
	fmt.Printf("Added benchmark %q to %s (%s)\n", b.Title, p.Name, models.ShortID(b.ID))
	return nil
}

type BenchmarkListCmd struct {
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
}

func (c *BenchmarkListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	benchmarks := tr.Records().BenchmarksFor(p.ID)
	if len(benchmarks) == 0 {
		fmt.Printf("No benchmarks for %s.\n", p.Name)
		return nil
	}

	rows := make([][]string, 0, len(benchmarks))
	for _, b := range benchmarks {
		target := "-"
		if b.TargetDate != nil {
			target = b.TargetDate.In(ctx.Location).Format(time.DateOnly)
		}
		status := string(b.Status)
		if b.Status == models.BenchmarkCompleted {
			status = cli.SuccessStyle.Render(status)
		}
		rows = append(rows, []string{
			models.ShortID(b.ID),
			b.Title,
			status,
			target,
			fmt.Sprintf("%d", len(tr.Records().ActionsFor(b.ID))),
		})
	}
	fmt.Println(cli.TitleStyle.Render(p.Name))
	fmt.Println(cli.Table([]string{"ID", "Title", "Status", "Target", "Actions"}, rows))
	return nil
}

type BenchmarkCompleteCmd struct {
	Benchmark string `arg:"" help:"Benchmark title or ID."`
	Persona   string `help:"Limit lookup to this persona." short:"p"`
}

func (c *BenchmarkCompleteCmd) Run(ctx *cli.Context) error {
	return setBenchmarkStatus(ctx, c.Persona, c.Benchmark, (*tracker.Tracker).CompleteBenchmark)
}

type BenchmarkReopenCmd struct {
	Benchmark string `arg:"" help:"Benchmark title or ID."`
	Persona   string `help:"Limit lookup to this persona." short:"p"`
}

func (c *BenchmarkReopenCmd) Run(ctx *cli.Context) error {
	return setBenchmarkStatus(ctx, c.Persona, c.Benchmark, (*tracker.Tracker).ReopenBenchmark)
}

type benchmarkUpdate func(*tracker.Tracker, context.Context, models.BenchmarkID) (models.Benchmark, error)

func setBenchmarkStatus(ctx *cli.Context, personaRef, ref string, update benchmarkUpdate) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	persona, err := scope(tr, personaRef)
	if err != nil {
		return err
	}
	b, err := tr.ResolveBenchmark(persona, ref)
	if err != nil {
		return err
	}
	updated, err := update(tr, ctx.Ctx(), b.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Benchmark %q is now %s\n", updated.Title, updated.Status)
	return nil
}

type BenchmarkDeleteCmd struct {
	Benchmark string `arg:"" help:"Benchmark title or ID."`
	Persona   string `help:"Limit lookup to this persona." short:"p"`
}

func (c *BenchmarkDeleteCmd) Run(ctx *cli.Context) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	persona, err := scope(tr, c.Persona)
	if err != nil {
		return err
	}
	b, err := tr.ResolveBenchmark(persona, c.Benchmark)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("This removes %d action(s) and their logs.", len(tr.Records().ActionsFor(b.ID)))
	if err := ctx.Confirm(fmt.Sprintf("Delete benchmark %q?", b.Title), desc); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	removal, err := tr.DeleteBenchmark(ctx.Ctx(), b.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted benchmark %q (%d actions, %d logs)\n", b.Title, len(removal.Actions), len(removal.Logs))
	return nil
}

// scope resolves an optional persona filter; empty means all personas.
func scope(tr *tracker.Tracker, ref string) (models.PersonaID, error) {
	if ref == "" {
		return "", nil
	}
	p, err := tr.ResolvePersona(ref)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}
