package personas

import (
	"fmt"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/constants"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/momentum"
	"github.com/julianstephens/becoming/internal/scheduler"
	"github.com/julianstephens/becoming/internal/tracker"
)

type ActionCmd struct {
	Add    ActionAddCmd    `cmd:"" help:"Add a repeatable action under a benchmark."`
	Edit   ActionEditCmd   `cmd:"" help:"Edit an action."`
	List   ActionListCmd   `cmd:"" help:"List a persona's actions."`
	Delete ActionDeleteCmd `cmd:"" help:"Delete an action and its logs."`
}

// FrequencyFlags are shared by add and edit.
type FrequencyFlags struct {
	Days  string `help:"Weekdays the action is due, e.g. mon,wed,fri."`
	Daily bool   `help:"Due every day."`
}

// parse returns nil when neither flag was given.
func (f FrequencyFlags) parse() (*models.Frequency, error) {
	switch {
	case f.Daily && f.Days != "":
		return nil, fmt.Errorf("--daily and --days are mutually exclusive")
	case f.Daily:
		freq := models.Daily()
		return &freq, nil
	case f.Days != "":
		freq, err := models.ParseFrequency(f.Days)
		if err != nil {
			return nil, err
		}
		return &freq, nil
	}
	return nil, nil
}

type ActionAddCmd struct {
	FrequencyFlags `embed:""`

	Title     string `arg:"" help:"Action title."`
	Benchmark string `help:"Benchmark title or ID." short:"b" required:""`
	Persona   string `help:"Limit benchmark lookup to this persona." short:"p"`
	Anchor    string `help:"Existing habit this action follows (habit stacking)."`
	Kickstart string `help:"Smallest version of the action for low-energy days."`
}

func (c *ActionAddCmd) Run(ctx *cli.Context) error {
	freq, err := c.parse()
	if err != nil {
		return err
	}
	if freq == nil {
		return fmt.Errorf("pass --days or --daily")
	}

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
	a, err := tr.CreateAction(ctx.Ctx(), b.ID, tracker.ActionSpec{
		Title:            c.Title,
		Frequency:        *freq,
		AnchorLink:       c.Anchor,
		KickstartVersion: c.Kickstart,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added action %q (%s) under %q\n", a.Title, a.Frequency.Label(), b.Title)
	if len(a.Frequency) == 0 {
		fmt.Println(cli.WarningStyle.Render("⚠ This action is never due and will not affect scores."))
	}
	return nil
}

type ActionEditCmd struct {
	FrequencyFlags `embed:""`

	Action    string  `arg:"" help:"Action title or ID."`
	Persona   string  `help:"Limit lookup to this persona." short:"p"`
	Title     *string `help:"New title."`
	Anchor    *string `help:"New anchor; empty to clear."`
	Kickstart *string `help:"New kickstart version; empty to clear."`
}

func (c *ActionEditCmd) Run(ctx *cli.Context) error {
	freq, err := c.parse()
	if err != nil {
		return err
	}
	if c.Title == nil && freq == nil && c.Anchor == nil && c.Kickstart == nil {
		return fmt.Errorf("nothing to change")
	}

	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	persona, err := scope(tr, c.Persona)
	if err != nil {
		return err
	}
	a, err := tr.ResolveAction(persona, c.Action)
	if err != nil {
		return err
	}
	updated, err := tr.EditAction(ctx.Ctx(), a.ID, tracker.ActionEdit{
		Title:            c.Title,
		Frequency:        freq,
		AnchorLink:       c.Anchor,
		KickstartVersion: c.Kickstart,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Updated action %q (%s)\n", updated.Title, updated.Frequency.Label())
	return nil
}

type ActionListCmd struct {
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
}

func (c *ActionListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}

	today := tr.Today()
	from := today.AddDays(1 - constants.WindowAlignment)
	if since := models.DateOf(p.CreatedAt.In(tr.Location())); from.Before(since) {
		from = since
	}

	var rows [][]string
	for _, b := range tr.Records().BenchmarksFor(p.ID) {
		for _, a := range tr.Records().ActionsFor(b.ID) {
			idx := momentum.IndexLogs(tr.Records().LogsFor(a.ID))
			done := 0
			for d := from; !d.After(today); d = d.AddDays(1) {
				if scheduler.IsDue(a, d) && idx.Completed(a.ID, d) {
					done++
				}
			}
			rows = append(rows, []string{
				models.ShortID(a.ID),
				a.Title,
				a.Frequency.Label(),
				fmt.Sprintf("%d/%d", done, scheduler.Occurrences(a, from, today)),
				b.Title,
				a.AnchorLink,
				a.KickstartVersion,
			})
		}
	}
	if len(rows) == 0 {
		fmt.Printf("No actions for %s.\n", p.Name)
		return nil
	}
	fmt.Println(cli.TitleStyle.Render(p.Name))
	fmt.Println(cli.Table([]string{"ID", "Title", "Days", "Done/30d", "Benchmark", "Anchor", "Kickstart"}, rows))
	return nil
}

type ActionDeleteCmd struct {
	Action  string `arg:"" help:"Action title or ID."`
	Persona string `help:"Limit lookup to this persona." short:"p"`
}

func (c *ActionDeleteCmd) Run(ctx *cli.Context) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	persona, err := scope(tr, c.Persona)
	if err != nil {
		return err
	}
	a, err := tr.ResolveAction(persona, c.Action)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("This removes %d log(s).", len(tr.Records().LogsFor(a.ID)))
	if err := ctx.Confirm(fmt.Sprintf("Delete action %q?", a.Title), desc); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	removal, err := tr.DeleteAction(ctx.Ctx(), a.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted action %q (%d logs)\n", a.Title, len(removal.Logs))
	return nil
}
