package personas

import (
	"fmt"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/tracker"
)

type PersonaCmd struct {
	Add    PersonaAddCmd    `cmd:"" help:"Create a persona."`
	List   PersonaListCmd   `cmd:"" help:"List personas with their scores."`
	Rename PersonaRenameCmd `cmd:"" help:"Rename a persona."`
	Edit   PersonaEditCmd   `cmd:"" help:"Edit a persona's description."`
	Delete PersonaDeleteCmd `cmd:"" help:"Delete a persona with its benchmarks, actions and logs."`
	Use    PersonaUseCmd    `cmd:"" help:"Set the default persona for other commands."`
}

type PersonaAddCmd struct {
	Name        string `arg:"" help:"Who you are becoming (e.g. \"Writer\")."`
	Description string `help:"Longer description of the identity." short:"d"`
	Use         bool   `help:"Make this the default persona."`
}

func (c *PersonaAddCmd) Run(ctx *cli.Context) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	p, err := tr.CreatePersona(ctx.Ctx(), c.Name, c.Description)
	if err != nil {
		return err
	}
	if c.Use || len(tr.Records().Personas()) == 1 {
		if err := tr.UsePersona(p.ID); err != nil {
			return err
		}
	}
	fmt.Printf("Added persona: %s (%s)\n", p.Name, models.ShortID(p.ID))
	return nil
}

type PersonaListCmd struct{}

func (c *PersonaListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	personas := tr.Records().Personas()
	if len(personas) == 0 {
		fmt.Println("No personas found. Add one with 'becoming persona add'.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	rows := make([][]string, 0, len(personas))
	for _, p := range personas {
		scores, err := tr.Scores(p.ID)
		if err != nil {
			return err
		}
		active := ""
		if p.ID == settings.ActivePersona {
			active = "*"
		}
		rows = append(rows, []string{
			active,
			models.ShortID(p.ID),
			p.Name,
			fmt.Sprintf("%d%%", scores.Momentum.Score),
			fmt.Sprintf("%d%%", scores.Alignment.Score),
			fmt.Sprintf("%d", len(tr.Records().BenchmarksFor(p.ID))),
			p.CreatedAt.In(ctx.Location).Format("2006-01-02"),
		})
	}
	fmt.Println(cli.Table([]string{"", "ID", "Name", "Momentum", "Alignment", "Benchmarks", "Since"}, rows))
	return nil
}

type PersonaRenameCmd struct {
	Persona string `arg:"" help:"Persona name or ID."`
	Name    string `arg:"" help:"New name."`
}

func (c *PersonaRenameCmd) Run(ctx *cli.Context) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	p, err := tr.ResolvePersona(c.Persona)
	if err != nil {
		return err
	}
	updated, err := tr.RenamePersona(ctx.Ctx(), p.ID, c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Renamed persona %q to %q\n", p.Name, updated.Name)
	return nil
}

type PersonaEditCmd struct {
	Persona     string  `arg:"" help:"Persona name or ID."`
	Name        *string `help:"New name."`
	Description *string `help:"New description." short:"d"`
}

func (c *PersonaEditCmd) Run(ctx *cli.Context) error {
	if c.Name == nil && c.Description == nil {
		return fmt.Errorf("nothing to change; pass --name or --description")
	}
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	p, err := tr.ResolvePersona(c.Persona)
	if err != nil {
		return err
	}
	updated, err := tr.EditPersona(ctx.Ctx(), p.ID, tracker.PersonaEdit{Name: c.Name, Description: c.Description})
	if err != nil {
		return err
	}
	fmt.Printf("Updated persona: %s\n", updated.Name)
	return nil
}

type PersonaDeleteCmd struct {
	Persona string `arg:"" help:"Persona name or ID."`
}

func (c *PersonaDeleteCmd) Run(ctx *cli.Context) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	p, err := tr.ResolvePersona(c.Persona)
	if err != nil {
		return err
	}
	benchmarks := tr.Records().BenchmarksFor(p.ID)
	actions := tr.Records().ActionsForPersona(p.ID)
	desc := fmt.Sprintf("This removes %d benchmark(s), %d action(s) and their logs. Reflections are kept.", len(benchmarks), len(actions))
	if err := ctx.Confirm(fmt.Sprintf("Delete persona %q?", p.Name), desc); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	removal, err := tr.DeletePersona(ctx.Ctx(), p.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted persona %q (%d benchmarks, %d actions, %d logs)\n",
		p.Name, len(removal.Benchmarks), len(removal.Actions), len(removal.Logs))
	return nil
}

type PersonaUseCmd struct {
	Persona string `arg:"" help:"Persona name or ID."`
}

func (c *PersonaUseCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	p, err := tr.ResolvePersona(c.Persona)
	if err != nil {
		return err
	}
	if err := tr.UsePersona(p.ID); err != nil {
		return err
	}
	fmt.Printf("Now using persona: %s\n", p.Name)
	return nil
}
