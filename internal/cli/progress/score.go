package progress

import (
	"fmt"

	"github.com/julianstephens/becoming/internal/cli"
)

type ScoreCmd struct {
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
}

func (c *ScoreCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	scores, err := tr.Scores(p.ID)
	if err != nil {
		return err
	}
	streak, err := tr.Streak(p.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(p.Name))
	fmt.Println(cli.FormatResult("Momentum", scores.Momentum))
	fmt.Println(cli.FormatResult("Alignment", scores.Alignment))
	fmt.Printf("%-10s %d day(s)\n", "Streak", streak)
	if len(tr.Records().ActionsForPersona(p.ID)) == 0 {
		fmt.Println(cli.MutedStyle.Render("No actions yet; add one with 'becoming action add'."))
	}
	return nil
}
