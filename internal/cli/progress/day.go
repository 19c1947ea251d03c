package progress

import (
	"fmt"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/utils"
)

type DayCmd struct {
	Date    string `help:"Date in YYYY-MM-DD format (default: today)."`
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	date, err := utils.ParseDateOrToday(c.Date, tr.Today())
	if err != nil {
		return err
	}
	detail, err := tr.Day(p.ID, date)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s (%s)  %s\n", cli.TitleStyle.Render(p.Name), date, date.Weekday(), cli.StatusGlyph(detail.Status))
	if detail.Total == 0 {
		fmt.Println("Nothing due.")
		return nil
	}
	for _, s := range detail.Actions {
		line := fmt.Sprintf("%s %s", cli.Check(s.Completed), s.Action.Title)
		if s.Action.AnchorLink != "" {
			line += cli.MutedStyle.Render("  after " + s.Action.AnchorLink)
		}
		fmt.Println(line)
		if !s.Completed && s.Action.KickstartVersion != "" {
			fmt.Println(cli.MutedStyle.Render("    kickstart: " + s.Action.KickstartVersion))
		}
	}
	fmt.Printf("\nCompleted: %d/%d\n", detail.Completed, detail.Total)
	if !detail.Loggable {
		fmt.Println(cli.MutedStyle.Render("This date is in the future and cannot be logged yet."))
	}
	return nil
}
