package progress

import (
	"fmt"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/tracker"
	"github.com/julianstephens/becoming/internal/utils"
)

type ToggleCmd struct {
	Action  string `arg:"" help:"Action title or ID."`
	Date    string `help:"Date in YYYY-MM-DD format (default: today)."`
	Persona string `help:"Limit lookup to this persona (default: active persona)." short:"p"`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	date, err := utils.ParseDateOrToday(c.Date, tr.Today())
	if err != nil {
		return err
	}
	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	a, err := tr.ResolveAction(p.ID, c.Action)
	if err != nil {
		return err
	}

	unsubscribe := tr.Subscribe(func(u tracker.ScoreUpdate) {
		fmt.Println(cli.FormatResult("Momentum", u.Scores.Momentum))
		fmt.Println(cli.FormatResult("Alignment", u.Scores.Alignment))
	})
	defer unsubscribe()

	update, err := tr.Toggle(ctx.Ctx(), a.ID, date)
	if err != nil {
		return err
	}
	state := "not done"
	if update.Log.Status {
		state = cli.SuccessStyle.Render("done")
	}
	fmt.Printf("%s %q on %s: %s\n", cli.Check(update.Log.Status), a.Title, date, state)
	return nil
}
