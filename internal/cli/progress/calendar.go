package progress

import (
	"fmt"
	"strings"

	"github.com/julianstephens/becoming/internal/calendar"
	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/utils"
)

type CalendarCmd struct {
	Month   string `help:"Month in YYYY-MM format (default: this month)."`
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	year, month, err := utils.ParseMonth(c.Month, tr.Today())
	if err != nil {
		return err
	}
	days, err := tr.Month(p.ID, year, month)
	if err != nil {
		return err
	}
	streak, err := tr.Streak(p.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s  %s %d", p.Name, month, year)))
	fmt.Print(RenderMonth(days, tr.Today()))
	fmt.Println()
	fmt.Printf("%s complete  %s partial  %s missed  %s streak link\n",
		cli.StatusGlyph(calendar.StatusComplete),
		cli.StatusGlyph(calendar.StatusPartial),
		cli.StatusGlyph(calendar.StatusMissed),
		cli.SuccessStyle.Render("═"))
	fmt.Printf("Current streak: %d day(s)\n", streak)
	return nil
}

// RenderMonth lays days out Monday-first. Each cell is the day number and its
// status glyph; a streak link joins a day to the complete day before it.
func RenderMonth(days []calendar.Day, today models.Date) string {
	var b strings.Builder
	for _, w := range models.AllWeekdays {
		fmt.Fprintf(&b, " %-5s", w.Short())
	}
	b.WriteString("\n")
	if len(days) == 0 {
		return b.String()
	}

	col := int(days[0].Date.Weekday()) - 1
	b.WriteString(strings.Repeat("      ", col))
	for _, d := range days {
		link := " "
		if d.Streak && col > 0 {
			link = cli.SuccessStyle.Render("═")
		}
		num := fmt.Sprintf("%2d", d.Date.Day)
		if d.Date == today {
			num = cli.TitleStyle.Render(num)
		}
		fmt.Fprintf(&b, "%s%s %s  ", link, num, cli.StatusGlyph(d.Status))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	return b.String()
}
