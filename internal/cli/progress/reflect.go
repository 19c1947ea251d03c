package progress

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/tracker"
)

type ReflectCmd struct {
	Add  ReflectAddCmd  `cmd:"" help:"Record a finished reflection."`
	List ReflectListCmd `cmd:"" help:"List reflections, newest first."`
}

type ReflectAddCmd struct {
	Input      string `arg:"" help:"What you noticed this period."`
	Period     string `help:"weekly, monthly or yearly." default:"weekly" enum:"weekly,monthly,yearly"`
	Feedback   string `help:"Coach feedback to store alongside."`
	Transcript string `help:"YAML file with the session transcript (a list of role/content messages)." type:"existingfile"`
	Persona    string `help:"Persona name or ID (default: active persona)." short:"p"`
}

func (c *ReflectAddCmd) Run(ctx *cli.Context) error {
	var transcript []models.Message
	if c.Transcript != "" {
		raw, err := os.ReadFile(c.Transcript)
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}
		if err := yaml.Unmarshal(raw, &transcript); err != nil {
			return fmt.Errorf("failed to parse transcript: %w", err)
		}
	}

	tr, release, err := ctx.OpenForWrite()
	if err != nil {
		return err
	}
	defer release()

	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	r, err := tr.AddReflection(ctx.Ctx(), tracker.ReflectionInput{
		PersonaID:  p.ID,
		Period:     models.PeriodType(c.Period),
		UserInput:  c.Input,
		AIFeedback: c.Feedback,
		Transcript: transcript,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s reflection for %s (momentum %d%%)\n", r.PeriodType, p.Name, r.MomentumScore)
	return nil
}

type ReflectListCmd struct {
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
	All     bool   `help:"Include reflections from every persona, including deleted ones."`
	Limit   int    `help:"Show at most this many." default:"10"`
}

func (c *ReflectListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	var id models.PersonaID
	if !c.All {
		p, err := tr.PersonaOrActive(c.Persona)
		if err != nil {
			return err
		}
		id = p.ID
	}

	reflections := tr.Reflections(id)
	if len(reflections) == 0 {
		fmt.Println("No reflections found.")
		return nil
	}
	if c.Limit > 0 && len(reflections) > c.Limit {
		reflections = reflections[:c.Limit]
	}
	for _, r := range reflections {
		fmt.Printf("%s  %s  momentum %s\n",
			cli.TitleStyle.Render(r.CreatedAt.In(ctx.Location).Format(time.DateOnly)),
			r.PeriodType,
			cli.ScoreStyle(r.MomentumScore).Render(fmt.Sprintf("%d%%", r.MomentumScore)))
		if r.UserInput != "" {
			fmt.Printf("  %s\n", r.UserInput)
		}
		if r.AIFeedback != "" {
			fmt.Println(cli.MutedStyle.Render("  coach: " + r.AIFeedback))
		}
	}
	return nil
}
