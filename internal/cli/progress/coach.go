package progress

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/becoming/internal/cli"
)

type CoachCmd struct {
	Context CoachContextCmd `cmd:"" help:"Print the coaching context as YAML."`
}

type CoachContextCmd struct {
	Persona string `help:"Persona name or ID (default: active persona)." short:"p"`
}

func (c *CoachContextCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Open()
	if err != nil {
		return err
	}
	p, err := tr.PersonaOrActive(c.Persona)
	if err != nil {
		return err
	}
	cc, err := tr.CoachingContext(p.ID)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cc); err != nil {
		return fmt.Errorf("failed to encode coaching context: %w", err)
	}
	return enc.Close()
}
