package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/store/jsonfile"
)

type NewCmd struct {
	flags *Flags

	// flags
	parent      string
	description string
	severity    int
	priority    string
	due         string
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Create a new celestial body",
		UsageText: "planit new <comet|planet|star> <title> [options]",
		Description: `Creates a body and inserts it into the galaxy.

Comets are bugs or interrupts and carry a severity (1-5). Planets are
normal tasks with a priority and optional due date. Stars are containers
that group other bodies; only stars may be used as --parent.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "parent",
				Aliases:     []string{"p"},
				Usage:       "parent star reference (defaults to the galaxy root)",
				Destination: &cmd.parent,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "longer body description",
				Destination: &cmd.description,
			},
			&cli.IntFlag{
				Name:        "severity",
				Usage:       "comet severity (1-5)",
				Destination: &cmd.severity,
			},
			&cli.StringFlag{
				Name:        "priority",
				Usage:       "planet priority (low, medium, high, critical)",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "planet due date (YYYY-MM-DD or RFC 3339)",
				Destination: &cmd.due,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: planit new <comet|planet|star> <title>")
	}

	kind, err := body.ParseKind(c.Args().Get(0))
	if err != nil {
		return err
	}
	title := c.Args().Get(1)

	parent, err := parseParentFlag(cmd.parent)
	if err != nil {
		return err
	}

	path, g, err := openStore(cmd.flags)
	if err != nil {
		return err
	}

	id, err := g.NextID()
	if err != nil {
		return err
	}

	b, err := cmd.build(kind, id, title)
	if err != nil {
		return err
	}
	if cmd.description != "" {
		b.Description = cmd.description
	}

	if err := g.Insert(parent, b); err != nil {
		return err
	}

	// The bumped counter is persisted together with the body, so a
	// crash cannot hand the same id out twice.
	if err := jsonfile.Save(g, path); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Created %s %s %q\n", b.Kind, b.Ref(), b.Title)
	return nil
}

// build constructs the body variant, falling back to configured defaults
// for severity and priority.
func (cmd *NewCmd) build(kind body.Kind, id body.ID, title string) (*body.Body, error) {
	switch kind {
	case body.KindComet:
		severity := cmd.severity
		if severity == 0 {
			severity = cmd.flags.Config.New.Severity
		}
		return body.NewComet(id, title, severity)

	case body.KindPlanet:
		priority := cmd.priority
		if priority == "" {
			priority = cmd.flags.Config.New.Priority
		}
		p, err := body.ParsePriority(priority)
		if err != nil {
			return nil, err
		}

		var dueAt *time.Time
		if cmd.due != "" {
			due, err := parseDue(cmd.due)
			if err != nil {
				return nil, err
			}
			dueAt = &due
		}
		return body.NewPlanet(id, title, p, dueAt)

	default:
		return body.NewStar(id, title)
	}
}

func parseDue(v string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD or RFC 3339)", v)
	}
	return t, nil
}
