package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/store/jsonfile"
)

type SetCmd struct {
	flags *Flags

	// flags
	title       string
	description string
	status      string
	comment     string
	due         string
}

// NewSetCmd creates a new set command
func NewSetCmd(flags *Flags) *SetCmd {
	return &SetCmd{flags: flags}
}

// Register adds the set command to the application
func (cmd *SetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "set",
		Usage:     "Update a body's mutable fields",
		UsageText: "planit set <ref> [options]",
		Description: `Updates the title, description, due date, or status of a body.

Status changes are appended to the body's history; use --comment to
record why.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "new title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "new description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "new status (open, in_progress, blocked, done)",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "comment",
				Aliases:     []string{"m"},
				Usage:       "comment recorded with a status change",
				Destination: &cmd.comment,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "planet due date (YYYY-MM-DD or RFC 3339, empty clears)",
				Destination: &cmd.due,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SetCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: planit set <ref>")
	}
	if cmd.title == "" && cmd.description == "" && cmd.status == "" && !c.IsSet("due") {
		return fmt.Errorf("nothing to update; pass --title, --description, --status, or --due")
	}

	id, err := parseRef(c.Args().First())
	if err != nil {
		return err
	}

	path, g, err := openStore(cmd.flags)
	if err != nil {
		return err
	}

	b, ok := g.Find(id)
	if !ok {
		return fmt.Errorf("body not found: %d", id)
	}

	if cmd.title != "" {
		if err := b.SetTitle(cmd.title); err != nil {
			return err
		}
	}
	if cmd.description != "" {
		b.SetDescription(cmd.description)
	}
	if c.IsSet("due") {
		if b.Kind != body.KindPlanet {
			return fmt.Errorf("--due only applies to planets, %s is a %s", b.Ref(), b.Kind)
		}
		if cmd.due == "" {
			b.SetDueAt(nil)
		} else {
			due, err := parseDue(cmd.due)
			if err != nil {
				return err
			}
			b.SetDueAt(&due)
		}
	}
	if cmd.status != "" {
		status, err := body.ParseStatus(cmd.status)
		if err != nil {
			return err
		}
		if err := b.SetStatus(status, cmd.comment); err != nil {
			return err
		}
	}

	if err := jsonfile.Save(g, path); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Updated %s %q\n", b.Ref(), b.Title)
	return nil
}
