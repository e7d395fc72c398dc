package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/store/jsonfile"
)

type RmCmd struct {
	flags *Flags

	// flags
	cascade bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Remove a body from the galaxy",
		UsageText: "planit rm <ref> [--cascade]",
		Description: `Removes a body. A star that still has children is refused unless
--cascade is given, in which case the entire subtree is removed.

Removed identifiers are retired permanently and never reissued.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "cascade",
				Usage:       "also remove the body's entire subtree",
				Destination: &cmd.cascade,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: planit rm <ref>")
	}

	id, err := parseRef(c.Args().First())
	if err != nil {
		return err
	}

	path, g, err := openStore(cmd.flags)
	if err != nil {
		return err
	}

	before := g.Len()
	if err := g.Remove(id, cmd.cascade); err != nil {
		return err
	}

	if err := jsonfile.Save(g, path); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Removed %d body(ies)\n", before-g.Len())
	return nil
}
