package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/store/jsonfile"
)

type MvCmd struct {
	flags *Flags

	// flags
	parent string
	toRoot bool
}

// NewMvCmd creates a new mv command
func NewMvCmd(flags *Flags) *MvCmd {
	return &MvCmd{flags: flags}
}

// Register adds the mv command to the application
func (cmd *MvCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "mv",
		Usage:     "Move a body under a different parent",
		UsageText: "planit mv <ref> (--parent <ref> | --root)",
		Description: `Moves a body (and its subtree) under a new parent star, or to the
galaxy root with --root. The move is appended to the new parent's child
list.

A body can never be moved into its own subtree.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "parent",
				Aliases:     []string{"p"},
				Usage:       "new parent star reference",
				Destination: &cmd.parent,
			},
			&cli.BoolFlag{
				Name:        "root",
				Usage:       "move to the galaxy root",
				Destination: &cmd.toRoot,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *MvCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: planit mv <ref> (--parent <ref> | --root)")
	}
	if (cmd.parent == "") == !cmd.toRoot {
		return fmt.Errorf("pass exactly one of --parent or --root")
	}

	id, err := parseRef(c.Args().First())
	if err != nil {
		return err
	}

	newParent, err := parseParentFlag(cmd.parent)
	if err != nil {
		return err
	}

	path, g, err := openStore(cmd.flags)
	if err != nil {
		return err
	}

	if err := g.Reparent(id, newParent); err != nil {
		return err
	}

	if err := jsonfile.Save(g, path); err != nil {
		return err
	}

	b, _ := g.Find(id)
	if newParent == nil {
		fmt.Fprintf(c.Root().Writer, "Moved %s to the galaxy root\n", b.Ref())
	} else {
		p, _ := g.Find(*newParent)
		fmt.Fprintf(c.Root().Writer, "Moved %s under %s\n", b.Ref(), p.Ref())
	}
	return nil
}
