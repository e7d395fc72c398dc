package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/store/jsonfile"
)

type InitCmd struct {
	flags *Flags

	// flags
	title       string
	description string
	dir         string
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a new galaxy in the current directory",
		UsageText: "planit init [options]",
		Description: `Creates an empty galaxy store file (` + jsonfile.DefaultFilename + `) in the
target directory. Fails if a galaxy already exists there.

The galaxy title defaults to the directory name.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "galaxy title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "galaxy description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "target directory (defaults to the working directory)",
				Destination: &cmd.dir,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	dir := cmd.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		dir = cwd
	}

	title := cmd.title
	if title == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve target directory: %w", err)
		}
		title = filepath.Base(abs)
	}

	path, err := jsonfile.Init(dir, title, cmd.description)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Initialized galaxy %q at %s\n", title, path)
	return nil
}
