package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/store/jsonfile"
)

type GalaxiesCmd struct {
	flags *Flags

	// flags
	root string
}

// NewGalaxiesCmd creates a new galaxies command
func NewGalaxiesCmd(flags *Flags) *GalaxiesCmd {
	return &GalaxiesCmd{flags: flags}
}

// Register adds the galaxies command to the application
func (cmd *GalaxiesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "galaxies",
		Usage:     "List every galaxy under a directory",
		UsageText: "planit galaxies [--root dir]",
		Description: `Scans a directory tree for galaxy store files and prints a summary of
each one found. Corrupt stores are reported but do not stop the scan.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory to scan (defaults to the working directory)",
				Destination: &cmd.root,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *GalaxiesCmd) run(ctx context.Context, c *cli.Command) error {
	root := cmd.root
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		root = cwd
	}

	paths, err := jsonfile.Discover(root)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "No galaxies found under %s\n", root)
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tBODIES\tPATH")

	for _, path := range paths {
		g, err := jsonfile.Load(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable galaxy")
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", g.Title, g.Len(), path)
	}

	return w.Flush()
}
