package commands

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/core/styles"
	"github.com/jlong/planit/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show one body in detail",
		UsageText: "planit show <ref> [--json]",
		Description: `Prints a body's fields, its children (for stars), and its status
history.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: planit show <ref>")
	}

	id, err := parseRef(c.Args().First())
	if err != nil {
		return err
	}

	_, g, err := openStore(cmd.flags)
	if err != nil {
		return err
	}

	b, ok := g.Find(id)
	if !ok {
		return fmt.Errorf("body not found: %d", id)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, b)
	}

	styled := isTerminal(out)
	title := b.Title
	if styled {
		title = styles.Title().Render(title)
	}

	fmt.Fprintf(out, "%s %s %s\n", b.Ref(), renderKind(b.Kind, styled), title)
	fmt.Fprintf(out, "  status:   %s\n", renderStatus(b.Status, styled))
	if b.Description != "" {
		fmt.Fprintf(out, "  about:    %s\n", b.Description)
	}

	switch b.Kind {
	case body.KindComet:
		fmt.Fprintf(out, "  severity: %d\n", b.Severity)
		fmt.Fprintf(out, "  reported: %s\n", b.ReportedAt.Format(time.RFC3339))
	case body.KindPlanet:
		fmt.Fprintf(out, "  priority: %s\n", b.Priority)
		if b.DueAt != nil {
			fmt.Fprintf(out, "  due:      %s\n", b.DueAt.Format("2006-01-02"))
		}
		if len(b.Tags) > 0 {
			fmt.Fprintf(out, "  tags:     %s\n", strings.Join(b.Tags, ", "))
		}
		if len(b.Fields) > 0 {
			fmt.Fprintln(out, "  fields:")
			for _, k := range slices.Sorted(maps.Keys(b.Fields)) {
				fmt.Fprintf(out, "    %s: %s\n", k, b.Fields[k])
			}
		}
	}

	fmt.Fprintf(out, "  created:  %s\n", b.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "  updated:  %s\n", b.UpdatedAt.Format(time.RFC3339))

	if b.IsContainer() {
		children, err := g.ChildrenOf(b.ID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			fmt.Fprintln(out, "  children:")
			for _, c := range children {
				fmt.Fprintf(out, "    %s %s %q [%s]\n", c.Ref(), c.Kind, c.Title, c.Status)
			}
		}
	}

	if len(b.History) > 0 {
		fmt.Fprintln(out, "  history:")
		for _, h := range b.History {
			line := fmt.Sprintf("    %s  %s -> %s", h.Time.Format(time.RFC3339), h.Old, h.New)
			if h.Comment != "" {
				line += fmt.Sprintf("  (%s)", h.Comment)
			}
			fmt.Fprintln(out, line)
		}
	}

	return nil
}
