package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/core/config"
	"github.com/jlong/planit/internal/core/galaxy"
	"github.com/jlong/planit/internal/core/styles"
	"github.com/jlong/planit/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	kind       string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List the bodies in the galaxy",
		UsageText: "planit ls [--kind kind] [--json]",
		Description: `Displays the galaxy tree in depth-first order, preserving each star's
insertion order.

Use --kind to list only one variant as a flat table, or --json for
LLM-friendly JSON lines output.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "filter by body kind (comet, planet, star)",
				Destination: &cmd.kind,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	_, g, err := openStore(cmd.flags)
	if err != nil {
		return err
	}

	if g.Len() == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "Galaxy is empty; create a body with 'planit new'")
		}
		return nil
	}

	var filter body.Kind
	if cmd.kind != "" {
		filter, err = body.ParseKind(cmd.kind)
		if err != nil {
			return err
		}
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		seq := g.All()
		if filter != "" {
			seq = g.ByKind(filter)
		}
		for b := range seq {
			if err := iojson.WriteLine(out, buildBodyInfo(b)); err != nil {
				return fmt.Errorf("encode body: %w", err)
			}
		}
		return nil
	}

	styled := isTerminal(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if filter != "" {
		_, _ = fmt.Fprintln(w, "REF\tKIND\tTITLE\tSTATUS")
		for b := range g.ByKind(filter) {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Ref(), renderKind(b.Kind, styled), b.Title, renderStatus(b.Status, styled))
		}
		return w.Flush()
	}

	_, _ = fmt.Fprintln(w, "REF\tKIND\tTITLE\tSTATUS")
	cmd.renderTree(w, g, g.Root(), 0, styled)
	return w.Flush()
}

// renderTree prints a subtree with two-space indentation per depth,
// ordering siblings per the configured sort.
func (cmd *LsCmd) renderTree(w *tabwriter.Writer, g *galaxy.Galaxy, ids []body.ID, depth int, styled bool) {
	for _, id := range cmd.sortSiblings(g, ids) {
		b, ok := g.Find(id)
		if !ok {
			continue
		}

		indent := strings.Repeat("  ", depth)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s%s\t%s\n", b.Ref(), renderKind(b.Kind, styled), indent, b.Title, renderStatus(b.Status, styled))

		if len(b.Children) > 0 {
			cmd.renderTree(w, g, b.Children, depth+1, styled)
		}
	}
}

// sortSiblings orders a sibling id list per config. Position keeps
// insertion order; status and updated are stable over it.
func (cmd *LsCmd) sortSiblings(g *galaxy.Galaxy, ids []body.ID) []body.ID {
	sorted := slices.Clone(ids)

	switch cmd.flags.Config.List.Sort {
	case config.SortStatus:
		slices.SortStableFunc(sorted, func(a, b body.ID) int {
			ba, _ := g.Find(a)
			bb, _ := g.Find(b)
			return ba.Status.Order() - bb.Status.Order()
		})
	case config.SortUpdated:
		slices.SortStableFunc(sorted, func(a, b body.ID) int {
			ba, _ := g.Find(a)
			bb, _ := g.Find(b)
			return bb.UpdatedAt.Compare(ba.UpdatedAt)
		})
	}

	return sorted
}

func renderKind(k body.Kind, styled bool) string {
	if !styled {
		return k.String()
	}
	return styles.ForKind(k).Render(k.String())
}

func renderStatus(s body.Status, styled bool) string {
	if !styled {
		return s.String()
	}
	return styles.ForStatus(s).Render(s.String())
}

// bodyInfo is the JSON output format for planit ls --json.
type bodyInfo struct {
	ID       uint64     `json:"id"`
	Ref      string     `json:"ref"`
	Kind     string     `json:"kind"`
	Title    string     `json:"title"`
	Status   string     `json:"status"`
	Parent   *uint64    `json:"parent,omitempty"`
	Severity int        `json:"severity,omitempty"`
	Priority string     `json:"priority,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
	Children int        `json:"children,omitempty"`
}

func buildBodyInfo(b *body.Body) bodyInfo {
	info := bodyInfo{
		ID:       uint64(b.ID),
		Ref:      b.Ref(),
		Kind:     b.Kind.String(),
		Title:    b.Title,
		Status:   b.Status.String(),
		Severity: b.Severity,
		Priority: b.Priority.String(),
		DueAt:    b.DueAt,
		Children: len(b.Children),
	}
	if b.Parent != nil {
		p := uint64(*b.Parent)
		info.Parent = &p
	}
	return info
}
