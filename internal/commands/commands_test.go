package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/core/config"
	"github.com/jlong/planit/internal/store/jsonfile"
)

// runPlanit runs one CLI invocation against a fresh app so per-command
// flag state never leaks between invocations.
func runPlanit(t *testing.T, flags *Flags, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:   "planit",
		Writer: &buf,
	}

	app = NewInitCmd(flags).Register(app)
	app = NewNewCmd(flags).Register(app)
	app = NewLsCmd(flags).Register(app)
	app = NewShowCmd(flags).Register(app)
	app = NewSetCmd(flags).Register(app)
	app = NewMvCmd(flags).Register(app)
	app = NewRmCmd(flags).Register(app)
	app = NewGalaxiesCmd(flags).Register(app)
	app = NewConfigCmd(flags).Register(app)

	err := app.Run(context.Background(), append([]string{"planit"}, args...))
	return buf.String(), err
}

// newTestFlags initializes a galaxy store in a temp dir and returns
// flags pointing straight at it.
func newTestFlags(t *testing.T) *Flags {
	t.Helper()

	cfg := config.DefaultConfig()
	flags := &Flags{
		StorePath: filepath.Join(t.TempDir(), jsonfile.DefaultFilename),
		Config:    &cfg,
	}

	_, err := runPlanit(t, flags, "init", "--dir", filepath.Dir(flags.StorePath), "--title", "Test Galaxy")
	require.NoError(t, err)

	return flags
}

func TestInitCmd(t *testing.T) {
	t.Run("creates the store file", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.DefaultConfig()
		flags := &Flags{Config: &cfg}

		out, err := runPlanit(t, flags, "init", "--dir", dir, "--title", "Apollo")
		require.NoError(t, err)
		assert.Contains(t, out, `Initialized galaxy "Apollo"`)

		g, err := jsonfile.Load(filepath.Join(dir, jsonfile.DefaultFilename))
		require.NoError(t, err)
		assert.Equal(t, "Apollo", g.Title)
	})

	t.Run("title defaults to the directory name", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "moonshot")
		cfg := config.DefaultConfig()
		flags := &Flags{Config: &cfg}

		out, err := runPlanit(t, flags, "init", "--dir", dir)
		require.NoError(t, err)
		assert.Contains(t, out, `Initialized galaxy "moonshot"`)
	})

	t.Run("refuses a second init", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.DefaultConfig()
		flags := &Flags{Config: &cfg}

		_, err := runPlanit(t, flags, "init", "--dir", dir)
		require.NoError(t, err)

		_, err = runPlanit(t, flags, "init", "--dir", dir)
		assert.ErrorIs(t, err, jsonfile.ErrGalaxyExists)
	})
}

func TestNewCmd(t *testing.T) {
	t.Run("builds a tree", func(t *testing.T) {
		flags := newTestFlags(t)

		out, err := runPlanit(t, flags, "new", "star", "Mission")
		require.NoError(t, err)
		assert.Contains(t, out, `Created star S1 "Mission"`)

		out, err = runPlanit(t, flags, "new", "planet", "Launch", "--parent", "S1", "--priority", "high")
		require.NoError(t, err)
		assert.Contains(t, out, `Created planet P2 "Launch"`)

		out, err = runPlanit(t, flags, "new", "comet", "Pager bug", "--parent", "1", "--severity", "4")
		require.NoError(t, err)
		assert.Contains(t, out, `Created comet C3 "Pager bug"`)

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)
		assert.Equal(t, 3, g.Len())

		star, ok := g.Find(1)
		require.True(t, ok)
		assert.Equal(t, []body.ID{2, 3}, star.Children)
	})

	t.Run("falls back to configured defaults", func(t *testing.T) {
		flags := newTestFlags(t)
		flags.Config.New.Severity = 5
		flags.Config.New.Priority = "critical"

		_, err := runPlanit(t, flags, "new", "comet", "bug")
		require.NoError(t, err)
		_, err = runPlanit(t, flags, "new", "planet", "task")
		require.NoError(t, err)

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)

		comet, ok := g.Find(1)
		require.True(t, ok)
		assert.Equal(t, 5, comet.Severity)

		planet, ok := g.Find(2)
		require.True(t, ok)
		assert.Equal(t, body.PriorityCritical, planet.Priority)
	})

	t.Run("refuses a non-star parent", func(t *testing.T) {
		flags := newTestFlags(t)

		_, err := runPlanit(t, flags, "new", "planet", "task")
		require.NoError(t, err)

		_, err = runPlanit(t, flags, "new", "comet", "bug", "--parent", "P1")
		assert.Error(t, err)
	})

	t.Run("parses a due date", func(t *testing.T) {
		flags := newTestFlags(t)

		_, err := runPlanit(t, flags, "new", "planet", "ship it", "--due", "2026-09-15")
		require.NoError(t, err)

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)

		planet, ok := g.Find(1)
		require.True(t, ok)
		require.NotNil(t, planet.DueAt)
		assert.Equal(t, 2026, planet.DueAt.Year())
		assert.Equal(t, time.September, planet.DueAt.Month())
	})
}

func TestLsCmd(t *testing.T) {
	seed := func(t *testing.T) *Flags {
		t.Helper()
		flags := newTestFlags(t)
		for _, args := range [][]string{
			{"new", "star", "Mission"},
			{"new", "planet", "Launch", "--parent", "S1"},
			{"new", "comet", "Pager bug", "--parent", "S1", "--severity", "2"},
			{"new", "comet", "Standalone bug"},
		} {
			_, err := runPlanit(t, flags, args...)
			require.NoError(t, err)
		}
		return flags
	}

	t.Run("tree output preserves insertion order", func(t *testing.T) {
		flags := seed(t)

		out, err := runPlanit(t, flags, "ls")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 5) // header plus four bodies
		assert.Contains(t, lines[0], "REF")
		assert.Contains(t, lines[1], "S1")
		assert.Contains(t, lines[2], "P2")
		assert.Contains(t, lines[3], "C3")
		assert.Contains(t, lines[4], "C4")

		// Children are indented under their star.
		assert.Contains(t, lines[2], "  Launch")
	})

	t.Run("kind filter", func(t *testing.T) {
		flags := seed(t)

		out, err := runPlanit(t, flags, "ls", "--kind", "comet")
		require.NoError(t, err)
		assert.Contains(t, out, "C3")
		assert.Contains(t, out, "C4")
		assert.NotContains(t, out, "P2")
	})

	t.Run("json lines output", func(t *testing.T) {
		flags := seed(t)

		out, err := runPlanit(t, flags, "ls", "--json")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)

		var first struct {
			Ref      string `json:"ref"`
			Kind     string `json:"kind"`
			Children int    `json:"children"`
		}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, "S1", first.Ref)
		assert.Equal(t, "star", first.Kind)
		assert.Equal(t, 2, first.Children)
	})

	t.Run("status sort orders done last", func(t *testing.T) {
		flags := seed(t)
		flags.Config.List.Sort = config.SortStatus

		_, err := runPlanit(t, flags, "set", "S1", "--status", "done")
		require.NoError(t, err)

		out, err := runPlanit(t, flags, "ls")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		// C4 (open) sorts before the done S1 subtree.
		assert.Contains(t, lines[1], "C4")
	})
}

func TestSetCmd(t *testing.T) {
	t.Run("status change records history", func(t *testing.T) {
		flags := newTestFlags(t)
		_, err := runPlanit(t, flags, "new", "comet", "bug")
		require.NoError(t, err)

		out, err := runPlanit(t, flags, "set", "C1", "--status", "in_progress", "--comment", "triaged")
		require.NoError(t, err)
		assert.Contains(t, out, "Updated C1")

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)

		b, ok := g.Find(1)
		require.True(t, ok)
		assert.Equal(t, body.StatusInProgress, b.Status)
		require.Len(t, b.History, 1)
		assert.Equal(t, body.StatusOpen, b.History[0].Old)
		assert.Equal(t, "triaged", b.History[0].Comment)
	})

	t.Run("due date only applies to planets", func(t *testing.T) {
		flags := newTestFlags(t)
		_, err := runPlanit(t, flags, "new", "star", "Mission")
		require.NoError(t, err)

		_, err = runPlanit(t, flags, "set", "S1", "--due", "2026-09-15")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only applies to planets")
	})

	t.Run("empty due clears the date", func(t *testing.T) {
		flags := newTestFlags(t)
		_, err := runPlanit(t, flags, "new", "planet", "task", "--due", "2026-09-15")
		require.NoError(t, err)

		_, err = runPlanit(t, flags, "set", "P1", "--due", "")
		require.NoError(t, err)

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)
		b, ok := g.Find(1)
		require.True(t, ok)
		assert.Nil(t, b.DueAt)
	})

	t.Run("nothing to update", func(t *testing.T) {
		flags := newTestFlags(t)
		_, err := runPlanit(t, flags, "new", "comet", "bug")
		require.NoError(t, err)

		_, err = runPlanit(t, flags, "set", "C1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing to update")
	})
}

func TestMvCmd(t *testing.T) {
	seed := func(t *testing.T) *Flags {
		t.Helper()
		flags := newTestFlags(t)
		for _, args := range [][]string{
			{"new", "star", "A"},
			{"new", "star", "B"},
			{"new", "planet", "task", "--parent", "S1"},
		} {
			_, err := runPlanit(t, flags, args...)
			require.NoError(t, err)
		}
		return flags
	}

	t.Run("moves under a new star", func(t *testing.T) {
		flags := seed(t)

		out, err := runPlanit(t, flags, "mv", "P3", "--parent", "S2")
		require.NoError(t, err)
		assert.Contains(t, out, "Moved P3 under S2")

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)

		a, _ := g.Find(1)
		b, _ := g.Find(2)
		assert.Empty(t, a.Children)
		assert.Equal(t, []body.ID{3}, b.Children)
	})

	t.Run("moves to the galaxy root", func(t *testing.T) {
		flags := seed(t)

		out, err := runPlanit(t, flags, "mv", "P3", "--root")
		require.NoError(t, err)
		assert.Contains(t, out, "Moved P3 to the galaxy root")

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)
		assert.Equal(t, []body.ID{1, 2, 3}, g.Root())
	})

	t.Run("requires exactly one destination", func(t *testing.T) {
		flags := seed(t)

		_, err := runPlanit(t, flags, "mv", "P3")
		require.Error(t, err)

		_, err = runPlanit(t, flags, "mv", "P3", "--parent", "S2", "--root")
		require.Error(t, err)
	})

	t.Run("refuses a cycle", func(t *testing.T) {
		flags := newTestFlags(t)
		for _, args := range [][]string{
			{"new", "star", "Outer"},
			{"new", "star", "Inner", "--parent", "S1"},
		} {
			_, err := runPlanit(t, flags, args...)
			require.NoError(t, err)
		}

		_, err := runPlanit(t, flags, "mv", "S1", "--parent", "S2")
		require.Error(t, err)

		// Nothing moved.
		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)
		assert.Equal(t, []body.ID{1}, g.Root())
	})
}

func TestRmCmd(t *testing.T) {
	seed := func(t *testing.T) *Flags {
		t.Helper()
		flags := newTestFlags(t)
		for _, args := range [][]string{
			{"new", "star", "Mission"},
			{"new", "planet", "Launch", "--parent", "S1"},
			{"new", "comet", "bug", "--parent", "S1"},
		} {
			_, err := runPlanit(t, flags, args...)
			require.NoError(t, err)
		}
		return flags
	}

	t.Run("refuses a star with children", func(t *testing.T) {
		flags := seed(t)

		_, err := runPlanit(t, flags, "rm", "S1")
		require.Error(t, err)
	})

	t.Run("cascade removes the subtree", func(t *testing.T) {
		flags := seed(t)

		out, err := runPlanit(t, flags, "rm", "S1", "--cascade")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed 3")

		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)
		assert.Equal(t, 0, g.Len())

		// Retired ids are never reissued.
		_, err = runPlanit(t, flags, "new", "comet", "fresh")
		require.NoError(t, err)

		g, err = jsonfile.Load(flags.StorePath)
		require.NoError(t, err)
		b, ok := g.Find(4)
		require.True(t, ok)
		assert.Equal(t, "fresh", b.Title)
	})

	t.Run("leaf removal", func(t *testing.T) {
		flags := seed(t)

		out, err := runPlanit(t, flags, "rm", "C3")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed 1")
	})
}

func TestShowCmd(t *testing.T) {
	flags := newTestFlags(t)
	for _, args := range [][]string{
		{"new", "star", "Mission", "--description", "the big one"},
		{"new", "planet", "Launch", "--parent", "S1", "--priority", "high"},
	} {
		_, err := runPlanit(t, flags, args...)
		require.NoError(t, err)
	}
	_, err := runPlanit(t, flags, "set", "P2", "--status", "in_progress", "--comment", "kicked off")
	require.NoError(t, err)

	t.Run("star with children", func(t *testing.T) {
		out, err := runPlanit(t, flags, "show", "S1")
		require.NoError(t, err)
		assert.Contains(t, out, "Mission")
		assert.Contains(t, out, "the big one")
		assert.Contains(t, out, "P2")
	})

	t.Run("planet with history", func(t *testing.T) {
		out, err := runPlanit(t, flags, "show", "P2")
		require.NoError(t, err)
		assert.Contains(t, out, "high")
		assert.Contains(t, out, "in_progress")
		assert.Contains(t, out, "kicked off")
	})

	t.Run("unknown ref", func(t *testing.T) {
		_, err := runPlanit(t, flags, "show", "C99")
		require.Error(t, err)
	})

	t.Run("json output is the body alone", func(t *testing.T) {
		out, err := runPlanit(t, flags, "show", "P2", "--json")
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "Launch", decoded["title"])
	})

	t.Run("planet tags and fields", func(t *testing.T) {
		g, err := jsonfile.Load(flags.StorePath)
		require.NoError(t, err)

		b, ok := g.Find(2)
		require.True(t, ok)
		b.Tags = []string{"crew", "fuel"}
		b.Fields = map[string]string{"owner": "sam"}
		require.NoError(t, jsonfile.Save(g, flags.StorePath))

		out, err := runPlanit(t, flags, "show", "P2")
		require.NoError(t, err)
		assert.Contains(t, out, "tags:     crew, fuel")
		assert.Contains(t, out, "owner: sam")
	})
}

func TestGalaxiesCmd(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	flags := &Flags{Config: &cfg}

	for _, name := range []string{"alpha", "beta"} {
		_, err := runPlanit(t, flags, "init", "--dir", filepath.Join(root, name), "--title", name)
		require.NoError(t, err)
	}

	out, err := runPlanit(t, flags, "galaxies", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "TITLE")
}

func TestConfigValidateCmd(t *testing.T) {
	cfg := config.DefaultConfig()
	flags := &Flags{Config: &cfg}

	out, err := runPlanit(t, flags, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in      string
		want    body.ID
		wantErr bool
	}{
		{in: "12", want: 12},
		{in: "S7", want: 7},
		{in: "P2", want: 2},
		{in: "c3", want: 3},
		{in: " 4 ", want: 4},
		{in: "0", wantErr: true},
		{in: "S0", wantErr: true},
		{in: "", wantErr: true},
		{in: "S", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRef(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDue(t *testing.T) {
	d, err := parseDue("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local), d)

	d, err = parseDue("2026-09-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = parseDue("next tuesday")
	require.Error(t, err)
}
