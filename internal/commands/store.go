package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/term"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/core/galaxy"
	"github.com/jlong/planit/internal/store/jsonfile"
)

// openStore resolves the store file and loads the galaxy. With no
// --store flag the file is located by walking up from the working
// directory, so commands work from any project subdirectory.
func openStore(flags *Flags) (string, *galaxy.Galaxy, error) {
	path := flags.StorePath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("resolve working directory: %w", err)
		}
		path, err = jsonfile.Locate(cwd)
		if err != nil {
			return "", nil, err
		}
	}

	g, err := jsonfile.Load(path)
	if err != nil {
		return "", nil, err
	}
	return path, g, nil
}

// parseRef converts a CLI body reference into an id. Both the bare
// counter value ("12") and the display form with a kind initial ("S12")
// are accepted.
func parseRef(ref string) (body.ID, error) {
	s := strings.TrimSpace(ref)
	if s != "" && unicode.IsLetter(rune(s[0])) {
		s = s[1:]
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid body reference %q", ref)
	}
	return body.ID(n), nil
}

// parseParentFlag resolves an optional --parent flag value. An empty
// value means the galaxy root.
func parseParentFlag(ref string) (*body.ID, error) {
	if ref == "" {
		return nil, nil
	}
	id, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// isTerminal reports whether the writer is an interactive terminal, in
// which case output gets styled.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
