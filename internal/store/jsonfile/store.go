// Package jsonfile persists a galaxy as a single versioned JSON file.
//
// The file holds the id counter, the flat body table, and the galaxy
// root order. Saves go through a temp-file-then-rename so a crash
// mid-write never leaves a half-written store; loads re-validate every
// hierarchy invariant so a hand-edited or damaged file is refused with a
// diagnosis instead of producing a broken tree.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/core/galaxy"
)

// DefaultFilename is the store file created by Init and searched for by
// Locate, analogous to a VCS dotfile at the project root.
const DefaultFilename = ".galaxy.json"

const schemaVersion = 1

var (
	// ErrGalaxyExists is returned by Init when a store file is already present.
	ErrGalaxyExists = errors.New("galaxy already exists")
	// ErrGalaxyNotFound is returned when no store file can be located.
	ErrGalaxyNotFound = errors.New("no galaxy found")
)

// CorruptError reports a store file that failed schema or invariant
// validation. The store is never repaired automatically.
type CorruptError struct {
	Path   string
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt galaxy store at %s: %s", e.Path, e.Reason)
}

// galaxyFile is the on-disk record set.
type galaxyFile struct {
	Version     uint64       `json:"version"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	NextID      body.ID      `json:"next_id"`
	Bodies      []*body.Body `json:"bodies"`
	Root        []body.ID    `json:"root"`
}

// Init creates a new empty galaxy store in dir. It refuses to overwrite
// an existing store.
func Init(dir, title, description string) (string, error) {
	path := filepath.Join(dir, DefaultFilename)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrGalaxyExists, path)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat store file: %w", err)
	}

	g := galaxy.New(title, description)
	if err := Save(g, path); err != nil {
		return "", err
	}

	log.Info().Str("path", path).Msg("initialized galaxy")
	return path, nil
}

// Locate walks up from startDir looking for a store file, so commands
// work from any subdirectory of a project. Returns ErrGalaxyNotFound
// when the filesystem root is reached without a hit.
func Locate(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start dir: %w", err)
	}

	for {
		path := filepath.Join(dir, DefaultFilename)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrGalaxyNotFound, startDir)
		}
		dir = parent
	}
}

// Discover returns the store files found anywhere under root, for
// listing every tracked project below a workspace directory.
func Discover(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/"+DefaultFilename)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return paths, nil
}

// Load reads a store file and rebuilds the galaxy, re-validating all
// hierarchy invariants. A missing file is ErrGalaxyNotFound; a file that
// fails schema or invariant checks is a *CorruptError naming the first
// violation.
func Load(path string) (*galaxy.Galaxy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrGalaxyNotFound, path)
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var file galaxyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &CorruptError{Path: path, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if file.Version != schemaVersion {
		return nil, &CorruptError{Path: path, Reason: fmt.Sprintf("unsupported schema version %d (want %d)", file.Version, schemaVersion)}
	}

	g, err := galaxy.Rebuild(file.Title, file.Description, file.CreatedAt, file.NextID, file.Bodies, file.Root)
	if err != nil {
		return nil, &CorruptError{Path: path, Reason: err.Error()}
	}

	log.Debug().Str("path", path).Int("bodies", g.Len()).Msg("loaded galaxy")
	return g, nil
}

// Save writes the full galaxy state. The payload is written to a
// temporary file in the same directory and renamed into place, so a
// crash mid-write leaves the previous store intact.
func Save(g *galaxy.Galaxy, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	file := galaxyFile{
		Version:     schemaVersion,
		Title:       g.Title,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		NextID:      g.Counter(),
		Bodies:      g.Bodies(),
		Root:        g.Root(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode galaxy: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}

	log.Debug().Str("path", path).Int("bodies", g.Len()).Msg("saved galaxy")
	return nil
}
