package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/jlong/planit/internal/core/body"
	"github.com/jlong/planit/internal/core/styles"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, themeExists),
		criterio.Run("list.sort", c.List.Sort, sortOrderKnown),
		criterio.Run("new.priority", c.New.Priority, priorityKnown),
		c.validateSeverity(),
	)
}

func (c *Config) validateSeverity() error {
	if err := severityInRange(c.New.Severity); err != nil {
		return criterio.NewFieldErrors("new.severity", err)
	}
	return nil
}

// ValidateDeep runs Validate plus I/O checks against the config file and
// data directory. Used by the `config validate` command; empty paths
// skip the corresponding check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func themeExists(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func sortOrderKnown(sort string) error {
	switch sort {
	case "", SortPosition, SortStatus, SortUpdated:
		return nil
	}
	return fmt.Errorf("unknown sort order %q", sort)
}

func priorityKnown(p string) error {
	if p == "" {
		return nil
	}
	if _, err := body.ParsePriority(p); err != nil {
		return err
	}
	return nil
}

func severityInRange(s int) error {
	if s == 0 {
		return nil
	}
	if s < body.MinSeverity || s > body.MaxSeverity {
		return fmt.Errorf("severity %d out of range [%d, %d]", s, body.MinSeverity, body.MaxSeverity)
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
