// Package prefs persists dashboard view preferences between runs in a small
// TOML file, by default ~/.config/vdash/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/j-veylop/vault-dashboard-tui/internal/logger"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

const (
	defaultPath     = "~/.config/vdash/prefs.toml"
	defaultTimeline = "minute"
	defaultTab      = "dashboard"
)

// Prefs holds the view state that survives a restart.
type Prefs struct {
	// Timeline is the granularity key of the charts, e.g. "hour".
	Timeline string `toml:"timeline"`
	// Tab is the name of the focused tab.
	Tab string `toml:"tab"`
}

// Default returns the preferences used when no file exists.
func Default() Prefs {
	return Prefs{Timeline: defaultTimeline, Tab: defaultTab}
}

// Granularity returns the stored chart granularity, or Minute when the
// stored key is unknown.
func (p Prefs) Granularity() models.Granularity {
	g, ok := models.ParseGranularity(p.Timeline)
	if !ok {
		return models.GranularityMinute
	}
	return g
}

// WithGranularity returns a copy of p with the chart granularity set.
func (p Prefs) WithGranularity(g models.Granularity) Prefs {
	p.Timeline = g.Key()
	return p
}

// Load reads preferences from path. A missing or malformed file yields the
// defaults; only a path that cannot be resolved is an error.
func Load(path string) (Prefs, error) {
	p := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return p, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read prefs, using defaults", "path", resolved, "error", err)
		}
		return p, nil
	}

	if err := toml.Unmarshal(data, &p); err != nil {
		logger.Warn("Malformed prefs file, using defaults", "path", resolved, "error", err)
		return Default(), nil
	}

	if _, ok := models.ParseGranularity(p.Timeline); !ok {
		p.Timeline = defaultTimeline
	}
	if strings.TrimSpace(p.Tab) == "" {
		p.Tab = defaultTab
	}
	return p, nil
}

// Save writes preferences to path, creating parent directories.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("failed to create prefs directory: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = defaultPath
	}
	if rest, ok := strings.CutPrefix(p, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		p = filepath.Join(home, rest)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve prefs path: %w", err)
	}
	return abs, nil
}
