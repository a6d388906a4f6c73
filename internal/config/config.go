// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .biograph/config.json.
type Config struct {
	DefaultDepth  int    `json:"default_depth,omitempty"`  // BFS depth when a command omits --depth
	MaxDepth      int    `json:"max_depth,omitempty"`      // expansion depth ceiling
	MaxNodes      int    `json:"max_nodes,omitempty"`      // expansion node ceiling
	DefaultLayout string `json:"default_layout,omitempty"` // random, circle, or grid
}

const (
	BiographDir   = ".biograph"
	ConfigFile    = "config.json"
	PersonsFile   = "persons.jsonl"
	RelationsFile = "relations.jsonl"
	CodesFile     = "codes.jsonl"
	CacheDir      = "cache"
	DBFile        = "persons.db"
)

// Defaults applied when the config file omits a field.
const (
	DefaultDepth  = 2
	DefaultLayout = "random"
)

// BiographPath returns the path to the .biograph directory from a root path.
func BiographPath(root string) string {
	return filepath.Join(root, BiographDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, BiographDir, ConfigFile)
}

// PersonsPath returns the path to persons.jsonl from a root path.
func PersonsPath(root string) string {
	return filepath.Join(root, BiographDir, PersonsFile)
}

// RelationsPath returns the path to relations.jsonl from a root path.
func RelationsPath(root string) string {
	return filepath.Join(root, BiographDir, RelationsFile)
}

// CodesPath returns the path to codes.jsonl from a root path.
func CodesPath(root string) string {
	return filepath.Join(root, BiographDir, CodesFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, BiographDir, CacheDir)
}

// DBPath returns the path to the SQLite cache from a root path.
func DBPath(root string) string {
	return filepath.Join(root, BiographDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a biograph repository.
func IsRepository(root string) bool {
	info, err := os.Stat(BiographPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a biograph
// repository. Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no biograph repository found from %s upward", start)
		}
		abs = parent
	}
}

// Load reads repository configuration, applying defaults for missing
// fields. A missing config file yields the defaults, not an error.
func Load(root string) (*Config, error) {
	cfg := &Config{
		DefaultDepth:  DefaultDepth,
		DefaultLayout: DefaultLayout,
	}

	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DefaultDepth <= 0 {
		cfg.DefaultDepth = DefaultDepth
	}
	if cfg.DefaultLayout == "" {
		cfg.DefaultLayout = DefaultLayout
	}
	return cfg, nil
}

// Save writes repository configuration.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
