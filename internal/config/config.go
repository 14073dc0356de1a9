// Package config loads project-level settings from .ai-prov/config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"aiprov/internal/tag"
)

// Dir is the per-repository configuration directory.
const Dir = ".ai-prov"

// FileName is the config file inside Dir.
const FileName = "config.toml"

// Config holds the project-level provenance settings.
type Config struct {
	Tagging TaggingConfig `toml:"tagging"`
	Git     GitConfig     `toml:"git"`
	Scan    ScanConfig    `toml:"scan"`
}

type TaggingConfig struct {
	// DefaultTool is used by stamp and commit when no tool is given.
	DefaultTool string `toml:"default_tool"`
	// DefaultConfidence is used by stamp when no confidence is given.
	DefaultConfidence string `toml:"default_confidence"`
	// Position is where new tags are placed: "top" or "bottom".
	Position string `toml:"position"`
}

type GitConfig struct {
	// NotesRef overrides the git notes namespace.
	NotesRef string `toml:"notes_ref"`
	// Reviewer is the default human reviewer recorded on commits.
	Reviewer string `toml:"reviewer"`
}

type ScanConfig struct {
	// Extensions restricts scanning to these extensions (without dots).
	// Empty means every extension with a known comment style.
	Extensions []string `toml:"extensions"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Tagging: TaggingConfig{
			DefaultTool:       string(tag.ToolClaude),
			DefaultConfidence: string(tag.ConfidenceMedium),
			Position:          "top",
		},
		Git: GitConfig{NotesRef: "ai-provenance"},
	}
}

// Path returns the config file path under the given repository root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Load reads the config file under root, falling back to Default when the
// file does not exist. Missing keys keep their defaults.
func Load(root string) (Config, error) {
	cfg := Default()
	path := Path(root)
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config file under root, creating Dir if needed.
func Save(root string, cfg Config) error {
	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(Path(root))
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func (c Config) validate(path string) error {
	if c.Tagging.DefaultTool != "" {
		if _, err := tag.ParseToolStrict(c.Tagging.DefaultTool); err != nil {
			return fmt.Errorf("%s: tagging.default_tool: %w", path, err)
		}
	}
	if c.Tagging.DefaultConfidence != "" {
		if _, err := tag.ParseConfidenceStrict(c.Tagging.DefaultConfidence); err != nil {
			return fmt.Errorf("%s: tagging.default_confidence: %w", path, err)
		}
	}
	switch c.Tagging.Position {
	case "", "top", "bottom":
	default:
		return fmt.Errorf("%s: tagging.position must be \"top\" or \"bottom\", got %q", path, c.Tagging.Position)
	}
	return nil
}
