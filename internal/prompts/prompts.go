// Package prompts stores the AI prompts that produced code, as JSON files
// under .ai-prov/prompts/. Each prompt gets a UUID and can be linked to
// files, requirements, tests, and the commit it landed in.
package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"aiprov/internal/config"
	"aiprov/internal/tag"
)

// Type classifies what a prompt asked for.
type Type string

const (
	TypeGenerate Type = "generate"
	TypeRefactor Type = "refactor"
	TypeFix      Type = "fix"
	TypeExplain  Type = "explain"
	TypeTest     Type = "test"
	TypeOther    Type = "other"
)

// Types lists every recognized prompt type.
var Types = []Type{TypeGenerate, TypeRefactor, TypeFix, TypeExplain, TypeTest, TypeOther}

// ParseType maps a string to a Type, defaulting to TypeOther.
func ParseType(s string) Type {
	for _, t := range Types {
		if string(t) == strings.ToLower(strings.TrimSpace(s)) {
			return t
		}
	}
	return TypeOther
}

// Prompt is one recorded AI interaction.
type Prompt struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Text         string         `json:"text"`
	Type         Type           `json:"type"`
	Tool         tag.Tool       `json:"tool"`
	Confidence   tag.Confidence `json:"confidence,omitempty"`
	Files        []string       `json:"files,omitempty"`
	Requirements []string       `json:"requirements,omitempty"`
	Tests        []string       `json:"tests,omitempty"`
	CommitSHA    string         `json:"commit_sha,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
}

// Store persists prompts under a repository root.
type Store struct {
	dir string
}

// NewStore returns a store rooted at <root>/.ai-prov/prompts.
func NewStore(root string) *Store {
	return &Store{dir: filepath.Join(root, config.Dir, "prompts")}
}

// Save writes a prompt, assigning an ID and timestamp when absent.
// It returns the stored prompt.
func (s *Store) Save(p Prompt) (Prompt, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	if p.Type == "" {
		p.Type = TypeOther
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Prompt{}, fmt.Errorf("create prompts dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return Prompt{}, fmt.Errorf("marshal prompt: %w", err)
	}
	if err := os.WriteFile(s.path(p.ID), append(data, '\n'), 0o644); err != nil {
		return Prompt{}, fmt.Errorf("write prompt: %w", err)
	}
	return p, nil
}

// Get loads a prompt by ID.
func (s *Store) Get(id string) (Prompt, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Prompt{}, fmt.Errorf("prompt %s not found", id)
		}
		return Prompt{}, fmt.Errorf("read prompt: %w", err)
	}
	var p Prompt
	if err := json.Unmarshal(data, &p); err != nil {
		return Prompt{}, fmt.Errorf("parse prompt %s: %w", id, err)
	}
	return p, nil
}

// List returns every stored prompt, newest first.
func (s *Store) List() ([]Prompt, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	var out []Prompt
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p, err := s.Get(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// ListForFile returns prompts linked to the given file path, newest first.
func (s *Store) ListForFile(path string) ([]Prompt, error) {
	return s.filter(func(p Prompt) bool {
		for _, f := range p.Files {
			if f == path {
				return true
			}
		}
		return false
	})
}

// ListForRequirement returns prompts linked to the given requirement ID,
// newest first.
func (s *Store) ListForRequirement(reqID string) ([]Prompt, error) {
	return s.filter(func(p Prompt) bool {
		for _, r := range p.Requirements {
			if r == reqID {
				return true
			}
		}
		return false
	})
}

func (s *Store) filter(keep func(Prompt) bool) ([]Prompt, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []Prompt
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
