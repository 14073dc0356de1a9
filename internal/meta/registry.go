package meta

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// LanguageSpec defines the tree-sitter grammar and query for a language.
type LanguageSpec struct {
	Language *sitter.Language
	// Query is a tree-sitter S-expression query that captures top-level
	// definitions. It must use @block for the outer node and @name for the
	// identifier (optional).
	Query      string
	Extensions []string
}

// Registry maps file extensions to language specs.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*LanguageSpec // extension (without dot) → spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*LanguageSpec)}
}

// Register adds a language spec.
func (r *Registry) Register(spec *LanguageSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range spec.Extensions {
		r.specs[ext] = spec
	}
}

// Lookup returns the spec for an extension (without dot), or nil.
func (r *Registry) Lookup(ext string) *LanguageSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.specs[ext]
}

// Extensions returns the set of all registered file extensions (without dot).
func (r *Registry) Extensions() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make(map[string]bool, len(r.specs))
	for ext := range r.specs {
		exts[ext] = true
	}
	return exts
}
