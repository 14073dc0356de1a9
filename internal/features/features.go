// Package features tracks which provenance capabilities are enabled for a
// repository. Features form a small dependency graph: enabling one pulls in
// everything it needs, disabling one turns off everything built on top of it.
package features

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"aiprov/internal/config"
)

// Feature identifies a single capability.
type Feature string

const (
	FeatureCoreTracking     Feature = "core_tracking"
	FeatureGitNotes         Feature = "git_notes"
	FeatureInlineMetadata   Feature = "inline_metadata"
	FeatureRequirements     Feature = "requirements"
	FeatureTestTraceability Feature = "test_traceability"
	FeaturePrompts          Feature = "prompts"
	FeatureConversations    Feature = "conversations"
	FeatureAutoDetection    Feature = "auto_detection"
	FeatureFileMetadata     Feature = "file_metadata"
	FeatureCIValidation     Feature = "ci_validation"
	FeatureAuditTrail       Feature = "audit_trail"
	FeatureMetrics          Feature = "metrics"
	FeatureWebDashboard     Feature = "web_dashboard"
	FeatureIDEIntegration   Feature = "ide_integration"
	FeatureTeamFeatures     Feature = "team_features"
	FeatureRegeneration     Feature = "regeneration"
	FeatureAPIServer        Feature = "api_server"
)

// Status describes how mature a feature is.
type Status string

const (
	StatusStable Status = "stable"
	StatusBeta   Status = "beta"
	StatusAlpha  Status = "alpha"
)

// Info is the static definition of a feature.
type Info struct {
	Description  string
	Status       Status
	Dependencies []Feature
}

// registry holds every known feature. core_tracking is the root almost
// everything depends on.
var registry = map[Feature]Info{
	FeatureCoreTracking: {
		Description: "Core metadata tracking",
		Status:      StatusStable,
	},
	FeatureGitNotes: {
		Description:  "Git notes integration for immutable metadata",
		Status:       StatusStable,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureInlineMetadata: {
		Description:  "Inline comment-based metadata",
		Status:       StatusStable,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureRequirements: {
		Description:  "Requirements management and traceability",
		Status:       StatusBeta,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureTestTraceability: {
		Description:  "Test case tracking and coverage",
		Status:       StatusBeta,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeaturePrompts: {
		Description:  "Store prompts used to generate code",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureConversations: {
		Description:  "Log full AI conversations",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeaturePrompts},
	},
	FeatureAutoDetection: {
		Description:  "Automatically detect AI-generated code",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureFileMetadata: {
		Description:  "Generate .meta.json files",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureCIValidation: {
		Description:  "CI validation and gates",
		Status:       StatusStable,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureAuditTrail: {
		Description:  "Enhanced audit and compliance reporting",
		Status:       StatusBeta,
		Dependencies: []Feature{FeatureCoreTracking, FeatureGitNotes},
	},
	FeatureMetrics: {
		Description:  "Repository AI metrics and analytics",
		Status:       StatusStable,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	// The rest are placeholders for planned surfaces. They can be toggled
	// and persisted, but nothing reads them yet.
	FeatureWebDashboard: {
		Description:  "Web-based dashboard for visualization",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeatureCoreTracking, FeatureMetrics},
	},
	FeatureIDEIntegration: {
		Description:  "IDE extensions and integrations",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureTeamFeatures: {
		Description:  "Multi-user collaboration features",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeatureCoreTracking},
	},
	FeatureRegeneration: {
		Description:  "Project regeneration from metadata",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeaturePrompts, FeatureConversations, FeatureRequirements},
	},
	FeatureAPIServer: {
		Description:  "REST API server for integrations",
		Status:       StatusAlpha,
		Dependencies: []Feature{FeatureCoreTracking},
	},
}

// All lists every known feature in a stable order.
var All = []Feature{
	FeatureCoreTracking,
	FeatureGitNotes,
	FeatureInlineMetadata,
	FeatureRequirements,
	FeatureTestTraceability,
	FeaturePrompts,
	FeatureConversations,
	FeatureAutoDetection,
	FeatureFileMetadata,
	FeatureCIValidation,
	FeatureAuditTrail,
	FeatureMetrics,
	FeatureWebDashboard,
	FeatureIDEIntegration,
	FeatureTeamFeatures,
	FeatureRegeneration,
	FeatureAPIServer,
}

// Profiles are named presets of enabled features.
var Profiles = map[string][]Feature{
	"minimal": {
		FeatureCoreTracking, FeatureGitNotes, FeatureInlineMetadata,
	},
	"standard": {
		FeatureCoreTracking, FeatureGitNotes, FeatureInlineMetadata,
		FeatureRequirements, FeatureTestTraceability, FeatureCIValidation,
		FeatureMetrics,
	},
	"full": {
		FeatureCoreTracking, FeatureGitNotes, FeatureInlineMetadata,
		FeatureRequirements, FeatureTestTraceability, FeaturePrompts,
		FeatureConversations, FeatureAutoDetection, FeatureCIValidation,
		FeatureMetrics, FeatureAuditTrail,
	},
	"research": {
		FeatureCoreTracking, FeatureGitNotes, FeatureInlineMetadata,
		FeaturePrompts, FeatureConversations, FeatureMetrics,
		FeatureAutoDetection,
	},
}

// ProfileNames lists the profiles in a stable order.
func ProfileNames() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the static definition of a feature.
func Lookup(f Feature) (Info, bool) {
	info, ok := registry[f]
	return info, ok
}

// Valid reports whether f is a known feature.
func Valid(f Feature) bool {
	_, ok := registry[f]
	return ok
}

// Set holds the enabled features of a repository.
type Set struct {
	Profile string           `json:"profile,omitempty"`
	Enabled map[Feature]bool `json:"enabled"`
}

// NewSet returns an empty feature set.
func NewSet() *Set {
	return &Set{Enabled: make(map[Feature]bool)}
}

// FromProfile returns a set with the named profile enabled, including every
// transitive dependency.
func FromProfile(name string) (*Set, error) {
	fs, ok := Profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (expected one of %v)", name, ProfileNames())
	}
	s := NewSet()
	s.Profile = name
	for _, f := range fs {
		if err := s.Enable(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// IsEnabled reports whether a feature is on.
func (s *Set) IsEnabled(f Feature) bool {
	return s.Enabled[f]
}

// Enable turns a feature on along with its transitive dependencies.
func (s *Set) Enable(f Feature) error {
	if !Valid(f) {
		return fmt.Errorf("unknown feature %q", f)
	}
	if s.Enabled[f] {
		return nil
	}
	for _, dep := range registry[f].Dependencies {
		if err := s.Enable(dep); err != nil {
			return err
		}
	}
	s.Enabled[f] = true
	return nil
}

// Disable turns a feature off along with every enabled feature that depends
// on it, directly or transitively. It returns the features it turned off.
func (s *Set) Disable(f Feature) ([]Feature, error) {
	if !Valid(f) {
		return nil, fmt.Errorf("unknown feature %q", f)
	}
	if !s.Enabled[f] {
		return nil, nil
	}
	var off []Feature
	// Dependents first, so the returned order is safe to replay.
	for _, other := range All {
		if other == f || !s.Enabled[other] {
			continue
		}
		if dependsOn(other, f) {
			turned, err := s.Disable(other)
			if err != nil {
				return nil, err
			}
			off = append(off, turned...)
		}
	}
	delete(s.Enabled, f)
	off = append(off, f)
	return off, nil
}

// List returns the enabled features in All order.
func (s *Set) List() []Feature {
	var out []Feature
	for _, f := range All {
		if s.Enabled[f] {
			out = append(out, f)
		}
	}
	return out
}

func dependsOn(f, target Feature) bool {
	for _, dep := range registry[f].Dependencies {
		if dep == target || dependsOn(dep, target) {
			return true
		}
	}
	return false
}

// --- persistence ---

const fileName = "features.json"

// Path returns the feature file path under the given repository root.
func Path(root string) string {
	return filepath.Join(root, config.Dir, fileName)
}

// Load reads the feature set from disk. A missing file yields the standard
// profile so a repo works without explicit setup.
func Load(root string) (*Set, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return FromProfile("standard")
		}
		return nil, fmt.Errorf("read features: %w", err)
	}
	s := NewSet()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse features: %w", err)
	}
	if s.Enabled == nil {
		s.Enabled = make(map[Feature]bool)
	}
	return s, nil
}

// Save writes the feature set under root, creating the config dir if needed.
func Save(root string, s *Set) error {
	if err := os.MkdirAll(filepath.Join(root, config.Dir), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	if err := os.WriteFile(Path(root), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write features: %w", err)
	}
	return nil
}
