// Package requirements reads requirement definitions for traceability.
// Requirements themselves are managed by an external tool; this package is
// a read-only view over its exports: a requirements.yaml list, a
// UUID-to-SPEC-ID mapping file, and per-requirement Markdown files with
// YAML front-matter.
package requirements

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Standard file names at the repository root.
const (
	YAMLFile    = "requirements.yaml"
	MappingFile = ".requirements-mapping.yaml"
)

// Requirement is one requirement entry.
type Requirement struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Type        string   `yaml:"type" json:"type"`
	Status      string   `yaml:"status" json:"status"`
	Priority    string   `yaml:"priority" json:"priority"`
	Parent      string   `yaml:"parent" json:"parent,omitempty"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Tests       []string `yaml:"tests" json:"tests,omitempty"`
	Related     []string `yaml:"related" json:"related,omitempty"`
	AIGenerated bool     `yaml:"ai_generated" json:"ai_generated"`
	AITool      string   `yaml:"ai_tool" json:"ai_tool,omitempty"`
}

type yamlDoc struct {
	Requirements []Requirement `yaml:"requirements"`
}

// Load reads the requirements list from a requirements.yaml file. A missing
// file yields an empty list.
func Load(path string) ([]Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read requirements: %w", err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Requirements, nil
}

// LoadDir reads requirements from a repository root, trying requirements.yaml
// first and falling back to Markdown files under .ai-prov/requirements/.
func LoadDir(root string) ([]Requirement, error) {
	reqs, err := Load(filepath.Join(root, YAMLFile))
	if err != nil {
		return nil, err
	}
	if reqs != nil {
		return reqs, nil
	}

	dir := filepath.Join(root, ".ai-prov", "requirements")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read requirements dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		req, err := LoadMarkdown(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID < reqs[j].ID })
	return reqs, nil
}

type mappingDoc struct {
	Mappings map[string]string `yaml:"mappings"`
}

// LoadMapping reads the UUID-to-SPEC-ID mapping file. A missing file yields
// an empty map.
func LoadMapping(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	var doc mappingDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Mappings == nil {
		doc.Mappings = map[string]string{}
	}
	return doc.Mappings, nil
}

// ByUUID returns the requirement with the given UUID, or false.
func ByUUID(reqs []Requirement, uuid string) (Requirement, bool) {
	for _, r := range reqs {
		if r.ID == uuid {
			return r, true
		}
	}
	return Requirement{}, false
}

// BySpecID resolves a SPEC-ID through the mapping and returns the matching
// requirement, or false when either the mapping or the requirement is absent.
func BySpecID(reqs []Requirement, mapping map[string]string, specID string) (Requirement, bool) {
	for uuid, sid := range mapping {
		if sid == specID {
			return ByUUID(reqs, uuid)
		}
	}
	// Some exports key requirements by SPEC-ID directly.
	return ByUUID(reqs, specID)
}

// SpecIDFor returns the SPEC-ID mapped to a UUID, or the UUID itself when no
// mapping exists.
func SpecIDFor(mapping map[string]string, uuid string) string {
	if sid, ok := mapping[uuid]; ok {
		return sid
	}
	return uuid
}

// --- Markdown with YAML front-matter ---

var (
	titleRe = regexp.MustCompile(`(?m)^# .+?: (.+)$`)
	descRe  = regexp.MustCompile(`(?s)## 1\. Requirement Statement\s*\n(.+?)(?:\n##|\z)`)
	testRe  = regexp.MustCompile(`\| (TC-\d+)`)
	depsRe  = regexp.MustCompile(`(?s)## 5\. Dependencies\s*\n(.+?)(?:\n##|\z)`)
	specRe  = regexp.MustCompile(`SPEC-\d+`)
)

// SplitFrontMatter separates YAML front-matter delimited by "---" lines from
// the Markdown body. Content without front-matter returns an empty metadata
// block and the content unchanged.
func SplitFrontMatter(content string) (meta string, body string) {
	if !strings.HasPrefix(content, "---") {
		return "", content
	}
	rest := content[3:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", content
	}
	meta = strings.TrimPrefix(rest[:idx], "\n")
	body = rest[idx+4:]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return meta, body
}

// LoadMarkdown parses a requirement Markdown file. Front-matter supplies the
// structured fields; the body supplies the title, statement, fit-criterion
// test IDs, and dependencies.
func LoadMarkdown(path string) (Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Requirement{}, fmt.Errorf("read requirement: %w", err)
	}
	metaText, body := SplitFrontMatter(string(data))

	req := Requirement{
		ID:       strings.TrimSuffix(filepath.Base(path), ".md"),
		Type:     "feature",
		Status:   "planned",
		Priority: "medium",
	}
	if metaText != "" {
		if err := yaml.Unmarshal([]byte(metaText), &req); err != nil {
			return Requirement{}, fmt.Errorf("parse front-matter in %s: %w", path, err)
		}
	}

	if m := titleRe.FindStringSubmatch(body); m != nil {
		req.Title = m[1]
	}
	if m := descRe.FindStringSubmatch(body); m != nil {
		req.Description = strings.TrimSpace(m[1])
	}
	for _, m := range testRe.FindAllStringSubmatch(body, -1) {
		req.Tests = append(req.Tests, m[1])
	}
	if m := depsRe.FindStringSubmatch(body); m != nil {
		req.Related = specRe.FindAllString(m[1], -1)
	}
	req.Status = strings.ReplaceAll(strings.ToLower(req.Status), " ", "-")
	req.Priority = strings.ToLower(req.Priority)
	return req, nil
}
