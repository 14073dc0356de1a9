// Package tag implements the inline provenance tag format: parsing tag
// comments out of source files, attributing line ranges to them, and
// stamping new tags into files.
//
// The wire format is a single comment line:
//
//	# ai:claude:high | trace:SPEC-89 | test:TC-210,TC-211 | reviewed:2025-11-16:alice
package tag

import (
	"errors"
	"fmt"
)

// Tool identifies the AI tool that produced a piece of code.
type Tool string

const (
	ToolClaude  Tool = "claude"
	ToolCopilot Tool = "copilot"
	ToolChatGPT Tool = "chatgpt"
	ToolGemini  Tool = "gemini"
	ToolCursor  Tool = "cursor"
	ToolOther   Tool = "other"
)

// Tools lists every recognized tool value.
var Tools = []Tool{ToolClaude, ToolCopilot, ToolChatGPT, ToolGemini, ToolCursor, ToolOther}

// Confidence is the declared trust level of AI-authored code.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high" // copy-pasted with minor edits
	ConfidenceMedium Confidence = "med"  // significant modifications
	ConfidenceLow    Confidence = "low"  // AI-assisted but mostly human-written
)

// Confidences lists every recognized confidence level.
var Confidences = []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}

var (
	// ErrInvalidTool is returned by Stamp when the caller supplies a tool
	// outside the recognized set. Decoding never returns it; unknown tools
	// found in files degrade to ToolOther instead.
	ErrInvalidTool = errors.New("invalid AI tool")

	// ErrInvalidConfidence is returned by Stamp when the caller supplies a
	// confidence outside high/med/low.
	ErrInvalidConfidence = errors.New("invalid confidence level")
)

// ParseTool maps a string to a Tool. It is total: anything unrecognized maps
// to ToolOther, so a tag is never rejected for an unknown tool name.
func ParseTool(s string) Tool {
	for _, t := range Tools {
		if string(t) == s {
			return t
		}
	}
	return ToolOther
}

// ParseToolStrict maps a string to a Tool, failing on unknown values. Used
// for user-supplied input, where a typo should surface rather than silently
// become "other".
func ParseToolStrict(s string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %v)", ErrInvalidTool, s, Tools)
}

// ParseConfidence maps a string to a Confidence. The second result is false
// for unrecognized values; decode callers drop the field in that case.
func ParseConfidence(s string) (Confidence, bool) {
	for _, c := range Confidences {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// ParseConfidenceStrict maps a string to a Confidence, failing on unknown
// values.
func ParseConfidenceStrict(s string) (Confidence, error) {
	if c, ok := ParseConfidence(s); ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q (expected one of %v)", ErrInvalidConfidence, s, Confidences)
}

// Record is the decoded form of one inline provenance tag.
type Record struct {
	Tool       Tool       `json:"tool"`
	Confidence Confidence `json:"confidence,omitempty"`
	Trace      []string   `json:"trace,omitempty"`
	Tests      []string   `json:"tests,omitempty"`
	Reviewed   string     `json:"reviewed,omitempty"` // "YYYY-MM-DD:name", kept opaque
}

// Located is a tag together with the 1-based line it was found on.
type Located struct {
	Line   int    `json:"line"`
	Record Record `json:"record"`
}

// Hunk is the line range a tag governs: from the tag line to the line before
// the next tag, or the end of the file. The governing record is embedded, so
// its fields read directly off the hunk.
type Hunk struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Record
}

// Lines returns the number of lines the hunk spans, tag line included.
func (h Hunk) Lines() int {
	return h.End - h.Start + 1
}
