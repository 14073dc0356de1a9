// Package comment maps file extensions to the comment syntax used when
// reading and writing inline provenance tags.
package comment

import "strings"

// Style describes how a line comment is written in a language. Suffix is
// empty for single-line comment languages and set for block-comment pairs.
type Style struct {
	Prefix string
	Suffix string
}

// DefaultStyle is used for extensions with no known comment syntax.
var DefaultStyle = Style{Prefix: "#"}

// styles is keyed by lower-cased extension without the leading dot.
var styles = map[string]Style{
	// Hash languages.
	"py":   {Prefix: "#"},
	"rb":   {Prefix: "#"},
	"sh":   {Prefix: "#"},
	"bash": {Prefix: "#"},
	"yaml": {Prefix: "#"},
	"yml":  {Prefix: "#"},
	"toml": {Prefix: "#"},
	"r":    {Prefix: "#"},
	"ex":   {Prefix: "#"},
	"exs":  {Prefix: "#"},

	// C-style languages.
	"js":    {Prefix: "//"},
	"ts":    {Prefix: "//"},
	"jsx":   {Prefix: "//"},
	"tsx":   {Prefix: "//"},
	"java":  {Prefix: "//"},
	"c":     {Prefix: "//"},
	"cpp":   {Prefix: "//"},
	"cc":    {Prefix: "//"},
	"h":     {Prefix: "//"},
	"hpp":   {Prefix: "//"},
	"cs":    {Prefix: "//"},
	"go":    {Prefix: "//"},
	"rs":    {Prefix: "//"},
	"swift": {Prefix: "//"},
	"kt":    {Prefix: "//"},
	"scala": {Prefix: "//"},
	"php":   {Prefix: "//"},

	// Double-dash languages.
	"sql": {Prefix: "--"},
	"lua": {Prefix: "--"},
	"hs":  {Prefix: "--"},

	// OCaml only has block comments.
	"ml": {Prefix: "(*", Suffix: "*)"},
}

// Resolve returns the comment style for a file extension. The extension may
// be given with or without the leading dot, in any case. Unknown extensions
// fall back to DefaultStyle; there is no error condition.
func Resolve(ext string) Style {
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	if s, ok := styles[key]; ok {
		return s
	}
	return DefaultStyle
}

// ResolvePath returns the comment style for a file path.
func ResolvePath(path string) Style {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return DefaultStyle
	}
	return Resolve(path[idx+1:])
}

// Extensions returns the set of all known extensions, without dots. The
// walker uses this as its allow-list when scanning a repository.
func Extensions() map[string]bool {
	exts := make(map[string]bool, len(styles))
	for ext := range styles {
		exts[ext] = true
	}
	return exts
}
