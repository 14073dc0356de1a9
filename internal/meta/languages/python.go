package languages

import (
	"aiprov/internal/meta"

	"github.com/smacker/go-tree-sitter/python"
)

func RegisterPython(r *meta.Registry) {
	r.Register(&meta.LanguageSpec{
		Language: python.GetLanguage(),
		Query: `
			(function_definition name: (identifier) @name) @block
			(class_definition name: (identifier) @name) @block
			(decorated_definition definition: (function_definition name: (identifier) @name)) @block
			(decorated_definition definition: (class_definition name: (identifier) @name)) @block
		`,
		Extensions: []string{"py", "pyi"},
	})
}
