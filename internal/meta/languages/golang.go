package languages

import (
	"aiprov/internal/meta"

	"github.com/smacker/go-tree-sitter/golang"
)

func RegisterGo(r *meta.Registry) {
	r.Register(&meta.LanguageSpec{
		Language: golang.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @block
			(method_declaration name: (field_identifier) @name) @block
			(type_declaration (type_spec name: (type_identifier) @name)) @block
		`,
		Extensions: []string{"go"},
	})
}
