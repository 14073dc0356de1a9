package languages

import (
	"aiprov/internal/meta"

	"github.com/smacker/go-tree-sitter/javascript"
)

func RegisterJavaScript(r *meta.Registry) {
	r.Register(&meta.LanguageSpec{
		Language: javascript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @block
			(class_declaration name: (identifier) @name) @block
			(method_definition name: (property_identifier) @name) @block
			(export_statement (function_declaration name: (identifier) @name)) @block
			(export_statement (class_declaration name: (identifier) @name)) @block
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @block
		`,
		Extensions: []string{"js", "jsx", "mjs", "cjs"},
	})
}
