package languages

import (
	"aiprov/internal/meta"

	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func RegisterTypeScript(r *meta.Registry) {
	r.Register(&meta.LanguageSpec{
		Language: typescript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @block
			(class_declaration name: (type_identifier) @name) @block
			(method_definition name: (property_identifier) @name) @block
			(export_statement (function_declaration name: (identifier) @name)) @block
			(export_statement (class_declaration name: (type_identifier) @name)) @block
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @block
			(interface_declaration name: (type_identifier) @name) @block
			(type_alias_declaration name: (type_identifier) @name) @block
		`,
		Extensions: []string{"ts", "tsx"},
	})
}
