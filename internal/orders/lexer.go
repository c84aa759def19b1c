package orders

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer maps the raw string tokens out for our AST definitions.
// DiceMacro sits before Ident so a bare "D6" is not swallowed as an
// identifier. Unit and weapon ids may carry hyphens.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:shoot|fight|roll|by|with|at|and)\b`},
	{Name: "DiceMacro", Pattern: `(?i)\b\d*d[36](?:[+-]\d+)?\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][-\w]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Order] {
	return participle.MustBuild[Order](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
	)
}
