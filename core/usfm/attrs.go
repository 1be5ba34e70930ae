package usfm

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// attrList is the grammar for a \w token's attribute string, e.g.
// `strong="H1234,G5678" x-lemma="God" x-morph="He,R:Ncmsa"`.
type attrList struct {
	Pairs []*attrPair `@@*`
}

type attrPair struct {
	Key   string `@Ident "="`
	Value string `@String`
}

// attrLexer tokenizes "key=\"value\"" pairs, tolerant of the "x-" prefix
// convention (x-strong=, x-lemma=, x-morph=, ...) USFM alignment data uses.
var attrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var attrParser = participle.MustBuild[attrList](
	participle.Lexer(attrLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// parseAttrs parses a \w attribute string into a key/value map. Parse
// failures yield an empty map rather than an error: malformed alignment
// attributes should not abort tokenization of an otherwise-good verse.
func parseAttrs(raw string) map[string]string {
	out := make(map[string]string)
	parsed, err := attrParser.ParseString("", raw)
	if err != nil {
		return out
	}
	for _, p := range parsed.Pairs {
		out[strings.ToLower(p.Key)] = p.Value
	}
	return out
}

// strongsFromAttrs extracts every value registered under a "strong"
// attribute key (tolerating the "x-strong" alignment-layer prefix),
// splitting on comma, whitespace, or "|".
func strongsFromAttrs(attrs map[string]string) []string {
	var raw string
	for key, value := range attrs {
		if key == "strong" || key == "x-strong" {
			if raw != "" {
				raw += ","
			}
			raw += value
		}
	}
	if raw == "" {
		return nil
	}
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '|' || r == ' ' || r == '\t'
	})
}
