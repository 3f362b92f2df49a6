// Package symbolset rewrites character-class text so it can be embedded in
// an ANML symbol-set attribute.
//
// NFA compilers print character classes using regex-flavoured escapes such as
// "\[" and "\]", and freely use characters that are significant in markup
// (&, <, >, quotes). ANML consumers expect those to appear as hexadecimal
// escapes instead. [Sanitize] performs that rewrite; it is pure, never fails,
// and is idempotent, so already-sanitized values pass through untouched.
//
// The rewrite rules, applied in order:
//
//	]]  (not preceded by \)  ->  ]\]
//	\[                       ->  \x5B
//	\]                       ->  \x5D
//	&                        ->  \x26
//	<                        ->  \x3C
//	>                        ->  \x3E
//	"                        ->  \x22
//	'                        ->  \x27
//
// A value consisting of a single backslash becomes \x5C.
package symbolset

import "strings"

// escapes holds the literal replacements applied after the bracket-run rule.
// Order matters: the bracket escapes must run before anything that emits a
// backslash.
var escapes = []struct{ from, to string }{
	{`\[`, `\x5B`},
	{`\]`, `\x5D`},
	{`&`, `\x26`},
	{`<`, `\x3C`},
	{`>`, `\x3E`},
	{`"`, `\x22`},
	{`'`, `\x27`},
}

// Sanitize returns raw rewritten into a markup-safe symbol set.
func Sanitize(raw string) string {
	if raw == `\` {
		return `\x5C`
	}

	s := splitBracketRuns(raw)
	for _, e := range escapes {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	return s
}

// NeedsEscape reports whether Sanitize would change raw.
func NeedsEscape(raw string) bool {
	return Sanitize(raw) != raw
}

// splitBracketRuns rewrites every "]]" that is not preceded by a backslash
// into "]\]". Matches are non-overlapping, scanned left to right, and the
// preceding-character test looks at the input, not at earlier rewrites.
func splitBracketRuns(s string) string {
	if !strings.Contains(s, "]]") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + strings.Count(s, "]]"))
	for i := 0; i < len(s); {
		if s[i] == ']' && i+1 < len(s) && s[i+1] == ']' && (i == 0 || s[i-1] != '\\') {
			b.WriteString(`]\]`)
			i += 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
