package lexer

import "strings"

// IsUseStrictDirective reports whether a string literal's cooked value is
// exactly "use strict", used by the parser to detect the directive prologue
// at the start of a program (spec.md §4.1); function bodies are not checked.
func IsUseStrictDirective(cooked string) bool {
	return strings.TrimSpace(cooked) == "use strict"
}
