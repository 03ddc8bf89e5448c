package lexer

import (
	"strings"

	"github.com/ecmago/ecmago/pkg/token"
)

// readRegex scans a regex literal body up to an unescaped `/` not inside a
// character class, followed by flag letters from "gimsuy". Called only when
// regexAllowed() has already determined `/` begins a regex, not a divide.
func (l *Lexer) readRegex(start token.Position, newline bool) token.Token {
	var sb strings.Builder
	sb.WriteRune(l.ch) // opening /
	l.advance()
	inClass := false
	for {
		if l.ch == -1 || isLineTerminator(l.ch) {
			l.error("unterminated regex literal", start)
			break
		}
		if l.ch == '\\' {
			sb.WriteRune(l.ch)
			l.advance()
			if l.ch != -1 {
				sb.WriteRune(l.ch)
				l.advance()
			}
			continue
		}
		if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		} else if l.ch == '/' && !inClass {
			sb.WriteRune(l.ch)
			l.advance()
			break
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
	for isRegexFlag(l.ch) {
		sb.WriteRune(l.ch)
		l.advance()
	}
	return l.emit(token.Regex, sb.String(), start, newline)
}

func isRegexFlag(r rune) bool {
	switch r {
	case 'g', 'i', 'm', 's', 'u', 'y':
		return true
	}
	return false
}
