package lexer

import (
	"strings"

	"github.com/ecmago/ecmago/pkg/token"
)

// templateBraceDepth is a counter for nested `{` inside an embedded
// `${...}`; nothing in the lexer or parser uses it. The parser calls
// ResumeTemplate after parsing each embedded expression.
type templateBraceDepth struct{ depth int }

// readTemplateHead scans from an opening backtick either to a closing
// backtick (a complete no-substitution template, emitted as TemplateString)
// or to the first `${` (emitted as TemplateHead). \r and \r\n in the raw
// source are normalised to \n per spec.md §4.1.
func (l *Lexer) readTemplateHead(start token.Position, newline bool) token.Token {
	l.advance() // consume opening `
	return l.scanTemplateSpan(start, newline, token.TemplateString, token.TemplateHead)
}

// ResumeTemplate is called by the parser immediately after it has consumed
// the matching `}` for an embedded expression, to continue scanning the next
// quasi segment of the same template literal.
func (l *Lexer) ResumeTemplate() token.Token {
	start := l.pos0()
	return l.scanTemplateSpan(start, false, token.TemplateTail, token.TemplateMiddle)
}

func (l *Lexer) scanTemplateSpan(start token.Position, newline bool, endKind, midKind token.Type) token.Token {
	var raw strings.Builder
	var cooked strings.Builder
	for {
		if l.ch == -1 {
			l.error("unterminated template literal", start)
			break
		}
		if l.ch == '`' {
			l.advance()
			tok := l.emit(endKind, raw.String(), start, newline)
			tok.Cooked = cooked.String()
			tok.Raw = raw.String()
			return tok
		}
		if l.ch == '$' && l.peekRune() == '{' {
			l.advance()
			l.advance()
			tok := l.emit(midKind, raw.String(), start, newline)
			tok.Cooked = cooked.String()
			tok.Raw = raw.String()
			return tok
		}
		if l.ch == '\\' {
			raw.WriteRune(l.ch)
			l.advance()
			l.readEscapeInto(&raw, &cooked)
			continue
		}
		if l.ch == '\r' {
			raw.WriteByte('\n')
			cooked.WriteByte('\n')
			l.advance()
			if l.ch == '\n' {
				l.advance()
			}
			continue
		}
		raw.WriteRune(l.ch)
		cooked.WriteRune(l.ch)
		l.advance()
	}
	tok := l.emit(endKind, raw.String(), start, newline)
	tok.Cooked = cooked.String()
	tok.Raw = raw.String()
	return tok
}
