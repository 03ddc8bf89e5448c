// Package lexer turns ECMAScript source text into a token stream.
//
// The lexer is grounded on the teacher's internal/lexer package: a
// hand-written scanner keyed off the current rune plus one token of lookback
// (for regex-vs-divide disambiguation), accumulating errors rather than
// aborting so the parser downstream can keep going and report cascading
// issues.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"

	"github.com/ecmago/ecmago/pkg/token"
)

// Error is a single lexical error with position.
type Error struct {
	Message string
	Pos     token.Position
}

func (e Error) Error() string { return e.Message }

// idContinueExtra covers the combining/digit/connector categories ECMAScript
// allows to continue (but not start) an identifier, built with
// golang.org/x/text's rangetable helpers.
var idContinueExtra = rangetable.Merge(unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)

// Lexer scans a source string into tokens on demand.
type Lexer struct {
	src    string
	pos    int // byte offset of ch
	rdPos  int // byte offset after ch
	ch     rune
	line   int
	col    int // UTF-16 column
	strict bool
	errors []Error

	// prevSignificant is the last non-trivia token kind emitted; used for
	// regex-vs-divide disambiguation.
	prevSignificant token.Type
	havePrev        bool
	sawNewline      bool
}

// New creates a Lexer over src. A leading BOM is consumed.
func New(src string) *Lexer {
	src = strings.TrimPrefix(src, "﻿")
	l := &Lexer{src: src, line: 1, col: 1}
	l.readRune()
	return l
}

// Errors returns accumulated lexical errors.
func (l *Lexer) Errors() []Error { return l.errors }

// lexerSnapshot captures scanning position so the parser can speculatively
// scan ahead (arrow-function lookahead) and rewind on mismatch.
type lexerSnapshot struct {
	pos, rdPos             int
	ch                     rune
	line, col              int
	prevSignificant        token.Type
	havePrev, sawNewline   bool
	errCount               int
}

// Snapshot captures the current scan position. The returned value is opaque
// to callers and must be passed back to Restore.
func (l *Lexer) Snapshot() any {
	return lexerSnapshot{
		pos: l.pos, rdPos: l.rdPos, ch: l.ch, line: l.line, col: l.col,
		prevSignificant: l.prevSignificant, havePrev: l.havePrev, sawNewline: l.sawNewline,
		errCount: len(l.errors),
	}
}

// Restore rewinds the lexer to a previously captured Snapshot, discarding
// any errors recorded since.
func (l *Lexer) Restore(s any) {
	snap := s.(lexerSnapshot)
	l.pos, l.rdPos, l.ch, l.line, l.col = snap.pos, snap.rdPos, snap.ch, snap.line, snap.col
	l.prevSignificant, l.havePrev, l.sawNewline = snap.prevSignificant, snap.havePrev, snap.sawNewline
	if len(l.errors) > snap.errCount {
		l.errors = l.errors[:snap.errCount]
	}
}

// SetStrict forces strict-mode token classification (legacy octals and
// future-reserved words become errors).
func (l *Lexer) SetStrict(strict bool) { l.strict = strict }

func (l *Lexer) error(msg string, pos token.Position) {
	l.errors = append(l.errors, Error{Message: msg, Pos: pos})
}

func (l *Lexer) pos0() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) readRune() {
	if l.rdPos >= len(l.src) {
		l.pos = l.rdPos
		l.ch = -1
		return
	}
	r, w := utf8.DecodeRuneInString(l.src[l.rdPos:])
	l.pos = l.rdPos
	l.rdPos += w
	l.ch = r
}

func (l *Lexer) peekRune() rune {
	if l.rdPos >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.rdPos:])
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	p := l.rdPos
	var r rune = -1
	for i := 0; i <= offset; i++ {
		if p >= len(l.src) {
			return -1
		}
		var w int
		r, w = utf8.DecodeRuneInString(l.src[p:])
		p += w
	}
	return r
}

func (l *Lexer) advance() {
	if isLineTerminator(l.ch) {
		l.line++
		l.col = 1
	} else if l.ch > 0xFFFF {
		l.col += 2 // a surrogate pair in UTF-16
	} else if l.ch >= 0 {
		l.col++
	}
	l.readRune()
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == ' ' || r == ' '
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', ' ', '﻿', '　':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	if isIdentStart(r) || unicode.IsDigit(r) {
		return true
	}
	return idContinueExtra.In(idContinueExtra, r) || r == '‌' || r == '‍'
}

// skipTrivia consumes whitespace, line terminators and comments, recording
// whether a line terminator was crossed (consulted by the parser for ASI).
func (l *Lexer) skipTrivia() {
	l.sawNewline = false
	for {
		switch {
		case isLineTerminator(l.ch):
			l.sawNewline = true
			l.advance()
		case isWhitespace(l.ch):
			l.advance()
		case l.ch == '/' && l.peekRune() == '/':
			for l.ch != -1 && !isLineTerminator(l.ch) {
				l.advance()
			}
		case l.ch == '/' && l.peekRune() == '*':
			l.advance()
			l.advance()
			for {
				if l.ch == -1 {
					l.error("unterminated block comment", l.pos0())
					return
				}
				if isLineTerminator(l.ch) {
					l.sawNewline = true
				}
				if l.ch == '*' && l.peekRune() == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		case l.ch == '<' && l.peekAt(0) == '!' && l.peekAt(1) == '-' && l.peekAt(2) == '-':
			for l.ch != -1 && !isLineTerminator(l.ch) {
				l.advance()
			}
		case l.col == 1 && l.ch == '-' && l.peekAt(0) == '-' && l.peekAt(1) == '>':
			for l.ch != -1 && !isLineTerminator(l.ch) {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() token.Token {
	l.skipTrivia()
	start := l.pos0()
	newlineBefore := l.sawNewline

	if l.ch == -1 {
		return l.emit(token.EOF, "", start, newlineBefore)
	}

	switch {
	case isIdentStart(l.ch) || l.ch == '\\':
		return l.readIdentOrKeyword(start, newlineBefore)
	case unicode.IsDigit(l.ch) || (l.ch == '.' && unicode.IsDigit(l.peekRune())):
		return l.readNumber(start, newlineBefore)
	case l.ch == '\'' || l.ch == '"':
		return l.readString(start, newlineBefore)
	case l.ch == '`':
		return l.readTemplateHead(start, newlineBefore)
	case l.ch == '/':
		if l.regexAllowed() {
			return l.readRegex(start, newlineBefore)
		}
		return l.readOperator(start, newlineBefore)
	default:
		return l.readOperator(start, newlineBefore)
	}
}

// regexAllowed implements the preceding-token disambiguation rule from
// spec.md §4.1: after an identifier/literal/`)`/`]`/`}`/`this`/`super`/`++`/`--`,
// `/` divides; everywhere else (including right after `return`) it opens a
// regex literal.
func (l *Lexer) regexAllowed() bool {
	if !l.havePrev {
		return true
	}
	return !token.PrecedingExprEnd(l.prevSignificant)
}

func (l *Lexer) emit(t token.Type, lit string, start token.Position, newline bool) token.Token {
	tok := token.Token{Type: t, Literal: lit, Start: start, End: l.pos0(), NewlineBefore: newline}
	if t != token.Comment {
		l.prevSignificant = t
		l.havePrev = true
	}
	return tok
}

func (l *Lexer) readIdentOrKeyword(start token.Position, newline bool) token.Token {
	var sb strings.Builder
	for isIdentPart(l.ch) || l.ch == '\\' {
		if l.ch == '\\' {
			r, ok := l.readUnicodeEscapeInIdent()
			if !ok {
				break
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
	name := sb.String()
	if name == "" {
		l.error("invalid character in identifier", start)
		l.advance()
		return l.emit(token.Illegal, name, start, newline)
	}
	if l.strict && token.FutureReserved[name] {
		l.error("'"+name+"' is a reserved word in strict mode", start)
	}
	if kw, ok := token.Keywords[name]; ok {
		return l.emit(kw, name, start, newline)
	}
	return l.emit(token.Ident, name, start, newline)
}

// readUnicodeEscapeInIdent consumes a `\uXXXX` or `\u{H...}` escape that
// appears inside an identifier (only valid as such — any other use of `\` in
// an identifier position is illegal).
func (l *Lexer) readUnicodeEscapeInIdent() (rune, bool) {
	save := *l
	l.advance() // consume backslash
	if l.ch != 'u' {
		*l = save
		return 0, false
	}
	l.advance()
	r, ok := l.readUnicodeEscapeBody()
	if !ok {
		*l = save
		return 0, false
	}
	return r, true
}

func (l *Lexer) readUnicodeEscapeBody() (rune, bool) {
	if l.ch == '{' {
		l.advance()
		val := 0
		digits := 0
		for l.ch != '}' {
			d, ok := hexDigit(l.ch)
			if !ok {
				return 0, false
			}
			val = val*16 + d
			digits++
			l.advance()
			if val > 0x10FFFF {
				return 0, false
			}
		}
		if digits == 0 {
			return 0, false
		}
		l.advance() // consume '}'
		return rune(val), true
	}
	val := 0
	for i := 0; i < 4; i++ {
		d, ok := hexDigit(l.ch)
		if !ok {
			return 0, false
		}
		val = val*16 + d
		l.advance()
	}
	return rune(val), true
}

func hexDigit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}
