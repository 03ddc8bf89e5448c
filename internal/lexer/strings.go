package lexer

import (
	"strings"

	"github.com/ecmago/ecmago/pkg/token"
)

// readString scans a single- or double-quoted string literal, decoding
// escapes per spec.md §4.1 into Token.Cooked.
func (l *Lexer) readString(start token.Position, newline bool) token.Token {
	quote := l.ch
	l.advance()
	var raw strings.Builder
	var cooked strings.Builder
	for l.ch != quote {
		if l.ch == -1 || isLineTerminator(l.ch) {
			l.error("unterminated string literal", start)
			break
		}
		if l.ch == '\\' {
			raw.WriteRune(l.ch)
			l.advance()
			l.readEscapeInto(&raw, &cooked)
			continue
		}
		raw.WriteRune(l.ch)
		cooked.WriteRune(l.ch)
		l.advance()
	}
	if l.ch == quote {
		l.advance()
	}
	tok := l.emit(token.String, raw.String(), start, newline)
	tok.Cooked = cooked.String()
	return tok
}

// readEscapeInto decodes one escape sequence (the leading backslash has
// already been consumed) appending the raw source to raw and the decoded
// rune(s) to cooked.
func (l *Lexer) readEscapeInto(raw, cooked *strings.Builder) {
	if l.ch == -1 {
		return
	}
	c := l.ch
	switch c {
	case 'n':
		cooked.WriteByte('\n')
		raw.WriteRune(c)
		l.advance()
	case 't':
		cooked.WriteByte('\t')
		raw.WriteRune(c)
		l.advance()
	case 'r':
		cooked.WriteByte('\r')
		raw.WriteRune(c)
		l.advance()
	case 'b':
		cooked.WriteByte('\b')
		raw.WriteRune(c)
		l.advance()
	case 'f':
		cooked.WriteByte('\f')
		raw.WriteRune(c)
		l.advance()
	case 'v':
		cooked.WriteByte('\v')
		raw.WriteRune(c)
		l.advance()
	case '\\', '\'', '"', '`':
		cooked.WriteRune(c)
		raw.WriteRune(c)
		l.advance()
	case '\n':
		raw.WriteRune(c)
		l.advance() // line continuation: dropped from cooked value
	case '\r':
		raw.WriteRune(c)
		l.advance()
		if l.ch == '\n' {
			raw.WriteRune(l.ch)
			l.advance()
		}
	case 'x':
		raw.WriteRune(c)
		l.advance()
		val := 0
		ok := true
		for i := 0; i < 2; i++ {
			d, good := hexDigit(l.ch)
			if !good {
				ok = false
				break
			}
			val = val*16 + d
			raw.WriteRune(l.ch)
			l.advance()
		}
		if ok {
			cooked.WriteRune(rune(val))
		} else {
			l.error("invalid hex escape", l.pos0())
		}
	case 'u':
		raw.WriteRune(c)
		l.advance()
		r, ok := l.readUnicodeEscapeBodyRaw(raw)
		if ok {
			l.appendPossiblySurrogatePaired(cooked, r)
		} else {
			l.error("invalid unicode escape", l.pos0())
		}
	case '0', '1', '2', '3', '4', '5', '6', '7':
		l.readLegacyOctalEscape(raw, cooked)
	default:
		cooked.WriteRune(c)
		raw.WriteRune(c)
		l.advance()
	}
}

func (l *Lexer) readUnicodeEscapeBodyRaw(raw *strings.Builder) (rune, bool) {
	if l.ch == '{' {
		raw.WriteRune(l.ch)
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
			raw.WriteRune(l.ch)
			l.advance()
			if val > 0x10FFFF {
				return 0, false
			}
		}
		if digits == 0 {
			return 0, false
		}
		raw.WriteRune(l.ch)
		l.advance()
		return rune(val), true
	}
	val := 0
	for i := 0; i < 4; i++ {
		d, ok := hexDigit(l.ch)
		if !ok {
			return 0, false
		}
		val = val*16 + d
		raw.WriteRune(l.ch)
		l.advance()
	}
	return rune(val), true
}

// appendPossiblySurrogatePaired decodes a UTF-16 surrogate pair (high
// followed immediately by a `\uDCxx` low surrogate escape) into a single
// code point, per spec.md §4.1.
func (l *Lexer) appendPossiblySurrogatePaired(cooked *strings.Builder, r rune) {
	if r >= 0xD800 && r <= 0xDBFF && l.ch == '\\' && l.peekRune() == 'u' {
		save := *l
		l.advance() // backslash
		l.advance() // u
		var discard strings.Builder
		low, ok := l.readUnicodeEscapeBodyRaw(&discard)
		if ok && low >= 0xDC00 && low <= 0xDFFF {
			combined := 0x10000 + (r-0xD800)*0x400 + (low - 0xDC00)
			cooked.WriteRune(rune(combined))
			return
		}
		*l = save
	}
	cooked.WriteRune(r)
}

// readLegacyOctalEscape handles \0-\377 legacy octal escapes; rejected in
// strict mode except a bare \0 not followed by another octal digit.
func (l *Lexer) readLegacyOctalEscape(raw, cooked *strings.Builder) {
	val := 0
	digits := 0
	first := l.ch
	for digits < 3 && isOctalDigit(l.ch) {
		val = val*8 + int(l.ch-'0')
		raw.WriteRune(l.ch)
		l.advance()
		digits++
		if digits == 2 && first > '3' {
			break
		}
	}
	if l.strict && !(first == '0' && digits == 1) {
		l.error("octal escape sequences are not allowed in strict mode", l.pos0())
	}
	cooked.WriteByte(byte(val))
}
