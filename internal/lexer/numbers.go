package lexer

import (
	"strconv"
	"strings"

	"github.com/ecmago/ecmago/pkg/token"
)

// readNumber scans decimal, 0x/0o/0b, legacy octal, numeric separators,
// exponents and the BigInt `n` suffix per spec.md §4.1.
func (l *Lexer) readNumber(start token.Position, newline bool) token.Token {
	var sb strings.Builder
	isBigInt := false

	if l.ch == '0' && (l.peekRune() == 'x' || l.peekRune() == 'X') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		digits := l.readDigitsWithSeparators(&sb, isHexDigit)
		isBigInt = l.consumeBigIntSuffix()
		lit := sb.String()
		if digits == 0 {
			l.error("missing hex digits after 0x", start)
		}
		val, _ := strconv.ParseUint(stripUnderscores(lit[2:]), 16, 64)
		return l.emitNumber(lit, float64(val), isBigInt, start, newline)
	}
	if l.ch == '0' && (l.peekRune() == 'o' || l.peekRune() == 'O') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		digits := l.readDigitsWithSeparators(&sb, isOctalDigit)
		isBigInt = l.consumeBigIntSuffix()
		lit := sb.String()
		if digits == 0 {
			l.error("missing octal digits after 0o", start)
		}
		val, _ := strconv.ParseUint(stripUnderscores(lit[2:]), 8, 64)
		return l.emitNumber(lit, float64(val), isBigInt, start, newline)
	}
	if l.ch == '0' && (l.peekRune() == 'b' || l.peekRune() == 'B') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		digits := l.readDigitsWithSeparators(&sb, isBinaryDigit)
		isBigInt = l.consumeBigIntSuffix()
		lit := sb.String()
		if digits == 0 {
			l.error("missing binary digits after 0b", start)
		}
		val, _ := strconv.ParseUint(stripUnderscores(lit[2:]), 2, 64)
		return l.emitNumber(lit, float64(val), isBigInt, start, newline)
	}
	// Legacy octal: 0 followed directly by octal digits, no '.', no separator.
	if l.ch == '0' && isOctalDigit(l.peekRune()) {
		sb.WriteRune(l.ch)
		l.advance()
		for isOctalDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.advance()
		}
		lit := sb.String()
		if l.strict {
			l.error("legacy octal literals are not allowed in strict mode", start)
		}
		val, _ := strconv.ParseUint(lit[1:], 8, 64)
		return l.emitNumber(lit, float64(val), false, start, newline)
	}

	l.readDigitsWithSeparators(&sb, isDecDigit)
	isFloat := false
	if l.ch == '.' {
		isFloat = true
		sb.WriteRune(l.ch)
		l.advance()
		l.readDigitsWithSeparators(&sb, isDecDigit)
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		sb.WriteRune(l.ch)
		l.advance()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteRune(l.ch)
			l.advance()
		}
		l.readDigitsWithSeparators(&sb, isDecDigit)
	}
	if !isFloat {
		isBigInt = l.consumeBigIntSuffix()
	}
	lit := sb.String()
	clean := stripUnderscores(lit)
	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		l.error("invalid number literal: "+lit, start)
	}
	return l.emitNumber(lit, val, isBigInt, start, newline)
}

func (l *Lexer) emitNumber(lit string, val float64, isBigInt bool, start token.Position, newline bool) token.Token {
	tok := l.emit(token.Number, lit, start, newline)
	tok.NumValue = val
	tok.IsBigInt = isBigInt
	return tok
}

func (l *Lexer) consumeBigIntSuffix() bool {
	if l.ch == 'n' {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) readDigitsWithSeparators(sb *strings.Builder, pred func(rune) bool) int {
	count := 0
	lastWasSep := false
	for pred(l.ch) || l.ch == '_' {
		if l.ch == '_' {
			if lastWasSep || count == 0 {
				l.error("unexpected numeric separator", l.pos0())
			}
			lastWasSep = true
			l.advance()
			continue
		}
		sb.WriteRune(l.ch)
		count++
		lastWasSep = false
		l.advance()
	}
	return count
}

func stripUnderscores(s string) string {
	if !strings.ContainsRune(s, '_') {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}

func isDecDigit(r rune) bool   { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool   { _, ok := hexDigit(r); return ok }
func isOctalDigit(r rune) bool { return r >= '0' && r <= '7' }
func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }
