package lexer

import "github.com/ecmago/ecmago/pkg/token"

// readOperator scans a punctuator or operator token, matching the longest
// valid sequence first (e.g. `>>>=` before `>>=` before `>>` before `>`).
func (l *Lexer) readOperator(start token.Position, newline bool) token.Token {
	c := l.ch
	switch c {
	case '(':
		l.advance()
		return l.emit(token.LParen, "(", start, newline)
	case ')':
		l.advance()
		return l.emit(token.RParen, ")", start, newline)
	case '{':
		l.advance()
		return l.emit(token.LBrace, "{", start, newline)
	case '}':
		l.advance()
		return l.emit(token.RBrace, "}", start, newline)
	case '[':
		l.advance()
		return l.emit(token.LBracket, "[", start, newline)
	case ']':
		l.advance()
		return l.emit(token.RBracket, "]", start, newline)
	case ',':
		l.advance()
		return l.emit(token.Comma, ",", start, newline)
	case ';':
		l.advance()
		return l.emit(token.Semicolon, ";", start, newline)
	case ':':
		l.advance()
		return l.emit(token.Colon, ":", start, newline)
	case '~':
		l.advance()
		return l.emit(token.BitNot, "~", start, newline)
	case '.':
		l.advance()
		if l.ch == '.' && l.peekRune() == '.' {
			l.advance()
			l.advance()
			return l.emit(token.DotDotDot, "...", start, newline)
		}
		return l.emit(token.Dot, ".", start, newline)
	case '?':
		l.advance()
		if l.ch == '.' {
			l.advance()
			return l.emit(token.QuestionDot, "?.", start, newline)
		}
		if l.ch == '?' {
			l.advance()
			if l.ch == '=' {
				l.advance()
				return l.emit(token.NullishAssign, "??=", start, newline)
			}
			return l.emit(token.Nullish, "??", start, newline)
		}
		return l.emit(token.Question, "?", start, newline)
	case '+':
		l.advance()
		if l.ch == '+' {
			l.advance()
			return l.emit(token.Increment, "++", start, newline)
		}
		if l.ch == '=' {
			l.advance()
			return l.emit(token.PlusAssign, "+=", start, newline)
		}
		return l.emit(token.Plus, "+", start, newline)
	case '-':
		l.advance()
		if l.ch == '-' {
			l.advance()
			return l.emit(token.Decrement, "--", start, newline)
		}
		if l.ch == '=' {
			l.advance()
			return l.emit(token.MinusAssign, "-=", start, newline)
		}
		return l.emit(token.Minus, "-", start, newline)
	case '*':
		l.advance()
		if l.ch == '*' {
			l.advance()
			if l.ch == '=' {
				l.advance()
				return l.emit(token.StarStarAssign, "**=", start, newline)
			}
			return l.emit(token.StarStar, "**", start, newline)
		}
		if l.ch == '=' {
			l.advance()
			return l.emit(token.StarAssign, "*=", start, newline)
		}
		return l.emit(token.Star, "*", start, newline)
	case '/':
		l.advance()
		if l.ch == '=' {
			l.advance()
			return l.emit(token.SlashAssign, "/=", start, newline)
		}
		return l.emit(token.Slash, "/", start, newline)
	case '%':
		l.advance()
		if l.ch == '=' {
			l.advance()
			return l.emit(token.PercentAssign, "%=", start, newline)
		}
		return l.emit(token.Percent, "%", start, newline)
	case '=':
		l.advance()
		if l.ch == '=' {
			l.advance()
			if l.ch == '=' {
				l.advance()
				return l.emit(token.StrictEq, "===", start, newline)
			}
			return l.emit(token.Eq, "==", start, newline)
		}
		if l.ch == '>' {
			l.advance()
			return l.emit(token.Arrow, "=>", start, newline)
		}
		return l.emit(token.Assign, "=", start, newline)
	case '!':
		l.advance()
		if l.ch == '=' {
			l.advance()
			if l.ch == '=' {
				l.advance()
				return l.emit(token.StrictNotEq, "!==", start, newline)
			}
			return l.emit(token.NotEq, "!=", start, newline)
		}
		return l.emit(token.LogicalNot, "!", start, newline)
	case '<':
		l.advance()
		if l.ch == '<' {
			l.advance()
			if l.ch == '=' {
				l.advance()
				return l.emit(token.ShlAssign, "<<=", start, newline)
			}
			return l.emit(token.Shl, "<<", start, newline)
		}
		if l.ch == '=' {
			l.advance()
			return l.emit(token.LtEq, "<=", start, newline)
		}
		return l.emit(token.Lt, "<", start, newline)
	case '>':
		l.advance()
		if l.ch == '>' {
			l.advance()
			if l.ch == '>' {
				l.advance()
				if l.ch == '=' {
					l.advance()
					return l.emit(token.UShrAssign, ">>>=", start, newline)
				}
				return l.emit(token.UShr, ">>>", start, newline)
			}
			if l.ch == '=' {
				l.advance()
				return l.emit(token.ShrAssign, ">>=", start, newline)
			}
			return l.emit(token.Shr, ">>", start, newline)
		}
		if l.ch == '=' {
			l.advance()
			return l.emit(token.GtEq, ">=", start, newline)
		}
		return l.emit(token.Gt, ">", start, newline)
	case '&':
		l.advance()
		if l.ch == '&' {
			l.advance()
			if l.ch == '=' {
				l.advance()
				return l.emit(token.LogicalAndAssign, "&&=", start, newline)
			}
			return l.emit(token.LogicalAnd, "&&", start, newline)
		}
		if l.ch == '=' {
			l.advance()
			return l.emit(token.AndAssign, "&=", start, newline)
		}
		return l.emit(token.BitAnd, "&", start, newline)
	case '|':
		l.advance()
		if l.ch == '|' {
			l.advance()
			if l.ch == '=' {
				l.advance()
				return l.emit(token.LogicalOrAssign, "||=", start, newline)
			}
			return l.emit(token.LogicalOr, "||", start, newline)
		}
		if l.ch == '=' {
			l.advance()
			return l.emit(token.OrAssign, "|=", start, newline)
		}
		return l.emit(token.BitOr, "|", start, newline)
	case '^':
		l.advance()
		if l.ch == '=' {
			l.advance()
			return l.emit(token.XorAssign, "^=", start, newline)
		}
		return l.emit(token.BitXor, "^", start, newline)
	default:
		l.error("unexpected character", start)
		l.advance()
		return l.emit(token.Illegal, string(c), start, newline)
	}
}
