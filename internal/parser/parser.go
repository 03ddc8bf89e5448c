// Package parser implements a recursive-descent, Pratt-precedence-climbing
// parser that turns a lexer token stream into an internal/ast Program,
// grounded on the teacher's internal/parser package (same
// resynchronise-at-statement-boundary error recovery). Binary operators are
// looked up in the binPrecedence table; prefix and primary forms are
// dispatched by switch statements.
package parser

import (
	"fmt"

	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/internal/lexer"
	"github.com/ecmago/ecmago/pkg/token"
)

// ParseError is a single parse failure with position; the parser
// resynchronises at the next statement boundary so one error doesn't abort
// the whole parse (spec.md §4.2).
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// precedence levels, lowest to highest, matching spec.md §4.2's chain.
const (
	precLowest = iota
	precAssign
	precConditional
	precNullish
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precUpdate
	precCall
)

var binPrecedence = map[token.Type]int{
	token.Nullish:     precNullish,
	token.LogicalOr:   precLogicalOr,
	token.LogicalAnd:  precLogicalAnd,
	token.BitOr:       precBitOr,
	token.BitXor:      precBitXor,
	token.BitAnd:      precBitAnd,
	token.Eq:          precEquality,
	token.NotEq:       precEquality,
	token.StrictEq:    precEquality,
	token.StrictNotEq: precEquality,
	token.Lt:          precRelational,
	token.Gt:          precRelational,
	token.LtEq:        precRelational,
	token.GtEq:        precRelational,
	token.Instanceof:  precRelational,
	token.In:          precRelational,
	token.Shl:         precShift,
	token.Shr:         precShift,
	token.UShr:        precShift,
	token.Plus:        precAdditive,
	token.Minus:       precAdditive,
	token.Star:        precMultiplicative,
	token.Slash:       precMultiplicative,
	token.Percent:     precMultiplicative,
	token.StarStar:    precExponent,
}

var assignOps = map[token.Type]bool{
	token.Assign: true, token.PlusAssign: true, token.MinusAssign: true,
	token.StarAssign: true, token.SlashAssign: true, token.PercentAssign: true,
	token.StarStarAssign: true, token.ShlAssign: true, token.ShrAssign: true,
	token.UShrAssign: true, token.AndAssign: true, token.OrAssign: true,
	token.XorAssign: true, token.LogicalAndAssign: true, token.LogicalOrAssign: true,
	token.NullishAssign: true,
}

// Parser consumes tokens from a Lexer and produces an AST.
type Parser struct {
	lex *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []ParseError
	strict bool

	// loopDepth/switchDepth track whether `break`/`continue` are currently
	// valid; labels tracks active labelled statements for labelled
	// break/continue.
	loopDepth   int
	switchDepth int
	labels      map[string]bool

	// templateStack and braceDepth are not used: template substitutions are
	// handled by parseTemplateLiteral, which calls Lexer.ResumeTemplate.
	templateStack []int
	braceDepth    int

	inGenerator bool
	inAsync     bool
}

// New creates a Parser over src.
func New(src string) *Parser {
	p := &Parser{lex: lexer.New(src), labels: map[string]bool{}}
	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

// expect consumes the current token if it matches t, else records an error
// and still advances (error recovery keeps the parser moving forward).
func (p *Parser) expect(t token.Type) token.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.errorf(p.cur.Start, "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
		return tok
	}
	p.next()
	return tok
}

// consumeSemicolon implements ASI: a real `;`, a `}` or EOF needing no
// token consumed, or a line terminator before the next token.
func (p *Parser) consumeSemicolon() {
	if p.curIs(token.Semicolon) {
		p.next()
		return
	}
	if p.curIs(token.RBrace) || p.curIs(token.EOF) {
		return
	}
	if p.cur.NewlineBefore {
		return
	}
	p.errorf(p.cur.Start, "expected ';', got %s", p.cur.Type)
}

// ParseProgram parses a full source file into a Program, recovering from
// statement-level errors by skipping to the next statement boundary.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	prog.Strict = p.detectDirectivePrologue()
	p.strict = prog.Strict
	p.lex.SetStrict(p.strict)
	for !p.curIs(token.EOF) {
		stmt := p.parseStatementRecovering()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

// detectDirectivePrologue peeks whether the very first statement is a
// "use strict" string-literal-expression-statement, without consuming it.
func (p *Parser) detectDirectivePrologue() bool {
	return p.curIs(token.String) && lexer.IsUseStrictDirective(p.cur.Cooked) &&
		(p.peekIs(token.Semicolon) || p.peek.NewlineBefore || p.peekIs(token.EOF) || p.peekIs(token.RBrace))
}

func (p *Parser) parseStatementRecovering() (stmt ast.Statement) {
	startErrCount := len(p.errors)
	stmt = p.parseStatement()
	if len(p.errors) > startErrCount {
		p.resynchronise()
	}
	return stmt
}

// resynchronise skips tokens until a likely statement boundary so a single
// error doesn't cascade into unrelated garbage.
func (p *Parser) resynchronise() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.Semicolon) {
			p.next()
			return
		}
		if p.curIs(token.RBrace) {
			return
		}
		p.next()
	}
}
