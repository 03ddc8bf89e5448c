// Package token defines the lexical token vocabulary shared by the lexer,
// parser, and diagnostics, grounded on the teacher's pkg/token package (a
// single flat Type enum plus a Position/Token pair, rather than per-category
// sub-packages).
package token

import "fmt"

// Type identifies a lexical token kind.
type Type int

// Position locates a token in source text. Column is measured in UTF-16
// code units to match the column numbers web tooling (source maps, V8
// stack traces) reports.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit.
type Token struct {
	Type    Type
	Literal string // raw text for operators/keywords/identifiers; source text for numbers (0x/0o/0b prefix kept)
	Start   Position
	End     Position

	NumValue float64 // parsed value for Number tokens (also set when IsBigInt)
	IsBigInt bool

	Cooked string // decoded value for String/Template tokens
	Raw    string // undecoded source text for String/Template tokens

	NewlineBefore bool // a LineTerminator appeared between this token and the previous one (ASI)
}

const (
	Illegal Type = iota
	EOF
	Comment

	Ident
	Number
	BigInt
	String
	Regex

	TemplateString // no-substitution template: `abc`
	TemplateHead   // `abc${
	TemplateMiddle // }abc${
	TemplateTail   // }abc`

	// Punctuators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Dot
	DotDotDot
	Semicolon
	Comma
	Colon
	Question
	QuestionDot
	Arrow

	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	StarStarAssign
	ShlAssign
	ShrAssign
	UShrAssign
	AndAssign
	OrAssign
	XorAssign
	LogicalAndAssign
	LogicalOrAssign
	NullishAssign

	Plus
	Minus
	Star
	StarStar
	Slash
	Percent
	Increment
	Decrement

	Eq
	NotEq
	StrictEq
	StrictNotEq
	Lt
	Gt
	LtEq
	GtEq

	LogicalAnd
	LogicalOr
	LogicalNot
	Nullish

	BitAnd
	BitOr
	BitXor
	BitNot
	Shl
	Shr
	UShr

	// Keywords.
	Var
	Let
	Const
	Function
	Return
	If
	Else
	For
	While
	Do
	Break
	Continue
	Switch
	Case
	Default
	Try
	Catch
	Finally
	Throw
	New
	Delete
	Typeof
	Void
	In
	Instanceof
	This
	Super
	Class
	Extends
	Null
	Undefined
	True
	False
	Yield
	Await
	Async

	// Contextual keywords.
	Of
	From
	Get
	Set
	Static

	// Reserved for future use (future-reserved in strict mode).
	Implements
	Interface
	Package
	Private
	Protected
	Public
)

var names = map[Type]string{
	Illegal: "Illegal", EOF: "EOF", Comment: "Comment",
	Ident: "Ident", Number: "Number", BigInt: "BigInt", String: "String", Regex: "Regex",
	TemplateString: "TemplateString", TemplateHead: "TemplateHead",
	TemplateMiddle: "TemplateMiddle", TemplateTail: "TemplateTail",

	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Dot: ".", DotDotDot: "...", Semicolon: ";", Comma: ",", Colon: ":",
	Question: "?", QuestionDot: "?.", Arrow: "=>",

	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
	SlashAssign: "/=", PercentAssign: "%=", StarStarAssign: "**=",
	ShlAssign: "<<=", ShrAssign: ">>=", UShrAssign: ">>>=",
	AndAssign: "&=", OrAssign: "|=", XorAssign: "^=",
	LogicalAndAssign: "&&=", LogicalOrAssign: "||=", NullishAssign: "??=",

	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", Percent: "%",
	Increment: "++", Decrement: "--",

	Eq: "==", NotEq: "!=", StrictEq: "===", StrictNotEq: "!==",
	Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",

	LogicalAnd: "&&", LogicalOr: "||", LogicalNot: "!", Nullish: "??",

	BitAnd: "&", BitOr: "|", BitXor: "^", BitNot: "~", Shl: "<<", Shr: ">>", UShr: ">>>",

	Var: "var", Let: "let", Const: "const", Function: "function", Return: "return",
	If: "if", Else: "else", For: "for", While: "while", Do: "do",
	Break: "break", Continue: "continue", Switch: "switch", Case: "case", Default: "default",
	Try: "try", Catch: "catch", Finally: "finally", Throw: "throw",
	New: "new", Delete: "delete", Typeof: "typeof", Void: "void",
	In: "in", Instanceof: "instanceof", This: "this", Super: "super",
	Class: "class", Extends: "extends", Null: "null", Undefined: "undefined",
	True: "true", False: "false", Yield: "yield", Await: "await", Async: "async",

	Of: "of", From: "from", Get: "get", Set: "set", Static: "static",

	Implements: "implements", Interface: "interface", Package: "package",
	Private: "private", Protected: "protected", Public: "public",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps reserved-word spelling to its Type; contextual keywords
// (of, from, get, set, static, async) are included here too since the lexer
// always classifies them as their specific Type, and the parser decides
// whether that position is syntactic or plain-identifier use.
var Keywords = map[string]Type{
	"var": Var, "let": Let, "const": Const, "function": Function, "return": Return,
	"if": If, "else": Else, "for": For, "while": While, "do": Do,
	"break": Break, "continue": Continue, "switch": Switch, "case": Case, "default": Default,
	"try": Try, "catch": Catch, "finally": Finally, "throw": Throw,
	"new": New, "delete": Delete, "typeof": Typeof, "void": Void,
	"in": In, "instanceof": Instanceof, "this": This, "super": Super,
	"class": Class, "extends": Extends, "null": Null, "undefined": Undefined,
	"true": True, "false": False, "yield": Yield, "await": Await, "async": Async,
	"of": Of, "from": From, "get": Get, "set": Set, "static": Static,
}

// FutureReserved words become illegal identifiers in strict-mode code.
var FutureReserved = map[string]bool{
	"implements": true, "interface": true, "package": true,
	"private": true, "protected": true, "public": true,
	"yield": true,
}

// PrecedingExprEnd reports whether a token of this kind can end a complete
// expression (identifier, literal, `)`, `]`, `}`, `this`, `super`, `++`, `--`),
// meaning a following `/` should be read as division rather than the start
// of a regex literal (spec.md §4.1).
func PrecedingExprEnd(t Type) bool {
	switch t {
	case Ident, Number, BigInt, String, Regex,
		TemplateString, TemplateTail,
		RParen, RBracket, RBrace,
		This, Super, Null, Undefined, True, False,
		Increment, Decrement:
		return true
	}
	return false
}
