// Package ast defines the Abstract Syntax Tree node types produced by the
// parser. The node set is closed: every concrete type below implements
// either Expression or Statement, and the tree-walking evaluator in
// internal/interp switches exhaustively over them.
package ast

import (
	"bytes"
	"strings"

	"github.com/ecmago/ecmago/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// BaseNode carries the triggering token shared by most node kinds.
type BaseNode struct {
	Token token.Token
}

func (b BaseNode) TokenLiteral() string  { return b.Token.Literal }
func (b BaseNode) Pos() token.Position   { return b.Token.Start }

// Program is the root node: a module or script body.
type Program struct {
	Statements []Statement
	Strict     bool // true when the directive prologue contains "use strict"
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}
func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// Identifier is a variable, function, or binding name reference.
type Identifier struct {
	BaseNode
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Name }

// ---- Literals ----

type NumberLiteral struct {
	BaseNode
	Value float64
}

func (n *NumberLiteral) expressionNode() {}
func (n *NumberLiteral) String() string  { return n.Token.Literal }

type BigIntLiteral struct {
	BaseNode
	Raw string // digits without the `n` suffix, in source radix
}

func (n *BigIntLiteral) expressionNode() {}
func (n *BigIntLiteral) String() string  { return n.Raw + "n" }

type StringLiteral struct {
	BaseNode
	Value string
}

func (s *StringLiteral) expressionNode() {}
func (s *StringLiteral) String() string  { return "\"" + s.Value + "\"" }

type BooleanLiteral struct {
	BaseNode
	Value bool
}

func (b *BooleanLiteral) expressionNode() {}
func (b *BooleanLiteral) String() string  { return b.Token.Literal }

type NullLiteral struct{ BaseNode }

func (n *NullLiteral) expressionNode() {}
func (n *NullLiteral) String() string  { return "null" }

type UndefinedLiteral struct{ BaseNode }

func (u *UndefinedLiteral) expressionNode() {}
func (u *UndefinedLiteral) String() string  { return "undefined" }

type RegexLiteral struct {
	BaseNode
	Pattern string
	Flags   string
}

func (r *RegexLiteral) expressionNode() {}
func (r *RegexLiteral) String() string  { return "/" + r.Pattern + "/" + r.Flags }

// TemplateLiteral alternates cooked quasi strings and embedded expressions:
// len(Quasis) == len(Expressions)+1.
type TemplateLiteral struct {
	BaseNode
	Quasis      []string
	Raw         []string
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode() {}
func (t *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	for i, q := range t.Quasis {
		out.WriteString(q)
		if i < len(t.Expressions) {
			out.WriteString("${")
			out.WriteString(t.Expressions[i].String())
			out.WriteString("}")
		}
	}
	out.WriteString("`")
	return out.String()
}

// ArrayLiteral holds elements; a nil element represents an elision.
type ArrayLiteral struct {
	BaseNode
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode() {}
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			parts[i] = ""
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type PropertyKind int

const (
	PropInit PropertyKind = iota
	PropGet
	PropSet
	PropMethod
	PropSpread
)

type Property struct {
	Key      Expression
	Value    Expression
	Kind     PropertyKind
	Computed bool
	Shorthand bool
}

type ObjectLiteral struct {
	BaseNode
	Properties []*Property
}

func (o *ObjectLiteral) expressionNode() {}
func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SpreadElement appears in array literals, call arguments, and object
// literals (`...expr`).
type SpreadElement struct {
	BaseNode
	Argument Expression
}

func (s *SpreadElement) expressionNode() {}
func (s *SpreadElement) String() string  { return "..." + s.Argument.String() }

// ThisExpression and SuperExpression.
type ThisExpression struct{ BaseNode }

func (t *ThisExpression) expressionNode() {}
func (t *ThisExpression) String() string  { return "this" }

type SuperExpression struct{ BaseNode }

func (s *SuperExpression) expressionNode() {}
func (s *SuperExpression) String() string  { return "super" }
