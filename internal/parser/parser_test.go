package parser

import (
	"testing"

	"github.com/ecmago/ecmago/internal/ast"
)

func parseOne(t *testing.T, src string) ast.Statement {
	t.Helper()
	p := New(src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(prog.Statements))
	}
	return prog.Statements[0]
}

func TestParseVariableDeclaration(t *testing.T) {
	stmt := parseOne(t, "let x = 1 + 2;")
	decl, ok := stmt.(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("statement = %T, want *ast.VariableDeclaration", stmt)
	}
	if decl.Kind != ast.DeclLet {
		t.Errorf("Kind = %v, want DeclLet", decl.Kind)
	}
	if len(decl.Declarators) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarators))
	}
	bin, ok := decl.Declarators[0].Init.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("declarator Init = %T, want *ast.BinaryExpression", decl.Declarators[0].Init)
	}
	if bin.Operator != "+" {
		t.Errorf("Operator = %q, want %q", bin.Operator, "+")
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), not (1 + 2) * 3.
	stmt := parseOne(t, "1 + 2 * 3;")
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement = %T, want *ast.ExpressionStatement", stmt)
	}
	top, ok := es.Expr.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("top expression = %T, want *ast.BinaryExpression", es.Expr)
	}
	if top.Operator != "+" {
		t.Fatalf("top operator = %q, want %q", top.Operator, "+")
	}
	right, ok := top.Right.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("right operand = %T, want *ast.BinaryExpression", top.Right)
	}
	if right.Operator != "*" {
		t.Errorf("right operator = %q, want %q", right.Operator, "*")
	}
}

func TestParseIfElseStatement(t *testing.T) {
	stmt := parseOne(t, "if (x) { y; } else { z; }")
	ifStmt, ok := stmt.(*ast.IfStatement)
	if !ok {
		t.Fatalf("statement = %T, want *ast.IfStatement", stmt)
	}
	if ifStmt.Alternate == nil {
		t.Error("expected a non-nil Alternate for the else branch")
	}
}

func TestParseFunctionLiteral(t *testing.T) {
	stmt := parseOne(t, "function add(a, b) { return a + b; }")
	fn, ok := stmt.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("statement = %T, want *ast.FunctionLiteral", stmt)
	}
	if fn.Name == nil || fn.Name.Name != "add" {
		t.Errorf("Name = %v, want %q", fn.Name, "add")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestParseArrowFunction(t *testing.T) {
	stmt := parseOne(t, "const f = (x) => x + 1;")
	decl, ok := stmt.(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("statement = %T, want *ast.VariableDeclaration", stmt)
	}
	fn, ok := decl.Declarators[0].Init.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("declarator Init = %T, want *ast.FunctionLiteral", decl.Declarators[0].Init)
	}
	if !fn.IsArrow {
		t.Error("expected IsArrow to be true")
	}
	if fn.ExprBody == nil {
		t.Error("expected a concise arrow body in ExprBody")
	}
}

func TestParseRecoversAfterSyntaxError(t *testing.T) {
	p := New("let = ; let y = 2;")
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one parse error")
	}
}

func TestParseTemplateLiteral(t *testing.T) {
	stmt := parseOne(t, "`hello ${name}!`;")
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement = %T, want *ast.ExpressionStatement", stmt)
	}
	tmpl, ok := es.Expr.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("expression = %T, want *ast.TemplateLiteral", es.Expr)
	}
	if len(tmpl.Expressions) != 1 {
		t.Fatalf("expected 1 interpolated expression, got %d", len(tmpl.Expressions))
	}
}
