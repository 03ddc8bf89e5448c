package bytecode

import (
	"testing"

	"github.com/ecmago/ecmago/internal/ast"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func num(v float64) *ast.NumberLiteral { return &ast.NumberLiteral{Value: v} }

// sumLoop builds: for (let i = 0, sum = 0; i < 10; i++) { sum = sum + i; }
func sumLoop() *ast.ForStatement {
	body := &ast.BlockStatement{
		Statements: []ast.Statement{
			&ast.ExpressionStatement{
				Expr: &ast.AssignmentExpression{
					Operator: "=",
					Target:   ident("sum"),
					Value: &ast.BinaryExpression{
						Operator: "+",
						Left:     ident("sum"),
						Right:    ident("i"),
					},
				},
			},
		},
	}
	return &ast.ForStatement{
		Init: &ast.VariableDeclaration{
			Kind: ast.DeclLet,
			Declarators: []*ast.VariableDeclarator{
				{Target: ident("i"), Init: num(0)},
				{Target: ident("sum"), Init: num(0)},
			},
		},
		Test: &ast.BinaryExpression{
			Operator: "<",
			Left:     ident("i"),
			Right:    num(10),
		},
		Update: &ast.UpdateExpression{
			Operator: "++",
			Argument: ident("i"),
			Prefix:   false,
		},
		Body: body,
	}
}

func TestCompileAndRunSumLoop(t *testing.T) {
	chunk, ok := Compile(sumLoop())
	if !ok {
		t.Fatal("Compile() reported the loop as unsupported")
	}
	regs := make([]float64, chunk.NumRegisters)
	vm := NewVM(nil)
	if _, err := vm.Run(chunk, regs); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	sumReg, ok := chunk.Locals["sum"]
	if !ok {
		t.Fatal("chunk.Locals has no entry for \"sum\"")
	}
	if got, want := regs[sumReg], 45.0; got != want {
		t.Errorf("sum = %v, want %v", got, want)
	}
	iReg := chunk.Locals["i"]
	if got, want := regs[iReg], 10.0; got != want {
		t.Errorf("i = %v, want %v", got, want)
	}
}

func TestCompileWhileLoop(t *testing.T) {
	// while (n < 5) { n = n + 1; }
	loop := &ast.WhileStatement{
		Test: &ast.BinaryExpression{Operator: "<", Left: ident("n"), Right: num(5)},
		Body: &ast.BlockStatement{
			Statements: []ast.Statement{
				&ast.ExpressionStatement{
					Expr: &ast.AssignmentExpression{
						Operator: "=",
						Target:   ident("n"),
						Value:    &ast.BinaryExpression{Operator: "+", Left: ident("n"), Right: num(1)},
					},
				},
			},
		},
	}
	chunk, ok := Compile(loop)
	if !ok {
		t.Fatal("Compile() reported the while loop as unsupported")
	}
	regs := make([]float64, chunk.NumRegisters)
	nReg := chunk.registerFor("n")
	regs[nReg] = 0
	vm := NewVM(nil)
	if _, err := vm.Run(chunk, regs); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if got, want := regs[nReg], 5.0; got != want {
		t.Errorf("n = %v, want %v", got, want)
	}
}

// TestCompileRejectsReturnInBody ensures a return inside a loop body falls
// back to the tree walker instead of silently treating it as the chunk's
// exit point (see the warning in compiler.go's Compile doc comment).
func TestCompileRejectsReturnInBody(t *testing.T) {
	loop := &ast.WhileStatement{
		Test: &ast.BooleanLiteral{Value: true},
		Body: &ast.BlockStatement{
			Statements: []ast.Statement{
				&ast.ReturnStatement{Argument: num(1)},
			},
		},
	}
	if _, ok := Compile(loop); ok {
		t.Error("Compile() should reject a loop body containing return")
	}
}

func TestCompileRejectsCallInCondition(t *testing.T) {
	loop := &ast.WhileStatement{
		Test: &ast.CallExpression{Callee: ident("f")},
		Body: &ast.BlockStatement{},
	}
	if _, ok := Compile(loop); ok {
		t.Error("Compile() should reject a loop whose test calls a function")
	}
}

func TestVMModUsesFloatSemantics(t *testing.T) {
	chunk := newChunk()
	a := chunk.allocRegister()
	b := chunk.allocRegister()
	dst := chunk.allocRegister()
	chunk.emit(OpLoadConst, a, chunk.addConstant(5.5), 0)
	chunk.emit(OpLoadConst, b, chunk.addConstant(2), 0)
	chunk.emit(OpMod, dst, a, b)
	chunk.emit(OpReturn, dst, 0, 0)

	regs := make([]float64, chunk.NumRegisters)
	vm := NewVM(nil)
	got, err := vm.Run(chunk, regs)
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if want := 1.5; got != want {
		t.Errorf("5.5 %% 2 = %v, want %v", got, want)
	}
}

func TestVMCallInvokesHost(t *testing.T) {
	chunk := newChunk()
	arg := chunk.allocRegister()
	dst := chunk.allocRegister()
	chunk.emit(OpLoadConst, arg, chunk.addConstant(4), 0)
	nameIdx := chunk.addCallName("sqrt")
	chunk.emit(OpCall, dst, nameIdx, arg)
	chunk.emit(OpReturn, dst, 0, 0)

	vm := NewVM(func(name string, v float64) (float64, error) {
		if name != "sqrt" {
			t.Fatalf("unexpected host call name %q", name)
		}
		return v * v, nil
	})
	regs := make([]float64, chunk.NumRegisters)
	got, err := vm.Run(chunk, regs)
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if want := 16.0; got != want {
		t.Errorf("host call result = %v, want %v", got, want)
	}
}
