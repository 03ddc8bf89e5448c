package bytecode

import "github.com/ecmago/ecmago/internal/ast"

// Compile attempts to translate node -- always a loop statement in the
// current bridge (see internal/interp's bytecode_bridge.go) -- into a
// Chunk. It returns ok=false for any construct outside the supported
// subset (straight-line numeric arithmetic, if/while/for, simple
// assignment and update expressions over identifiers) rather than
// miscompiling it; the caller is expected to keep tree-walking in that
// case, exactly as the teacher's optimizer bails out of a fold it can't
// prove safe (optimizer.go). return/break/continue inside the loop body
// are deliberately unsupported: this tier has no notion of a completion
// value to carry a Return out of the loop or a Break/Continue past it, so
// a body containing one always fails to compile.
func Compile(node ast.Node) (*Chunk, bool) {
	c := &compiler{chunk: newChunk()}
	var ok bool
	switch n := node.(type) {
	case *ast.WhileStatement:
		ok = c.compileWhile(n)
	case *ast.ForStatement:
		ok = c.compileFor(n)
	case ast.Statement:
		ok = c.compileStatement(n)
	default:
		ok = false
	}
	if !ok {
		return nil, false
	}
	c.chunk.emit(OpReturn, c.zeroRegister(), 0, 0)
	return c.chunk, true
}

type compiler struct {
	chunk *Chunk
}

// zeroRegister returns a register guaranteed to hold 0, allocating the
// constant once per chunk.
func (c *compiler) zeroRegister() int {
	r := c.chunk.allocRegister()
	c.chunk.emit(OpLoadConst, r, c.chunk.addConstant(0), 0)
	return r
}

func (c *compiler) compileWhile(n *ast.WhileStatement) bool {
	topPC := len(c.chunk.Code)
	testReg, ok := c.compileExpr(n.Test)
	if !ok {
		return false
	}
	jf := c.chunk.emit(OpJumpIfFalse, testReg, 0, 0)
	if !c.compileStatement(n.Body) {
		return false
	}
	c.chunk.emit(OpJump, 0, topPC, 0)
	c.chunk.Code[jf].B = len(c.chunk.Code)
	return true
}

func (c *compiler) compileFor(n *ast.ForStatement) bool {
	if n.Init != nil {
		switch init := n.Init.(type) {
		case *ast.VariableDeclaration:
			for _, d := range init.Declarators {
				id, ok := d.Target.(*ast.Identifier)
				if !ok {
					return false
				}
				if d.Init == nil {
					c.chunk.registerFor(id.Name)
					continue
				}
				v, ok := c.compileExpr(d.Init)
				if !ok {
					return false
				}
				c.chunk.emit(OpMove, c.chunk.registerFor(id.Name), v, 0)
			}
		case ast.Expression:
			if _, ok := c.compileExpr(init); !ok {
				return false
			}
		default:
			return false
		}
	}

	topPC := len(c.chunk.Code)
	jf := -1
	if n.Test != nil {
		testReg, ok := c.compileExpr(n.Test)
		if !ok {
			return false
		}
		jf = c.chunk.emit(OpJumpIfFalse, testReg, 0, 0)
	}
	if !c.compileStatement(n.Body) {
		return false
	}
	if n.Update != nil {
		if _, ok := c.compileExpr(n.Update); !ok {
			return false
		}
	}
	c.chunk.emit(OpJump, 0, topPC, 0)
	if jf >= 0 {
		c.chunk.Code[jf].B = len(c.chunk.Code)
	}
	return true
}

func (c *compiler) compileStatement(s ast.Statement) bool {
	switch st := s.(type) {
	case *ast.BlockStatement:
		for _, inner := range st.Statements {
			if !c.compileStatement(inner) {
				return false
			}
		}
		return true
	case *ast.ExpressionStatement:
		_, ok := c.compileExpr(st.Expr)
		return ok
	case *ast.VariableDeclaration:
		for _, d := range st.Declarators {
			id, ok := d.Target.(*ast.Identifier)
			if !ok {
				return false
			}
			if d.Init == nil {
				c.chunk.registerFor(id.Name)
				continue
			}
			v, ok := c.compileExpr(d.Init)
			if !ok {
				return false
			}
			c.chunk.emit(OpMove, c.chunk.registerFor(id.Name), v, 0)
		}
		return true
	case *ast.IfStatement:
		testReg, ok := c.compileExpr(st.Test)
		if !ok {
			return false
		}
		jf := c.chunk.emit(OpJumpIfFalse, testReg, 0, 0)
		if !c.compileStatement(st.Consequent) {
			return false
		}
		if st.Alternate == nil {
			c.chunk.Code[jf].B = len(c.chunk.Code)
			return true
		}
		jEnd := c.chunk.emit(OpJump, 0, 0, 0)
		c.chunk.Code[jf].B = len(c.chunk.Code)
		if !c.compileStatement(st.Alternate) {
			return false
		}
		c.chunk.Code[jEnd].B = len(c.chunk.Code)
		return true
	case *ast.WhileStatement:
		return c.compileWhile(st)
	case *ast.ForStatement:
		return c.compileFor(st)
	case *ast.EmptyStatement:
		return true
	default:
		return false
	}
}

func (c *compiler) compileExpr(e ast.Expression) (int, bool) {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		r := c.chunk.allocRegister()
		c.chunk.emit(OpLoadConst, r, c.chunk.addConstant(n.Value), 0)
		return r, true
	case *ast.BooleanLiteral:
		r := c.chunk.allocRegister()
		val := 0.0
		if n.Value {
			val = 1
		}
		c.chunk.emit(OpLoadConst, r, c.chunk.addConstant(val), 0)
		return r, true
	case *ast.Identifier:
		return c.chunk.registerFor(n.Name), true
	case *ast.UnaryExpression:
		v, ok := c.compileExpr(n.Argument)
		if !ok {
			return 0, false
		}
		r := c.chunk.allocRegister()
		switch n.Operator {
		case "-":
			c.chunk.emit(OpNeg, r, v, 0)
		case "!":
			c.chunk.emit(OpNot, r, v, 0)
		case "+":
			c.chunk.emit(OpMove, r, v, 0)
		default:
			return 0, false
		}
		return r, true
	case *ast.UpdateExpression:
		id, ok := n.Argument.(*ast.Identifier)
		if !ok {
			return 0, false
		}
		reg := c.chunk.registerFor(id.Name)
		one := c.chunk.allocRegister()
		c.chunk.emit(OpLoadConst, one, c.chunk.addConstant(1), 0)
		old := c.chunk.allocRegister()
		c.chunk.emit(OpMove, old, reg, 0)
		if n.Operator == "++" {
			c.chunk.emit(OpAdd, reg, reg, one)
		} else {
			c.chunk.emit(OpSub, reg, reg, one)
		}
		if n.Prefix {
			return reg, true
		}
		return old, true
	case *ast.BinaryExpression:
		return c.compileBinary(n)
	case *ast.AssignmentExpression:
		id, ok := n.Target.(*ast.Identifier)
		if !ok {
			return 0, false
		}
		reg := c.chunk.registerFor(id.Name)
		if n.Operator == "=" {
			v, ok := c.compileExpr(n.Value)
			if !ok {
				return 0, false
			}
			c.chunk.emit(OpMove, reg, v, 0)
			return reg, true
		}
		op, ok := compoundOp(n.Operator)
		if !ok {
			return 0, false
		}
		v, ok := c.compileExpr(n.Value)
		if !ok {
			return 0, false
		}
		c.chunk.emit(op, reg, reg, v)
		return reg, true
	default:
		return 0, false
	}
}

func (c *compiler) compileBinary(n *ast.BinaryExpression) (int, bool) {
	l, ok := c.compileExpr(n.Left)
	if !ok {
		return 0, false
	}
	r, ok := c.compileExpr(n.Right)
	if !ok {
		return 0, false
	}
	op, ok := binaryOp(n.Operator)
	if !ok {
		return 0, false
	}
	dst := c.chunk.allocRegister()
	c.chunk.emit(op, dst, l, r)
	return dst, true
}

func binaryOp(op string) (OpCode, bool) {
	switch op {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "%":
		return OpMod, true
	case "<":
		return OpLess, true
	case "<=":
		return OpLessEq, true
	case ">":
		return OpGreater, true
	case ">=":
		return OpGreaterEq, true
	case "==", "===":
		return OpEqual, true
	case "!=", "!==":
		return OpNotEqual, true
	default:
		return 0, false
	}
}

func compoundOp(op string) (OpCode, bool) {
	switch op {
	case "+=":
		return OpAdd, true
	case "-=":
		return OpSub, true
	case "*=":
		return OpMul, true
	case "/=":
		return OpDiv, true
	case "%=":
		return OpMod, true
	default:
		return 0, false
	}
}
