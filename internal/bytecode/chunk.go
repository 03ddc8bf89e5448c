package bytecode

// Chunk is one compiled unit: its own constant pool and variable-name
// table, cached per AST node by the JIT (spec §4.5: "Each compiled node
// owns a constant pool and a variable-name table. Bytecode is cached per
// AST node").
type Chunk struct {
	Code         []Instruction
	Constants    []float64
	NumRegisters int

	// callNames holds the intrinsic name for each OpCall in a table of its
	// own, separate from Constants; OpCall.B is an index into it, as
	// returned by addCallName.
	callNames []string

	// Locals maps a source variable name to the register that holds its
	// live value for the lifetime of this chunk. The bridge in
	// internal/interp seeds these registers from the enclosing Environment
	// before Run and writes them back after, so the bytecode tier is
	// transparent to code around it.
	Locals map[string]int
}

func newChunk() *Chunk {
	return &Chunk{Locals: map[string]int{}}
}

func (c *Chunk) emit(op OpCode, a, b, cc int) int {
	c.Code = append(c.Code, Instruction{Op: op, A: a, B: b, C: cc})
	return len(c.Code) - 1
}

func (c *Chunk) addConstant(v float64) int {
	for i, existing := range c.Constants {
		if existing == v {
			return i
		}
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

func (c *Chunk) allocRegister() int {
	r := c.NumRegisters
	c.NumRegisters++
	return r
}

// addCallName records an intrinsic name and returns its index for OpCall's
// B operand.
func (c *Chunk) addCallName(name string) int {
	c.callNames = append(c.callNames, name)
	return len(c.callNames) - 1
}

func (c *Chunk) registerFor(name string) int {
	if r, ok := c.Locals[name]; ok {
		return r
	}
	r := c.allocRegister()
	c.Locals[name] = r
	return r
}
