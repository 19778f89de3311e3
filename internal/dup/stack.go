package dup

func (in *Interpreter) push(val int) {
	in.stack = append(in.stack, val)
}

func (in *Interpreter) pop() (val int) {
	i := len(in.stack) - 1
	if i < 0 {
		in.fault(ErrStackUnderflow)
	}
	val, in.stack = in.stack[i], in.stack[:i]
	return val
}

// pick returns the value n places below the top of the data stack.
func (in *Interpreter) pick(n int) int {
	i := len(in.stack) - 1 - n
	if n < 0 || i < 0 {
		in.fault(ErrStackUnderflow)
	}
	return in.stack[i]
}

func (in *Interpreter) rpush(vals ...int) {
	in.rstack = append(in.rstack, vals...)
}

func (in *Interpreter) rpop() (val int) {
	i := len(in.rstack) - 1
	if i < 0 {
		in.fault(ErrReturnUnderflow)
	}
	val, in.rstack = in.rstack[i], in.rstack[:i]
	return val
}

// jump sets the program counter; since the dispatch loop increments it after
// every character, jumping to a lambda's [ resumes just inside its body.
func (in *Interpreter) jump(pc int) {
	if pc < -1 {
		in.fault(ErrBadAddress)
	}
	in.pc = pc
}

// call saves the current PC for a later ] and jumps.
func (in *Interpreter) call(pc int) {
	in.rpush(in.pc)
	in.jump(pc)
}

// operand returns the program character following the current one,
// advancing past it.
func (in *Interpreter) operand() rune {
	in.pc++
	if in.pc >= len(in.program) {
		in.fault(ErrTruncated)
	}
	return in.program[in.pc]
}

func (in *Interpreter) address(val int) uint {
	if val < 0 {
		in.fault(ErrBadAddress)
	}
	return uint(val)
}

func (in *Interpreter) load(addr int) int {
	val, err := in.mem.Load(in.address(addr))
	if err != nil {
		in.fault(err)
	}
	return val
}

func (in *Interpreter) stor(addr int, values ...int) {
	if err := in.mem.Stor(in.address(addr), values...); err != nil {
		in.fault(err)
	}
}

func boolInt(b bool) int {
	if b {
		return -1
	}
	return 0
}

// Push pushes a value onto the data stack; for use by host Commands.
func (in *Interpreter) Push(val int) { in.push(val) }

// Pop pops a value off the data stack, faulting the run on underflow; it is
// only valid within a Command called by a running program.
func (in *Interpreter) Pop() int { return in.pop() }
