package dup

// Command implements one character of the DUP language.
type Command func(in *Interpreter)

// The builtin command table is never mutated; every Reset copies it, so that
// one run's ⇒ redefinitions cannot leak into another run or interpreter.
//
// Stack effects are written FORTH style: ( a b -- a+b ) takes a and b, with b
// on top, and leaves their sum.
var builtins = map[rune]Command{
	'!':  (*Interpreter).execute,
	'#':  (*Interpreter).while,
	'$':  (*Interpreter).dup,
	'%':  (*Interpreter).drop,
	'&':  (*Interpreter).and,
	'\'': (*Interpreter).char,
	'(':  (*Interpreter).toR,
	')':  (*Interpreter).fromR,
	'*':  (*Interpreter).mul,
	'+':  (*Interpreter).add,
	',':  (*Interpreter).emit,
	'-':  (*Interpreter).sub,
	'.':  (*Interpreter).print,
	'/':  (*Interpreter).divmod,
	':':  (*Interpreter).set,
	';':  (*Interpreter).get,
	'<':  (*Interpreter).less,
	'=':  (*Interpreter).equal,
	'>':  (*Interpreter).greater,
	'?':  (*Interpreter).ifElse,
	'@':  (*Interpreter).rot,
	'[':  (*Interpreter).lambda,
	'\\': (*Interpreter).swap,
	']':  (*Interpreter).ret,
	'^':  (*Interpreter).over,
	'_':  (*Interpreter).negate,
	'`':  (*Interpreter).key,
	'{':  (*Interpreter).comment,
	'|':  (*Interpreter).xor,
	'~':  (*Interpreter).not,
	'«':  (*Interpreter).shl,
	'»':  (*Interpreter).shr,
	'ß':  (*Interpreter).flush,
	'ø':  (*Interpreter).pickn,
	'⇒':  (*Interpreter).define,
	'"':  (*Interpreter).str,
}

// Builtins returns a fresh copy of the builtin command table.
func Builtins() map[rune]Command {
	commands := make(map[rune]Command, len(builtins))
	for r, cmd := range builtins {
		commands[r] = cmd
	}
	return commands
}

//// Stack Operations

// Symbol   Name    Function
//    $     dup     ( a -- a a )
func (in *Interpreter) dup() { in.push(in.pick(0)) }

// Symbol   Name    Function
//    %     drop    ( a -- )
func (in *Interpreter) drop() { in.pop() }

// Symbol   Name    Function
//    \     swap    ( a b -- b a )
func (in *Interpreter) swap() { b, a := in.pop(), in.pop(); in.push(b); in.push(a) }

// Symbol   Name    Function
//    @     rot     ( a b c -- b c a )
func (in *Interpreter) rot() {
	c, b, a := in.pop(), in.pop(), in.pop()
	in.push(b)
	in.push(c)
	in.push(a)
}

// Symbol   Name    Function
//    ^     over    ( a b -- a b a )
func (in *Interpreter) over() { in.push(in.pick(1)) }

// Symbol   Name    Function
//    ø     pick    ( ... n -- ... v ) v is the value n below the top, once n
//                  has been taken off
func (in *Interpreter) pickn() { in.push(in.pick(in.pop())) }

// Symbol   Name    Function
//    (     to R    move the top of the data stack onto the return stack
//    )     from R  move the top of the return stack onto the data stack
func (in *Interpreter) toR()   { in.rpush(in.pop()) }
func (in *Interpreter) fromR() { in.push(in.rpop()) }

//// Arithmetic

func (in *Interpreter) add() { in.push(in.pop() + in.pop()) }
func (in *Interpreter) mul() { in.push(in.pop() * in.pop()) }

// Symbol   Name    Function
//    -     sub     ( a b -- a-b )
func (in *Interpreter) sub() { in.push(-in.pop() + in.pop()) }

// Symbol   Name    Function
//    _     negate  ( a -- -a )
func (in *Interpreter) negate() { in.push(-in.pop()) }

// Symbol   Name    Function
//    /     divmod  ( a b -- a%b a/b ) the quotient truncates toward zero and
//                  the remainder takes the sign of a
func (in *Interpreter) divmod() {
	den, num := in.pop(), in.pop()
	if den == 0 {
		in.fault(ErrDivideByZero)
	}
	in.push(num % den)
	in.push(num / den)
}

//// Bitwise

func (in *Interpreter) and() { in.push(in.pop() & in.pop()) }
func (in *Interpreter) xor() { in.push(in.pop() ^ in.pop()) }
func (in *Interpreter) not() { in.push(^in.pop()) }

// Symbol   Name    Function
//    «     shl     ( a n -- a<<n )
//    »     shr     ( a n -- a>>n ) shifting in zeros
func (in *Interpreter) shl() { n := in.shift(); in.push(in.pop() << n) }
func (in *Interpreter) shr() { n := in.shift(); in.push(int(uint(in.pop()) >> n)) }

func (in *Interpreter) shift() uint {
	n := in.pop()
	if n < 0 {
		in.fault(ErrNegativeShift)
	}
	return uint(n)
}

//// Comparison
//
// Booleans are 0 for false and -1 (all bits set) for true.

// Symbol   Name    Function
//    <     less    ( a b -- a<b )
//    =     equal   ( a b -- a=b )
//    >     greater ( a b -- a>b )
func (in *Interpreter) less()    { b, a := in.pop(), in.pop(); in.push(boolInt(b > a)) }
func (in *Interpreter) equal()   { in.push(boolInt(in.pop() == in.pop())) }
func (in *Interpreter) greater() { b, a := in.pop(), in.pop(); in.push(boolInt(b < a)) }

//// Memory

// Symbol   Name    Function
//    :     store   ( v addr -- )
//    ;     fetch   ( addr -- v )
func (in *Interpreter) set() { addr := in.pop(); in.stor(addr, in.pop()) }
func (in *Interpreter) get() { in.push(in.load(in.pop())) }

// Symbol   Name    Function
//    "     string  ( addr -- addr+n ) copies the n characters up to the next "
//                  into memory at addr, one cell per character
func (in *Interpreter) str() {
	addr := in.pop()
	start := in.pc + 1
	in.seek('"')
	end := in.pc
	if end > len(in.program) {
		end = len(in.program)
	}
	text := in.program[start:end]
	if len(text) > 0 {
		cells := make([]int, len(text))
		for i, r := range text {
			cells[i] = int(r)
		}
		in.stor(addr, cells...)
	}
	in.push(addr + len(text))
}

//// Input/Output

// Symbol   Name    Function
//    '     char    push the code of the next program character, skipping it
func (in *Interpreter) char() { in.push(int(in.operand())) }

// Symbol   Name    Function
//    `     key     ( -- c ) read an input character, -1 at end of input
func (in *Interpreter) key() { in.push(in.read()) }

// Symbol   Name    Function
//    ,     emit    ( c -- ) write c as a character
//    .     print   ( n -- ) write n in decimal
func (in *Interpreter) emit()  { in.write(rune(in.pop())) }
func (in *Interpreter) print() { in.writeInt(in.pop()) }

// Symbol   Name    Function
//    ß     flush   flush any buffered output
func (in *Interpreter) flush() { in.haltif(in.out.Flush()) }

//// Control Flow

// Symbol   Name    Function
//    [     lambda  push the address of this [ and skip to its matching ]
func (in *Interpreter) lambda() {
	in.push(in.pc)
	in.seekRightBracket()
}

// Symbol   Name    Function
//    ]     return  pop the return stack into the program counter
func (in *Interpreter) ret() { in.jump(in.rpop()) }

// Symbol   Name    Function
//    !     exec    ( lambda -- ) call lambda
func (in *Interpreter) execute() { in.call(in.pop()) }

// Symbol   Name    Function
//    ?     if      ( flag true false -- ) call true unless flag is 0, else false
func (in *Interpreter) ifElse() {
	falseLambda, trueLambda, cond := in.pop(), in.pop(), in.pop()
	if cond != 0 {
		in.call(trueLambda)
	} else {
		in.call(falseLambda)
	}
}

// Symbol   Name    Function
//    {     comment skip to the next }
func (in *Interpreter) comment() { in.seek('}') }

// Symbol   Name    Function
//    ⇒     define  ( lambda -- ) bind the next program character to a call of
//                  lambda, for the rest of this run only
func (in *Interpreter) define() {
	lambda := in.pop()
	r := in.operand()
	in.commands[r] = func(in *Interpreter) { in.call(lambda) }
}

// Symbol   Name    Function
//    #     while   ( cond body -- ) call cond; while it leaves a non-zero
//                  flag, call body then cond again
//
// The loop runs as a trampoline through this same # character. Each call of
// cond or body is preceded by pushing a frame onto the return stack:
//
//	cond body flag pc pc-1
//
// The lambda's ] pops pc-1, so the dispatch loop comes back to this #, which
// recognizes the resumption by finding its own PC on top of the return stack.
// The flag records which lambda just ran: 0 for cond, 1 for body.
func (in *Interpreter) while() {
	var cond, body, flag int
	if n := len(in.rstack); n > 0 && in.rstack[n-1] == in.pc {
		in.rpop()
		flag = in.rpop()
		body = in.rpop()
		cond = in.rpop()
		if flag == 0 {
			if in.pop() == 0 {
				return
			}
			flag = 1
		} else {
			flag = 0
		}
	} else {
		body = in.pop()
		cond = in.pop()
	}

	lambda := cond
	if flag == 1 {
		lambda = body
	}
	in.rpush(cond, body, flag, in.pc, in.pc-1)
	in.jump(lambda)
}
