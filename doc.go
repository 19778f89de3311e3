/* Package main: dup -- a FALSE dialect with a debugger's eye

DUP is a descendant of Wouter van Oortmerssen's FALSE: a stack language whose
every command is a single character. A program is a string; the interpreter
walks it one character at a time, keeping a data stack, a return stack, and a
sparse memory of integer cells that start out as zero.

Numbers are written as runs of decimal digits and pushed when the run ends.
Whitespace separates things and is otherwise ignored. Any character that is
not a digit, whitespace, or a command pushes its own code point, so a program
like "a." prints 97.

Stack shuffling:

	$  dup     a -- a a
	%  drop    a --
	\  swap    a b -- b a
	@  rot     a b c -- b c a
	^  over    a b -- a b a
	ø  pick    n -- v      copy the n-th item below the index, 0 is top

Arithmetic and logic, where true is -1 and false is 0:

	+ - * /    a b -- c    / pushes the remainder, then the quotient
	_          a -- -a
	& | ~      and, xor, not
	« »        shift left, logical shift right
	< = >      compare a to b

Memory and the return stack:

	:  v a --    store v at address a
	;  a -- v    fetch the cell at address a
	(  v --      move a value to the return stack
	)  -- v      move it back

Input and output:

	.  print the top of the stack as a decimal number
	,  write the top of the stack as a character
	`  read a character from the input, -1 at end
	ß  flush output

Lambdas are bracketed code. "[" pushes the address of its own bracket and
skips to the matching "]"; "!" calls a lambda, and "]" returns from one.
There are no other control structures:

	?  cond body --       call body when cond is non-zero
	#  cond body --       while: call cond, and body while cond leaves non-zero

So a factorial of 5 is:

	1 5[$0>][$@*\1-]#%.

The "while" operator is the interesting one. It cannot simply call its
condition and loop in Go: the condition and body are ordinary lambdas that
return through the "]" operator by popping the return stack. Instead "#" leaves
a five cell frame on the return stack (condition, body, a flag saying which ran
last, its own position, and the return address for the lambda) and re-enters
itself each time a lambda returns to it, deciding what to run next from the
flag.

Text helpers:

	'c     push the character c
	"..."  copy the string into memory at the address on the stack, leaving
	       the address just past it
	{...}  comment

Finally, "⇒" extends the language: "[...]⇒x" binds the character x to the
lambda for the rest of the run. Definitions never outlive the run that made
them.

Every run is bounded to a fixed number of cycles; a program that runs away
has the banner "*** Program Runtime Exceeded ***" appended to its output and
stops. Runs record a trace of every operator and implicit push, with a little
of the program text on either side, which is what the -trace-out and
-show-trace flags save and print.

Usage:

	dup [flags] [file ...]
	dup -e '1 2+.'
	dup -repl

See internal/dup for the interpreter.
*/
package main
