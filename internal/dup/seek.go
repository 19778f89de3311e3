package dup

// seek moves the PC to the next occurrence of r after it, or to the end of
// the program if there is none. The result is cached by starting PC.
func (in *Interpreter) seek(r rune) {
	start := in.pc
	end, cached := in.matches[start]
	if !cached {
		end = -1
		for i := start + 1; i < len(in.program); i++ {
			if in.program[i] == r {
				end = i
				break
			}
		}
		in.matches[start] = end
	}
	if end < 0 {
		in.jump(len(in.program))
	} else {
		in.jump(end)
	}
}

// seekRightBracket moves the PC from a [ to its matching ], stepping over
// nested lambdas, strings, comments, and character literals. Matches are
// cached by starting PC, including those of nested lambdas found along the
// way. An unmatched [ leaves the PC at the end of the program.
func (in *Interpreter) seekRightBracket() {
	start := in.pc
	if end, cached := in.matches[start]; cached {
		in.jump(end)
		return
	}
	for in.pc++; in.pc < len(in.program); in.pc++ {
		switch in.program[in.pc] {
		case ']':
			in.matches[start] = in.pc
			return
		case '[':
			in.seekRightBracket()
		case '"':
			in.seek('"')
		case '{':
			in.seek('}')
		case '\'':
			in.pc++
		}
	}
}
