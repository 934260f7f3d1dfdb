package compiler

import "luast/internal/code"

// peephole removes instructions without observable effect until none are
// left.
func peephole(ins code.Instructions, pos []SourcePos) (code.Instructions, []SourcePos) {
	for {
		decoded, err := ins.Decode()
		if err != nil {
			return ins, pos
		}
		drop := map[int]bool{}
		for i, in := range decoded {
			if dead(in, decoded[i+1:]) {
				drop[in.Offset] = true
			}
		}
		if len(drop) == 0 {
			return ins, pos
		}
		ins, pos = without(ins, pos, decoded, drop)
	}
}

func dead(in code.Instruction, rest []code.Instruction) bool {
	switch in.Op {
	case code.OpMove:
		// Move x x
		return in.Operands[0] == in.Operands[1]
	case code.OpSetGlobalGlobal:
		// x = x
		if in.Operands[0] == in.Operands[1] {
			return true
		}
	case code.OpSetGlobal, code.OpSetGlobalConst:
	default:
		return false
	}
	// A global store overwritten by the very next instruction is dead,
	// unless that instruction reads the global first.
	return len(rest) > 0 && overwritesGlobal(rest[0], in.Operands[0])
}

func overwritesGlobal(next code.Instruction, name int) bool {
	switch next.Op {
	case code.OpSetGlobal, code.OpSetGlobalConst:
		return next.Operands[0] == name
	case code.OpSetGlobalGlobal:
		return next.Operands[0] == name && next.Operands[1] != name
	}
	return false
}
