package compiler

import "luast/internal/code"

// without copies ins minus the instructions starting at the offsets in
// drop. Debug positions follow their instruction to its new offset; those
// of dropped instructions are discarded.
func without(ins code.Instructions, pos []SourcePos, decoded []code.Instruction, drop map[int]bool) (code.Instructions, []SourcePos) {
	moved := make(map[int]int, len(decoded))
	out := make(code.Instructions, 0, len(ins))
	for i, in := range decoded {
		if drop[in.Offset] {
			continue
		}
		end := len(ins)
		if i+1 < len(decoded) {
			end = decoded[i+1].Offset
		}
		moved[in.Offset] = len(out)
		out = append(out, ins[in.Offset:end]...)
	}

	kept := make([]SourcePos, 0, len(pos))
	for _, p := range pos {
		if off, ok := moved[p.Offset]; ok {
			p.Offset = off
			kept = append(kept, p)
		}
	}
	return out, kept
}
