package code

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0

	for i, w := range def.OperandWidths {
		switch w {
		case 1:
			operands[i] = int(ins[offset])
		case 2:
			operands[i] = int(binary.BigEndian.Uint16(ins[offset:]))
		default:
			panic("unsupported operand width")
		}
		offset += w
	}
	return operands, offset
}

// Instruction is one decoded instruction.
type Instruction struct {
	Offset   int
	Op       Opcode
	Operands []int
}

// Decode splits ins into instructions. It fails on an unknown opcode or a
// truncated operand.
func (ins Instructions) Decode() ([]Instruction, error) {
	var out []Instruction
	i := 0
	for i < len(ins) {
		op := Opcode(ins[i])
		def, ok := Lookup(op)
		if !ok {
			return out, fmt.Errorf("unknown opcode %d at %04d", op, i)
		}
		width := 0
		for _, w := range def.OperandWidths {
			width += w
		}
		if i+1+width > len(ins) {
			return out, fmt.Errorf("truncated %s at %04d", def.Name, i)
		}
		operands, read := ReadOperands(def, ins[i+1:])
		if op == OpLoadInt {
			operands[1] = int(int16(operands[1]))
		}
		out = append(out, Instruction{Offset: i, Op: op, Operands: operands})
		i += 1 + read
	}
	return out, nil
}

// Count returns the number of well-formed instructions in ins.
func (ins Instructions) Count() int {
	decoded, _ := ins.Decode()
	return len(decoded)
}

func (ins Instructions) String() string {
	var out bytes.Buffer

	i := 0
	for i < len(ins) {
		op := Opcode(ins[i])
		def, ok := Lookup(op)
		if !ok {
			fmt.Fprintf(&out, "%04d UNKNOWN_OPCODE %d\n", i, op)
			i++
			continue
		}

		operands, read := ReadOperands(def, Instructions(ins[i+1:]))
		if op == OpLoadInt {
			operands[1] = int(int16(operands[1]))
		}

		fmt.Fprintf(&out, "%04d %s", i, def.Name)
		for _, o := range operands {
			fmt.Fprintf(&out, " %d", o)
		}
		fmt.Fprintf(&out, "\n")

		i += 1 + read
	}

	return out.String()
}
