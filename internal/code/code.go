package code

import (
	"encoding/binary"
	"fmt"
)

type Opcode byte

// Operands name stack slots (dst/src/fn), constant-pool indices
// (name/const) or inline immediates. Names are never referenced directly.
const (
	OpGetGlobal       Opcode = iota // dst, name: stack[dst] = globals[constants[name]]
	OpSetGlobal                     // name, src: globals[constants[name]] = stack[src]
	OpSetGlobalConst                // name, const: globals[constants[name]] = constants[const]
	OpSetGlobalGlobal               // name, srcName: globals[constants[name]] = globals[constants[srcName]]
	OpLoadConst                     // dst, const (2 bytes)
	OpLoadNil                       // dst
	OpLoadBool                      // dst, 0|1
	OpLoadInt                       // dst, int16 immediate (2 bytes)
	OpMove                          // dst, src
	OpCall                          // fn, nargs
)

type Instructions []byte

type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OpGetGlobal:       {"GetGlobal", []int{1, 1}},
	OpSetGlobal:       {"SetGlobal", []int{1, 1}},
	OpSetGlobalConst:  {"SetGlobalConst", []int{1, 1}},
	OpSetGlobalGlobal: {"SetGlobalGlobal", []int{1, 1}},
	OpLoadConst:       {"LoadConst", []int{1, 2}},
	OpLoadNil:         {"LoadNil", []int{1}},
	OpLoadBool:        {"LoadBool", []int{1, 1}},
	OpLoadInt:         {"LoadInt", []int{1, 2}},
	OpMove:            {"Move", []int{1, 1}},
	OpCall:            {"Call", []int{1, 1}},
}

// Operand limits implied by the widths above.
const (
	MaxSlot      = 1<<8 - 1
	MaxNameConst = 1<<8 - 1
	MaxConst     = 1<<16 - 1
	MinImmediate = -1 << 15
	MaxImmediate = 1<<15 - 1
)

func Lookup(op Opcode) (*Definition, bool) {
	def, ok := definitions[op]
	return def, ok
}

func (op Opcode) String() string {
	if def, ok := definitions[op]; ok {
		return def.Name
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

func Make(op Opcode, operands ...int) Instructions {
	def, ok := definitions[op]
	if !ok {
		return Instructions{}
	}
	insLen := 1
	for _, w := range def.OperandWidths {
		insLen += w
	}

	ins := make([]byte, insLen)
	ins[0] = byte(op)

	offset := 1
	for i, o := range operands {
		w := def.OperandWidths[i]
		switch w {
		case 1:
			ins[offset] = byte(o)
		case 2:
			binary.BigEndian.PutUint16(ins[offset:], uint16(o))
		}
		offset += w
	}
	return ins
}

func ReadUint16(ins Instructions) uint16 {
	return binary.BigEndian.Uint16(ins)
}

// ReadInt16 reads a two's-complement immediate.
func ReadInt16(ins Instructions) int16 {
	return int16(binary.BigEndian.Uint16(ins))
}

// SourcePos maps the instruction at Offset back to the source.
type SourcePos struct {
	Offset int
	Line   int
	Col    int
}
