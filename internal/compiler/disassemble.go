package compiler

import (
	"fmt"
	"strings"

	"luast/internal/object"
)

func FormatConstants(constants []object.Object) string {
	var b strings.Builder
	b.WriteString("== constants ==\n")
	for i, c := range constants {
		switch v := c.(type) {
		case *object.Integer:
			fmt.Fprintf(&b, "%04d INTEGER %d\n", i, v.Value)
		case *object.Float:
			fmt.Fprintf(&b, "%04d FLOAT %s\n", i, v.Inspect())
		case *object.String:
			fmt.Fprintf(&b, "%04d STRING %q\n", i, v.Value)
		case *object.Boolean:
			fmt.Fprintf(&b, "%04d BOOLEAN %v\n", i, v.Value)
		default:
			fmt.Fprintf(&b, "%04d %s %s\n", i, c.Type(), c.Inspect())
		}
	}
	return b.String()
}

// Dump renders a whole program: constants, locals and instructions.
func Dump(bc *Bytecode) string {
	var b strings.Builder
	b.WriteString(FormatConstants(bc.Constants))
	fmt.Fprintf(&b, "== locals: %d ==\n", bc.NumLocals)
	b.WriteString("== instructions ==\n")
	b.WriteString(bc.Instructions.String())
	return b.String()
}
