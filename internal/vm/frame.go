package vm

import (
	"fmt"

	"luast/internal/object"
)

// Frame is an active native call. Arguments are addressed relative to
// base, which is the absolute slot holding the callee.
type Frame struct {
	fn   *object.Builtin
	base int
	ip   int
}

func NewFrame(fn *object.Builtin, base, ip int) *Frame {
	return &Frame{fn: fn, base: base, ip: ip}
}

// String names the callee and the offset of the Call instruction.
func (f *Frame) String() string {
	return fmt.Sprintf("%s@%04d", f.fn.Name, f.ip)
}
