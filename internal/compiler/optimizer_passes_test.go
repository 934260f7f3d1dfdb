package compiler

import (
	"testing"

	"luast/internal/code"
)

func concat(ins ...code.Instructions) code.Instructions {
	out := code.Instructions{}
	for _, i := range ins {
		out = append(out, i...)
	}
	return out
}

func TestPeepholeDropsSelfMove(t *testing.T) {
	ins := concat(
		code.Make(code.OpLoadInt, 0, 1),
		code.Make(code.OpMove, 0, 0),
		code.Make(code.OpMove, 1, 0),
	)
	pos := []SourcePos{{Offset: 0, Line: 1}, {Offset: 4, Line: 2}, {Offset: 7, Line: 3}}

	out, outPos := peephole(ins, pos)
	want := concat(code.Make(code.OpLoadInt, 0, 1), code.Make(code.OpMove, 1, 0))
	if out.String() != want.String() {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if len(outPos) != 2 || outPos[1].Offset != 4 || outPos[1].Line != 3 {
		t.Fatalf("positions not remapped: %+v", outPos)
	}
}

func TestPeepholeDropsDeadGlobalStore(t *testing.T) {
	ins := concat(
		code.Make(code.OpSetGlobalConst, 0, 1),
		code.Make(code.OpSetGlobalConst, 0, 2),
	)

	out, _ := peephole(ins, nil)
	want := code.Make(code.OpSetGlobalConst, 0, 2)
	if out.String() != want.String() {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestPeepholeDropsOnlyOverwrittenStores(t *testing.T) {
	ins := concat(
		code.Make(code.OpSetGlobalConst, 0, 1),
		code.Make(code.OpSetGlobalGlobal, 2, 0),
		code.Make(code.OpSetGlobalConst, 2, 3),
	)

	out, _ := peephole(ins, nil)
	want := concat(
		code.Make(code.OpSetGlobalConst, 0, 1),
		code.Make(code.OpSetGlobalConst, 2, 3),
	)
	if out.String() != want.String() {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestPeepholeDropsSelfGlobalAssign(t *testing.T) {
	ins := concat(
		code.Make(code.OpSetGlobalGlobal, 4, 4),
		code.Make(code.OpGetGlobal, 0, 4),
	)

	out, _ := peephole(ins, nil)
	if out.String() != code.Make(code.OpGetGlobal, 0, 4).String() {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestOptimizeRejectsMalformedProgram(t *testing.T) {
	bc := &Bytecode{Instructions: code.Instructions{0xff}}
	if _, err := (&Optimizer{}).Optimize(bc); err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}
