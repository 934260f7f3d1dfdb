package code

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		op       Opcode
		operands []int
		expected []byte
	}{
		{OpGetGlobal, []int{0, 3}, []byte{byte(OpGetGlobal), 0, 3}},
		{OpLoadConst, []int{1, 65534}, []byte{byte(OpLoadConst), 1, 255, 254}},
		{OpLoadInt, []int{2, -2}, []byte{byte(OpLoadInt), 2, 255, 254}},
		{OpLoadNil, []int{4}, []byte{byte(OpLoadNil), 4}},
		{OpCall, []int{0, 1}, []byte{byte(OpCall), 0, 1}},
	}

	for _, tt := range tests {
		ins := Make(tt.op, tt.operands...)
		if len(ins) != len(tt.expected) {
			t.Fatalf("%s: wrong length. want=%d got=%d", tt.op, len(tt.expected), len(ins))
		}
		for i, b := range tt.expected {
			if ins[i] != b {
				t.Fatalf("%s: wrong byte at %d. want=%d got=%d", tt.op, i, b, ins[i])
			}
		}
	}
}

func TestInstructionsString(t *testing.T) {
	instructions := []Instructions{
		Make(OpGetGlobal, 0, 0),
		Make(OpLoadInt, 1, -7),
		Make(OpLoadConst, 1, 300),
		Make(OpCall, 0, 1),
	}

	expected := `0000 GetGlobal 0 0
0003 LoadInt 1 -7
0007 LoadConst 1 300
0011 Call 0 1
`

	concatted := Instructions{}
	for _, ins := range instructions {
		concatted = append(concatted, ins...)
	}

	if concatted.String() != expected {
		t.Fatalf("instructions wrongly formatted.\nwant=%q\ngot=%q", expected, concatted.String())
	}
}

func TestDecode(t *testing.T) {
	ins := Instructions{}
	ins = append(ins, Make(OpMove, 2, 0)...)
	ins = append(ins, Make(OpLoadBool, 3, 1)...)
	ins = append(ins, Make(OpLoadInt, 4, -32768)...)

	decoded, err := ins.Decode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 3 || ins.Count() != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(decoded))
	}
	if decoded[2].Op != OpLoadInt || decoded[2].Operands[1] != -32768 {
		t.Fatalf("unexpected immediate decode: %+v", decoded[2])
	}
	if decoded[1].Offset != 3 {
		t.Fatalf("expected offset 3, got %d", decoded[1].Offset)
	}

	if _, err := (Instructions{byte(OpCall), 0}).Decode(); err == nil {
		t.Fatal("expected truncated instruction error")
	}
	if _, err := (Instructions{0xff}).Decode(); err == nil {
		t.Fatal("expected unknown opcode error")
	}
}
