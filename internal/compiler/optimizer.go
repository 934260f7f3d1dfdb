package compiler

import "luast/internal/code"

type Optimizer struct{}

// Optimize rewrites bc in place. Only whole programs should be optimized:
// offsets change, so a program being extended incrementally must not be.
func (o *Optimizer) Optimize(bc *Bytecode) (*Bytecode, error) {
	if err := optimizeInstructions(&bc.Instructions, &bc.Debug.Pos); err != nil {
		return nil, err
	}
	return bc, nil
}

func optimizeInstructions(ins *code.Instructions, pos *[]SourcePos) error {
	if _, err := ins.Decode(); err != nil {
		return err
	}
	*ins, *pos = peephole(*ins, *pos)
	return nil
}
