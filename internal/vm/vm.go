package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"luast/internal/code"
	"luast/internal/compiler"
	"luast/internal/diag"
	"luast/internal/limits"
	"luast/internal/object"
)

const (
	CodeInvalidGlobalKey = "RT0001"
	CodeNotCallable      = "RT0002"
	CodeStackBounds      = "RT0003"
	CodeMissingConstant  = "RT0004"
	CodeUnknownOpcode    = "RT0005"
	CodeStepLimit        = "RT0006"
)

const MaxFrames = 1024

var log = commonlog.GetLogger("luast.vm")

// RuntimeError is a fault raised while executing a program. Execution
// stops at the first one; the stack and globals are left as they were.
type RuntimeError struct {
	Code   string
	Msg    string
	Op     code.Opcode
	Offset int
	File   string
	Line   int
	Col    int
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("at %04d: %s", e.Offset, e.Msg)
}

func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Code:     e.Code,
		Message:  e.Msg,
		Severity: diag.SeverityError,
		Range:    diag.Range{Line: e.Line, Col: e.Col, Length: 1},
	}
}

type VM struct {
	globals map[string]object.Object
	stack   []object.Object

	// base is the frame base of the code being executed. Top-level code
	// runs at base 0; instruction slot operands are relative to it.
	base int

	frames      []*Frame
	framesIndex int

	out   io.Writer
	trace bool
	steps *limits.Budget
}

func New() *VM {
	m := &VM{
		globals: make(map[string]object.Object, len(builtins)),
		stack:   make([]object.Object, 0, 256),
		frames:  make([]*Frame, MaxFrames),
		out:     os.Stdout,
		steps:   limits.NewBudget(0),
	}
	for _, b := range builtins {
		m.globals[b.Name] = b
	}
	return m
}

// SetOutput redirects what builtins write.
func (m *VM) SetOutput(w io.Writer) {
	if w != nil {
		m.out = w
	}
}

// SetTrace logs every instruction at debug level before it runs.
func (m *VM) SetTrace(trace bool) {
	m.trace = trace
}

// SetMaxSteps caps the instructions one Execute call may run. Zero removes
// the cap.
func (m *VM) SetMaxSteps(n int64) {
	m.steps = limits.NewBudget(n)
}

// Steps reports how many instructions the last Execute call ran.
func (m *VM) Steps() int64 {
	return m.steps.Used()
}

// Global returns the value bound to name, or Nil.
func (m *VM) Global(name string) object.Object {
	if v, ok := m.globals[name]; ok {
		return v
	}
	return object.NilValue
}

func (m *VM) SetGlobal(name string, v object.Object) {
	m.globals[name] = v
}

// Stack returns a copy of the operand stack.
func (m *VM) Stack() []object.Object {
	return append([]object.Object(nil), m.stack...)
}

// StackTop returns the highest occupied slot, or nil when the stack is empty.
func (m *VM) StackTop() object.Object {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Arg returns argument n of the native call in progress. Argument 1 is
// the slot right after the callee.
func (m *VM) Arg(n int) object.Object {
	if m.framesIndex == 0 {
		return object.NilValue
	}
	idx := m.frames[m.framesIndex-1].base + n
	if idx < 0 || idx >= len(m.stack) {
		return object.NilValue
	}
	return m.stack[idx]
}

func (m *VM) Stdout() io.Writer {
	return m.out
}

func (m *VM) Execute(bc *compiler.Bytecode) error {
	return m.ExecuteFrom(bc, 0)
}

// ExecuteFrom runs bc starting at instruction offset ip. It lets a caller
// that keeps appending to one program run only the new instructions.
func (m *VM) ExecuteFrom(bc *compiler.Bytecode, ip int) error {
	ins := bc.Instructions
	log.Debugf("executing %d bytes from offset %d", len(ins), ip)
	m.steps.Reset()

	for ip < len(ins) {
		start := ip
		op := code.Opcode(ins[ip])
		def, ok := code.Lookup(op)
		if !ok {
			return m.fault(bc, start, op, CodeUnknownOpcode, "unknown opcode %d", byte(op))
		}
		width := 0
		for _, w := range def.OperandWidths {
			width += w
		}
		if ip+1+width > len(ins) {
			return m.fault(bc, start, op, CodeUnknownOpcode, "truncated %s instruction", def.Name)
		}
		if m.trace {
			operands, _ := code.ReadOperands(def, ins[ip+1:])
			log.Debugf("%04d %s %v (stack %d)", start, def.Name, operands, len(m.stack))
		}
		ip += 1 + width
		if err := m.steps.Charge(1); err != nil {
			return m.fault(bc, start, op, CodeStepLimit, "%s", err)
		}

		switch op {
		case code.OpGetGlobal:
			dst := int(ins[start+1])
			name, err := m.globalName(bc, start, op, int(ins[start+2]))
			if err != nil {
				return err
			}
			if err := m.setStack(bc, start, op, dst, m.Global(name)); err != nil {
				return err
			}

		case code.OpSetGlobal:
			name, err := m.globalName(bc, start, op, int(ins[start+1]))
			if err != nil {
				return err
			}
			v, err := m.getStack(bc, start, op, int(ins[start+2]))
			if err != nil {
				return err
			}
			m.globals[name] = v

		case code.OpSetGlobalConst:
			name, err := m.globalName(bc, start, op, int(ins[start+1]))
			if err != nil {
				return err
			}
			v, err := m.constant(bc, start, op, int(ins[start+2]))
			if err != nil {
				return err
			}
			m.globals[name] = v

		case code.OpSetGlobalGlobal:
			name, err := m.globalName(bc, start, op, int(ins[start+1]))
			if err != nil {
				return err
			}
			src, err := m.globalName(bc, start, op, int(ins[start+2]))
			if err != nil {
				return err
			}
			m.globals[name] = m.Global(src)

		case code.OpLoadConst:
			dst := int(ins[start+1])
			v, err := m.constant(bc, start, op, int(code.ReadUint16(ins[start+2:])))
			if err != nil {
				return err
			}
			if err := m.setStack(bc, start, op, dst, v); err != nil {
				return err
			}

		case code.OpLoadNil:
			if err := m.setStack(bc, start, op, int(ins[start+1]), object.NilValue); err != nil {
				return err
			}

		case code.OpLoadBool:
			v := object.NativeBool(ins[start+2] != 0)
			if err := m.setStack(bc, start, op, int(ins[start+1]), v); err != nil {
				return err
			}

		case code.OpLoadInt:
			v := &object.Integer{Value: int64(code.ReadInt16(ins[start+2:]))}
			if err := m.setStack(bc, start, op, int(ins[start+1]), v); err != nil {
				return err
			}

		case code.OpMove:
			v, err := m.getStack(bc, start, op, int(ins[start+2]))
			if err != nil {
				return err
			}
			if err := m.setStack(bc, start, op, int(ins[start+1]), v); err != nil {
				return err
			}

		case code.OpCall:
			if err := m.call(bc, start, op, int(ins[start+1]), int(ins[start+2])); err != nil {
				return err
			}

		default:
			return m.fault(bc, start, op, CodeUnknownOpcode, "unhandled opcode %s", def.Name)
		}
	}
	return nil
}

func (m *VM) call(bc *compiler.Bytecode, at int, op code.Opcode, fn, nargs int) error {
	callee, err := m.getStack(bc, at, op, fn)
	if err != nil {
		return err
	}
	b, ok := callee.(*object.Builtin)
	if !ok {
		return m.fault(bc, at, op, CodeNotCallable, "attempt to call a %s value", typeName(callee))
	}
	if m.framesIndex >= MaxFrames {
		return m.fault(bc, at, op, CodeStackBounds, "too many nested calls")
	}

	frame := NewFrame(b, m.base+fn, at)
	m.frames[m.framesIndex] = frame
	m.framesIndex++
	status := frame.fn.Fn(m)
	m.framesIndex--
	m.frames[m.framesIndex] = nil

	log.Debugf("call %s base %d with %d argument(s) returned %d", frame, frame.base, nargs, status)
	return nil
}

// setStack writes v at slot dst of the current frame: at the top it
// appends, below it overwrites, above it faults.
func (m *VM) setStack(bc *compiler.Bytecode, at int, op code.Opcode, dst int, v object.Object) error {
	idx := m.base + dst
	switch {
	case idx == len(m.stack):
		m.stack = append(m.stack, v)
	case idx < len(m.stack):
		m.stack[idx] = v
	default:
		return m.fault(bc, at, op, CodeStackBounds,
			"stack write to slot %d past top %d", dst, len(m.stack)-m.base)
	}
	return nil
}

func (m *VM) getStack(bc *compiler.Bytecode, at int, op code.Opcode, src int) (object.Object, error) {
	idx := m.base + src
	if idx >= len(m.stack) {
		return nil, m.fault(bc, at, op, CodeStackBounds,
			"stack read of slot %d past top %d", src, len(m.stack)-m.base)
	}
	return m.stack[idx], nil
}

func (m *VM) constant(bc *compiler.Bytecode, at int, op code.Opcode, idx int) (object.Object, error) {
	if idx >= len(bc.Constants) {
		return nil, m.fault(bc, at, op, CodeMissingConstant, "missing constant %d", idx)
	}
	return bc.Constants[idx], nil
}

// globalName resolves a constant used as a global key. Keys must be strings.
func (m *VM) globalName(bc *compiler.Bytecode, at int, op code.Opcode, idx int) (string, error) {
	c, err := m.constant(bc, at, op, idx)
	if err != nil {
		return "", err
	}
	switch key := c.(type) {
	case *object.String:
		return key.Value, nil
	default:
		return "", m.fault(bc, at, op, CodeInvalidGlobalKey, "invalid global key %s", typeName(c))
	}
}

func (m *VM) fault(bc *compiler.Bytecode, at int, op code.Opcode, errCode, format string, args ...any) *RuntimeError {
	err := &RuntimeError{
		Code:   errCode,
		Msg:    fmt.Sprintf(format, args...),
		Op:     op,
		Offset: at,
		File:   bc.Debug.File,
	}
	if pos, ok := bc.Debug.PosAt(at); ok {
		err.Line = pos.Line
		err.Col = pos.Col
	}
	log.Debugf("fault at %04d: %s", at, err.Msg)
	return err
}

func typeName(o object.Object) string {
	switch o.(type) {
	case *object.Nil:
		return "nil"
	case *object.Boolean:
		return "boolean"
	case *object.Integer, *object.Float:
		return "number"
	case *object.String:
		return "string"
	case *object.Builtin:
		return "function"
	default:
		return string(o.Type())
	}
}
