package object

import (
	"io"
	"math"
	"strconv"
	"strings"
)

type Type string

const (
	NIL_OBJ     Type = "NIL"
	BOOLEAN_OBJ Type = "BOOLEAN"
	INTEGER_OBJ Type = "INTEGER"
	FLOAT_OBJ   Type = "FLOAT"
	STRING_OBJ  Type = "STRING"
	BUILTIN_OBJ Type = "BUILTIN"
)

// Object is a runtime value. Inspect renders the value the way print does.
type Object interface {
	Type() Type
	Inspect() string
}

type Nil struct{}

func (*Nil) Type() Type      { return NIL_OBJ }
func (*Nil) Inspect() string { return "Nil" }

type Boolean struct{ Value bool }

func (*Boolean) Type() Type { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type Integer struct{ Value int64 }

func (*Integer) Type() Type        { return INTEGER_OBJ }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

type Float struct{ Value float64 }

func (*Float) Type() Type { return FLOAT_OBJ }

// Inspect always marks the value as a float: 3.0 prints as "3.0", not "3".
// Magnitudes from 1e-4 up to 1e16 print in positional notation; the rest
// use an exponent without sign or padding, as in "1e16" and "1.5e-5".
func (f *Float) Inspect() string {
	v := f.Value
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
		n, _ := strconv.Atoi(exp)
		return mant + "e" + strconv.Itoa(n)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type String struct{ Value string }

func (*String) Type() Type        { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }

// State is what a builtin sees of the machine calling it.
type State interface {
	// Arg returns the n-th argument of the current call, or Nil.
	Arg(n int) Object
	Stdout() io.Writer
}

// BuiltinFunction returns a status code; 0 means success.
type BuiltinFunction func(s State) int

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (*Builtin) Type() Type      { return BUILTIN_OBJ }
func (*Builtin) Inspect() string { return "Function" }

var NilValue = &Nil{}

func NativeBool(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

var (
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
)

// Equal compares values structurally. Values of different types are never
// equal, so Integer 1 and Float 1.0 differ. Builtins compare by identity.
func Equal(a, b Object) bool {
	switch x := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Integer:
		y, ok := b.(*Integer)
		return ok && x.Value == y.Value
	case *Float:
		y, ok := b.(*Float)
		return ok && math.Float64bits(x.Value) == math.Float64bits(y.Value)
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Builtin:
		y, ok := b.(*Builtin)
		return ok && x == y
	default:
		return false
	}
}
