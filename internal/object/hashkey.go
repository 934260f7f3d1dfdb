package object

import "math"

type HashKey struct {
	Type  Type
	Value uint64
}

// Hashable values can be deduplicated in a constant pool by key. Equal
// keys do not imply Equal values for strings; callers confirm with Equal.
type Hashable interface {
	HashKey() HashKey
}

func (s *String) HashKey() HashKey {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	var h uint64 = offset64
	for i := 0; i < len(s.Value); i++ {
		h ^= uint64(s.Value[i])
		h *= prime64
	}
	return HashKey{Type: STRING_OBJ, Value: h}
}

func (i *Integer) HashKey() HashKey {
	return HashKey{Type: INTEGER_OBJ, Value: uint64(i.Value)}
}

func (f *Float) HashKey() HashKey {
	return HashKey{Type: FLOAT_OBJ, Value: math.Float64bits(f.Value)}
}

func (b *Boolean) HashKey() HashKey {
	var v uint64
	if b.Value {
		v = 1
	}
	return HashKey{Type: BOOLEAN_OBJ, Value: v}
}

func (*Nil) HashKey() HashKey {
	return HashKey{Type: NIL_OBJ}
}
