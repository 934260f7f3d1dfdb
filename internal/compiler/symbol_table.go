package compiler

type Symbol struct {
	Name  string
	Index int
}

// SymbolTable is the compile-time list of declared locals. A local's
// index is its stack slot. Names may repeat; later ones shadow earlier.
type SymbolTable struct {
	locals []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

func (st *SymbolTable) Define(name string) Symbol {
	st.locals = append(st.locals, name)
	return Symbol{Name: name, Index: len(st.locals) - 1}
}

// Resolve finds the most recently declared local called name.
func (st *SymbolTable) Resolve(name string) (Symbol, bool) {
	for i := len(st.locals) - 1; i >= 0; i-- {
		if st.locals[i] == name {
			return Symbol{Name: name, Index: i}, true
		}
	}
	return Symbol{}, false
}

func (st *SymbolTable) Len() int {
	return len(st.locals)
}

func (st *SymbolTable) truncate(n int) {
	st.locals = st.locals[:n]
}
