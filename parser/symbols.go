package parser

import "fmt"

// Symbol is one label binding: the address it resolves to, and whether a
// definition has actually been seen yet (a reference can be recorded before
// its definition, since resolution happens in a dedicated second pass).
type Symbol struct {
	Name    string
	Address int64
	Defined bool
}

// SymbolTable is the single label namespace a translation unit shares
// between its data and text sections.
type SymbolTable struct {
	symbols map[string]*Symbol
}

// NewSymbolTable constructs an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Define records name at addr. Redefining an already-defined label is an
// error; the table keeps the first definition.
func (t *SymbolTable) Define(name string, addr int64) error {
	if existing, ok := t.symbols[name]; ok && existing.Defined {
		return fmt.Errorf("duplicate label %q", name)
	}
	t.symbols[name] = &Symbol{Name: name, Address: addr, Defined: true}
	return nil
}

// Lookup resolves a label to its address.
func (t *SymbolTable) Lookup(name string) (int64, bool) {
	s, ok := t.symbols[name]
	if !ok || !s.Defined {
		return 0, false
	}
	return s.Address, true
}

// Names returns every defined label name, for cross-reference tooling.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.symbols))
	for n := range t.symbols {
		names = append(names, n)
	}
	return names
}
