// Package symbol provides the scope stack and label set backing the
// declaration and use checks of the semantic analyzer.
package symbol

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is returned by [Table.Declare] when the name already exists in the innermost scope.
	ErrDuplicate = errors.New("already declared in this scope")
	// ErrNoScope is returned by [Table.Declare] when no scope is active.
	ErrNoScope = errors.New("no active scope")
)

// Category classifies what kind of entity a symbol represents.
type Category int

const (
	CatUnknown Category = iota
	CatVariable
	CatFunction
	CatProcedure
	CatType
	CatProgram
)

// String returns the string representation of Category.
func (c Category) String() string {
	switch c {
	case CatVariable:
		return "variable"
	case CatFunction:
		return "function"
	case CatProcedure:
		return "procedure"
	case CatType:
		return "type"
	case CatProgram:
		return "program"
	default:
		return "unknown"
	}
}

// ParseCategory returns the category named s as printed by [Category.String].
func ParseCategory(s string) (Category, bool) {
	for c := CatVariable; c <= CatProgram; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return CatUnknown, false
}

// Symbol is a declared entity.
type Symbol struct {
	Name     string
	Category Category
	// Type is the primitive type name the symbol resolves to. Empty for
	// programs, procedures and symbols whose type is not tracked.
	Type string
	Line int // Line of the declaration.
}

func (s Symbol) String() string {
	if s.Type != "" {
		return fmt.Sprintf("%s %s: %s (line %d)", s.Category, s.Name, s.Type, s.Line)
	}
	return fmt.Sprintf("%s %s (line %d)", s.Category, s.Name, s.Line)
}

// Scope maps names to symbols. Keys are unique within one scope.
type Scope map[string]Symbol

// Table is a stack of scopes. The innermost scope is the last pushed.
type Table struct {
	scopes []Scope
}

// NewTable returns a table holding exactly one, global, scope.
func NewTable() *Table {
	t := &Table{}
	t.EnterScope()
	return t
}

// EnterScope pushes an empty scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, make(Scope))
}

// ExitScope pops the innermost scope. Popping an empty stack does nothing.
func (t *Table) ExitScope() {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes[len(t.scopes)-1] = nil
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the number of scopes on the stack.
func (t *Table) Depth() int { return len(t.scopes) }

// Declare adds sym to the innermost scope. Only the innermost scope is
// checked for an existing symbol of the same name so declarations may
// shadow outer ones. The returned error wraps [ErrDuplicate] or [ErrNoScope].
func (t *Table) Declare(sym Symbol) error {
	if len(t.scopes) == 0 {
		return fmt.Errorf("declare %q: %w", sym.Name, ErrNoScope)
	}
	inner := t.scopes[len(t.scopes)-1]
	if prev, ok := inner[sym.Name]; ok {
		return fmt.Errorf("%s %q (line %d) %w as %s", sym.Category, sym.Name, sym.Line, ErrDuplicate, prev.Category)
	}
	inner[sym.Name] = sym
	return nil
}

// Lookup searches from the innermost scope outwards and returns the first
// symbol named name.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupLocal searches only the innermost scope.
func (t *Table) LookupLocal(name string) (Symbol, bool) {
	if len(t.scopes) == 0 {
		return Symbol{}, false
	}
	sym, ok := t.scopes[len(t.scopes)-1][name]
	return sym, ok
}

// Innermost returns the innermost scope, nil if the stack is empty.
// Callers should not modify it.
func (t *Table) Innermost() Scope {
	if len(t.scopes) == 0 {
		return nil
	}
	return t.scopes[len(t.scopes)-1]
}
