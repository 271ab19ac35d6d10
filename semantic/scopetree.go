// Package semantic implements the two-pass semantic analysis of a
// parsed MiniPL program: a nested scope tree and a type checker that
// walks it.
package semantic

import "github.com/paavohuhtala/minipl-go/parser"

// ScopeKey identifies a scope within a ScopeTree. The global scope
// always has key 0.
type ScopeKey int

const GlobalScope ScopeKey = 0

// Symbol is a named binding within a scope: its declared type and
// whether it can currently be assigned to. Mutability is a flag on
// the symbol itself, not a separate shadow binding, so a for loop can
// toggle its loop variable's mutability for the duration of the body
// without introducing a second symbol of the same name.
type Symbol struct {
	Name    string
	Type    parser.TypeName
	Mutable bool
}

type scope struct {
	key      ScopeKey
	parent   ScopeKey
	symbols  map[string]*Symbol
	children []ScopeKey
}

// ScopeTree is an integer-keyed map of nested scopes. The global scope
// (key 0) is its own parent; every other scope is created as the
// child of exactly one parent, currently only by entering a for-loop
// body.
type ScopeTree struct {
	scopes map[ScopeKey]*scope
	nextID ScopeKey
}

// NewScopeTree creates a tree containing only the global scope.
func NewScopeTree() *ScopeTree {
	t := &ScopeTree{scopes: make(map[ScopeKey]*scope)}
	t.scopes[GlobalScope] = &scope{
		key:     GlobalScope,
		parent:  GlobalScope,
		symbols: make(map[string]*Symbol),
	}
	t.nextID = GlobalScope + 1
	return t
}

// AddChild allocates a new scope as a child of parent and returns its
// key.
func (t *ScopeTree) AddChild(parent ScopeKey) ScopeKey {
	key := t.nextID
	t.nextID++
	t.scopes[key] = &scope{
		key:     key,
		parent:  parent,
		symbols: make(map[string]*Symbol),
	}
	if p, ok := t.scopes[parent]; ok {
		p.children = append(p.children, key)
	}
	return key
}

// Parent returns the parent of a scope. The global scope is its own
// parent, which lookup uses as the walk's termination condition.
func (t *ScopeTree) Parent(key ScopeKey) ScopeKey {
	return t.scopes[key].parent
}

// Define inserts a new symbol directly into scope, without checking
// for a prior declaration — callers (the type checker) are
// responsible for redeclaration checks before calling Define.
func (t *ScopeTree) Define(key ScopeKey, name string, typ parser.TypeName, mutable bool) {
	t.scopes[key].symbols[name] = &Symbol{Name: name, Type: typ, Mutable: mutable}
}

// Lookup searches scope and then walks the parent chain, returning the
// nearest binding for name. Because the global scope is its own
// parent, the walk always terminates.
func (t *ScopeTree) Lookup(key ScopeKey, name string) (*Symbol, bool) {
	cur := key
	for {
		s := t.scopes[cur]
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
		if s.parent == cur {
			return nil, false
		}
		cur = s.parent
	}
}

// SetMutable flips the mutability flag of the nearest visible binding
// for name, used to toggle a for-loop variable immutable for the
// duration of its body and mutable again afterward.
func (t *ScopeTree) SetMutable(key ScopeKey, name string, mutable bool) {
	sym, ok := t.Lookup(key, name)
	if !ok {
		// The type checker guarantees the loop variable was already
		// declared and resolved before this is ever called.
		panic("semantic: SetMutable on undeclared symbol " + name)
	}
	sym.Mutable = mutable
}
