package js_ast

// Names are stored in an arena that belongs to the scope that declared them.
// Nodes never hold a Name directly. They hold a Ref, which identifies the
// declaring scope and the position of the name in that scope's arena. A Ref
// stays valid for as long as the program exists: scopes are never freed while
// passes run, and re-parenting a scope does not move its names.
type Ref struct {
	ScopeIndex uint32
	InnerIndex uint32
}

var InvalidRef Ref = Ref{^uint32(0), ^uint32(0)}

func (ref Ref) IsValid() bool {
	return ref != InvalidRef
}

type Name struct {
	// Unique within the declaring scope. This is the identifier emitted when
	// the name is not renamed.
	Ident string

	// The display form. Several names may share a short ident.
	ShortIdent string

	// The source-level name this binding came from. This is empty for names
	// the compiler synthesized from nothing, such as temporaries.
	OriginalName string

	// The handle of this name, which doubles as its stable internal id
	Ref Ref

	// If false, the code generator must emit "Ident" verbatim. Names in the
	// root scope are never obfuscatable since they are either reserved words
	// or globals that code outside this program refers to.
	Obfuscatable bool

	IsTemporary bool

	// Labels live in their own namespace and are never found by
	// "FindExistingName"
	IsLabel bool
}

// The registry of every scope in a program. A Ref is resolved by indexing
// into the scope it names, so every scope must be created through this table.
type NameTable struct {
	scopes []*Scope
}

func (t *NameTable) Get(ref Ref) *Name {
	return t.scopes[ref.ScopeIndex].names[ref.InnerIndex]
}

// Returns false for refs that don't name anything in this table, including
// refs from another program
func (t *NameTable) IsValidRef(ref Ref) bool {
	if ref.ScopeIndex >= uint32(len(t.scopes)) {
		return false
	}
	return ref.InnerIndex < uint32(len(t.scopes[ref.ScopeIndex].names))
}

// The scope that owns the arena slot of this ref
func (t *NameTable) ScopeOf(ref Ref) *Scope {
	return t.scopes[ref.ScopeIndex]
}

// Creates a scope with no parent. The lowering pass uses this for code whose
// final position is not known yet and attaches it later with "Rebase".
func (t *NameTable) NewDetachedScope(description string) *Scope {
	return t.newScope(ScopeFunction, nil, description)
}

func (t *NameTable) newScope(kind ScopeKind, parent *Scope, description string) *Scope {
	scope := &Scope{
		Kind:        kind,
		Parent:      parent,
		Description: description,
		Index:       uint32(len(t.scopes)),
		table:       t,
		members:     make(map[string]uint32),
	}
	t.scopes = append(t.scopes, scope)
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}
	return scope
}
