package js_ast

import (
	"fmt"
	"strconv"
)

type ScopeKind uint8

const (
	// The single scope at the top of the tree. It holds the reserved
	// identifiers and every global the program declares.
	ScopeRoot ScopeKind = iota

	// Functions and detached scopes
	ScopeFunction

	// A catch clause. It binds only the caught exception. Every other
	// declaration made through it lands in the enclosing scope, since "var"
	// inside a catch body belongs to the function.
	ScopeCatch
)

func (kind ScopeKind) String() string {
	switch kind {
	case ScopeRoot:
		return "root"
	case ScopeFunction:
		return "function"
	case ScopeCatch:
		return "catch"
	default:
		panic("Internal error")
	}
}

type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope

	// Only used for debugging output and error messages
	Description string

	// The position of this scope in the name table. This is the "ScopeIndex"
	// of every ref declared here.
	Index uint32

	table *NameTable

	// The name arena in declaration order. Labels share the arena but are not
	// entered in "members".
	names   []*Name
	members map[string]uint32

	tempIndex int

	// The labels that are currently in effect, innermost last
	labels []Ref
}

func (s *Scope) String() string {
	return fmt.Sprintf("%s scope %q", s.Kind, s.Description)
}

func (s *Scope) NameTable() *NameTable {
	return s.table
}

func (s *Scope) NewFunctionScope(description string) *Scope {
	return s.table.newScope(ScopeFunction, s, description)
}

// Creates a catch scope that binds "ident" to the caught exception
func (s *Scope) NewCatchScope(description string, ident string) *Scope {
	scope := s.table.newScope(ScopeCatch, s, description)
	scope.createName(ident, ident, ident)
	return scope
}

// The name of the caught exception
func (s *Scope) CatchParam() Ref {
	if s.Kind != ScopeCatch || len(s.names) == 0 {
		internalError(ErrInvalidArgument, "%s has no catch parameter", s)
	}
	return s.names[0].Ref
}

func (s *Scope) Name(ref Ref) *Name {
	return s.table.Get(ref)
}

func (s *Scope) HasOwnName(ident string) bool {
	_, ok := s.members[ident]
	return ok
}

// Looks for "ident" in this scope only
func (s *Scope) OwnName(ident string) (Ref, bool) {
	if inner, ok := s.members[ident]; ok {
		return s.names[inner].Ref, true
	}
	return InvalidRef, false
}

// Every name declared in this scope in declaration order, excluding labels
func (s *Scope) OwnNames() []Ref {
	refs := make([]Ref, 0, len(s.members))
	for _, name := range s.names {
		if !name.IsLabel {
			refs = append(refs, name.Ref)
		}
	}
	return refs
}

// Returns the name for "ident" in this scope, creating it if this scope
// doesn't have one yet. Ancestors are not searched. The new name uses "ident"
// as both its short ident and its original name.
func (s *Scope) DeclareName(ident string) Ref {
	if s.Kind == ScopeCatch {
		return s.forwardTarget(ident).DeclareName(ident)
	}
	if ref, ok := s.OwnName(ident); ok {
		return ref
	}
	return s.createName(ident, ident, ident)
}

// Like "DeclareName", but an existing name must agree with the requested
// short ident and original name. Disagreement means the lowering pass lost
// track of what it declared.
func (s *Scope) DeclareNameWithShort(ident string, shortIdent string, originalName string) Ref {
	if s.Kind == ScopeCatch {
		return s.forwardTarget(ident).DeclareNameWithShort(ident, shortIdent, originalName)
	}
	if ref, ok := s.OwnName(ident); ok {
		name := s.names[ref.InnerIndex]
		if name.ShortIdent != shortIdent {
			internalError(ErrInvalidArgument,
				"Requested short name %q conflicts with preexisting short name %q for identifier %q in %s",
				shortIdent, name.ShortIdent, ident, s)
		}
		if name.OriginalName != originalName {
			internalError(ErrInvalidArgument,
				"Requested original name %q conflicts with preexisting original name %q for identifier %q in %s",
				originalName, name.OriginalName, ident, s)
		}
		return ref
	}
	return s.createName(ident, shortIdent, originalName)
}

// Declares a name that is guaranteed not to exist in this scope yet. The
// ident is "hint" if that is free, otherwise "hint_0", "hint_1", and so on.
// Uniqueness only holds within this scope, not across the program. Characters
// that can't appear in an identifier are replaced with "_" first.
func (s *Scope) DeclareFreshName(hint string) Ref {
	target, taken := s.freshTarget()
	ident := freshIdent(ForceValidIdentifier(hint), taken)
	return target.createName(ident, ident, hint)
}

// Declares a compiler temporary. Temporaries are numbered by a counter that
// belongs to the scope receiving the declaration, so repeated calls never
// reuse an ident within that scope.
func (s *Scope) DeclareTemporary() Ref {
	target, taken := s.freshTarget()
	hint := "tmp$" + strconv.Itoa(target.tempIndex)
	target.tempIndex++
	ident := freshIdent(hint, taken)
	ref := target.createName(ident, ident, "")
	target.names[ref.InnerIndex].IsTemporary = true
	return ref
}

// Looks for "ident" in this scope and then in each ancestor. The nearest
// binding wins.
func (s *Scope) FindExistingName(ident string) (Ref, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if ref, ok := scope.OwnName(ident); ok {
			return ref, true
		}
	}
	return InvalidRef, false
}

// Like "FindExistingName" but ignores bindings that may be renamed. This is
// how references that must bind to a protected global are resolved even when
// a local binding with the same ident is closer.
func (s *Scope) FindExistingUnobfuscatableName(ident string) (Ref, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if ref, ok := scope.OwnName(ident); ok && !scope.names[ref.InnerIndex].Obfuscatable {
			return ref, true
		}
	}
	return InvalidRef, false
}

// Moves this scope under "newParent". The name table is untouched, so refs
// into this scope stay valid. This must not be called while a visitor is
// walking the function that owns the scope.
func (s *Scope) Rebase(newParent *Scope) {
	if s.Kind == ScopeRoot {
		internalError(ErrInvalidArgument, "Cannot rebase the root scope")
	}
	if newParent == nil {
		internalError(ErrInvalidArgument, "Cannot rebase %s onto nothing (use Detach instead)", s)
	}
	if newParent.table != s.table {
		internalError(ErrInvalidArgument, "Cannot rebase %s onto a scope from another program", s)
	}
	if s.isAncestorOf(newParent) {
		internalError(ErrCycle, "Cannot rebase %s onto its own descendant %s", s, newParent)
	}
	s.Detach()
	s.Parent = newParent
	newParent.Children = append(newParent.Children, s)
}

// Moves every child of this scope under "newParent", leaving this scope
// without children. Used when a function is inlined into another one.
func (s *Scope) RebaseChildren(newParent *Scope) {
	if newParent == nil {
		internalError(ErrInvalidArgument, "Cannot rebase the children of %s onto nothing", s)
	}
	if newParent.table != s.table {
		internalError(ErrInvalidArgument, "Cannot rebase the children of %s onto a scope from another program", s)
	}
	if newParent == s {
		return
	}
	for _, child := range s.Children {
		if child.isAncestorOf(newParent) {
			internalError(ErrCycle, "Cannot rebase %s onto its own descendant %s", child, newParent)
		}
	}
	for _, child := range s.Children {
		child.Parent = newParent
		newParent.Children = append(newParent.Children, child)
	}
	s.Children = nil
}

// Removes this scope from its parent's children. Names declared here remain
// resolvable through the name table.
func (s *Scope) Detach() {
	parent := s.Parent
	if parent == nil {
		return
	}
	for i, child := range parent.Children {
		if child == s {
			parent.Children = append(parent.Children[:i:i], parent.Children[i+1:]...)
			break
		}
	}
	s.Parent = nil
}

// Enters a labeled statement. The label's ident is unique among the labels
// currently in effect in this function, so nested labels with the same
// source name don't shadow each other after renaming.
func (s *Scope) EnterLabel(ident string) Ref {
	target := s.declarationScope()
	label := ident
	for i := 0; target.hasActiveLabel(label); i++ {
		label = ident + "_" + strconv.Itoa(i)
	}
	ref := Ref{ScopeIndex: target.Index, InnerIndex: uint32(len(target.names))}
	target.names = append(target.names, &Name{
		Ident:        label,
		ShortIdent:   label,
		OriginalName: ident,
		Ref:          ref,
		Obfuscatable: target.Kind != ScopeRoot,
		IsLabel:      true,
	})
	target.labels = append(target.labels, ref)
	return ref
}

func (s *Scope) ExitLabel() {
	target := s.declarationScope()
	if len(target.labels) == 0 {
		internalError(ErrUnsupportedOperation, "No label to exit in %s", target)
	}
	target.labels = target.labels[:len(target.labels)-1]
}

// Finds the innermost active label with the source name "ident"
func (s *Scope) FindLabel(ident string) (Ref, bool) {
	target := s.declarationScope()
	for i := len(target.labels) - 1; i >= 0; i-- {
		ref := target.labels[i]
		if target.names[ref.InnerIndex].OriginalName == ident {
			return ref, true
		}
	}
	return InvalidRef, false
}

func (s *Scope) hasActiveLabel(ident string) bool {
	for _, ref := range s.labels {
		if s.names[ref.InnerIndex].Ident == ident {
			return true
		}
	}
	return false
}

func (s *Scope) createName(ident string, shortIdent string, originalName string) Ref {
	if s.HasOwnName(ident) {
		internalError(ErrInvalidArgument, "Identifier %q is already declared in %s", ident, s)
	}
	if s.Kind == ScopeCatch && len(s.names) > 0 {
		internalError(ErrCatchScopeDeclare, "Cannot create %q directly in %s", ident, s)
	}
	ref := Ref{ScopeIndex: s.Index, InnerIndex: uint32(len(s.names))}
	s.names = append(s.names, &Name{
		Ident:        ident,
		ShortIdent:   shortIdent,
		OriginalName: originalName,
		Ref:          ref,
		Obfuscatable: s.Kind != ScopeRoot,
	})
	s.members[ident] = ref.InnerIndex
	return ref
}

func (s *Scope) forwardTarget(ident string) *Scope {
	if s.Parent == nil {
		internalError(ErrCatchScopeDeclare, "Cannot declare %q in %s because it has no parent", ident, s)
	}
	return s.Parent
}

// The first scope at or above this one that isn't a catch scope. That is
// where declarations made through this scope end up.
func (s *Scope) declarationScope() *Scope {
	scope := s
	for scope.Kind == ScopeCatch {
		scope = scope.forwardTarget("")
	}
	return scope
}

// Returns the scope that receives a fresh declaration made through this one
// and a predicate for idents that must be avoided. Declaring through a catch
// scope must also avoid the catch parameter, otherwise the new binding would
// be shadowed inside the catch body.
func (s *Scope) freshTarget() (*Scope, func(string) bool) {
	if s.Kind != ScopeCatch {
		return s, s.HasOwnName
	}
	var catches []*Scope
	scope := s
	for scope.Kind == ScopeCatch {
		catches = append(catches, scope)
		scope = scope.forwardTarget("")
	}
	target := scope
	return target, func(ident string) bool {
		for _, catch := range catches {
			if catch.HasOwnName(ident) {
				return true
			}
		}
		return target.HasOwnName(ident)
	}
}

func (s *Scope) isAncestorOf(scope *Scope) bool {
	for ; scope != nil; scope = scope.Parent {
		if scope == s {
			return true
		}
	}
	return false
}

func freshIdent(hint string, taken func(string) bool) string {
	ident := hint
	for i := 0; taken(ident); i++ {
		ident = hint + "_" + strconv.Itoa(i)
	}
	return ident
}
