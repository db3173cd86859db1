package js_ast

import (
	"github.com/jsir-dev/jsir/internal/config"
	"github.com/jsir-dev/jsir/internal/logger"
)

// A program owns the root scope and an ordered list of fragments. Every
// fragment shares the root scope, so a global declared while lowering one
// fragment is visible to the others, but each fragment can be emitted and
// loaded on its own.
type Program struct {
	Names     *NameTable
	Scope     *Scope
	Fragments []*Fragment
}

// The global block of a fragment is always a block marked "IsGlobal"
type Fragment struct {
	GlobalBlock *SBlock

	// The file this fragment was lowered from, if any. Locations of nodes in
	// this fragment are offsets into this source.
	Source *logger.Source
}

func (*Program) Kind() Kind  { return KindProgram }
func (*Fragment) Kind() Kind { return KindFragment }

type Options struct {
	reservedNames []string
}

func OptionsFromConfig(options *config.Options) Options {
	return Options{
		reservedNames: options.ReservedNames,
	}
}

// The root scope is fully populated before this returns. Every reserved
// identifier already has a name, so lookups never create anything behind the
// caller's back.
func NewProgram(options Options) *Program {
	names := &NameTable{}
	root := names.newScope(ScopeRoot, nil, "root")
	populateRootScope(root, options.reservedNames)

	program := &Program{Names: names, Scope: root}
	program.AddFragment()
	return program
}

func (p *Program) AddFragment() *Fragment {
	fragment := &Fragment{GlobalBlock: &SBlock{IsGlobal: true}}
	p.Fragments = append(p.Fragments, fragment)
	return fragment
}

// The global block of the first fragment
func (p *Program) GlobalBlock() *SBlock {
	return p.Fragments[0].GlobalBlock
}

func (p *Program) Name(ref Ref) *Name {
	return p.Names.Get(ref)
}
