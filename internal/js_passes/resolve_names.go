package js_passes

import (
	"fmt"

	"github.com/jsir-dev/jsir/internal/helpers"
	"github.com/jsir-dev/jsir/internal/js_ast"
	"github.com/jsir-dev/jsir/internal/logger"
)

// Binds every unresolved, unqualified name reference to the nearest
// declaration in scope. References that nothing declares are implicit globals
// in JavaScript. They are declared in the root scope, which keeps them from
// being renamed, and a warning is logged since they are usually typos.
var ResolveNames = Pass{
	Name: "resolve names",
	Run:  resolveNames,
}

func resolveNames(log logger.Log, program *js_ast.Program) {
	r := &nameResolver{
		log:    log,
		root:   program.Scope,
		scopes: []*js_ast.Scope{program.Scope},
	}
	js_ast.AcceptProgram(r, program)
}

type nameResolver struct {
	js_ast.NoopVisitor
	fragmentTracker
	log    logger.Log
	root   *js_ast.Scope
	scopes []*js_ast.Scope
}

func (r *nameResolver) scope() *js_ast.Scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *nameResolver) Visit(node js_ast.Node, ctx *js_ast.Context) bool {
	r.enter(node)

	switch n := node.(type) {
	case *js_ast.EFunction:
		r.enterScope(n.Scope, "function")

	case *js_ast.Catch:
		r.enterScope(n.Scope, "catch clause")

	case *js_ast.ENameRef:
		if !n.IsResolved() && n.Qualifier == nil {
			r.resolve(n, ctx.Loc())
		}
	}

	return true
}

func (r *nameResolver) EndVisit(node js_ast.Node, ctx *js_ast.Context) {
	switch node.(type) {
	case *js_ast.EFunction, *js_ast.Catch:
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

func (r *nameResolver) enterScope(scope *js_ast.Scope, what string) {
	if scope == nil {
		panic(&js_ast.InternalError{
			Kind: js_ast.ErrInvalidArgument,
			Text: fmt.Sprintf("Found a %s without a scope inside %s", what, r.scope()),
		})
	}
	r.scopes = append(r.scopes, scope)
}

func (r *nameResolver) resolve(ref *js_ast.ENameRef, loc logger.Loc) {
	scope := r.scope()
	if found, ok := scope.FindExistingName(ref.Ident); ok {
		ref.Resolve(found)
		return
	}

	text := fmt.Sprintf("%q is not declared and will be treated as a global", ref.Ident)
	if suggestion, ok := helpers.MakeTypoDetector(visibleIdents(scope)).MaybeCorrectTypo(ref.Ident); ok {
		text += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	r.log.AddWarning(r.source(), loc, text)
	ref.Resolve(r.root.DeclareName(ref.Ident))
}

// Every identifier a reference in "scope" could bind to. Outer scopes come
// first so that a suggestion from a nearer scope wins.
func visibleIdents(scope *js_ast.Scope) []string {
	var chain []*js_ast.Scope
	for ; scope != nil; scope = scope.Parent {
		chain = append(chain, scope)
	}

	var idents []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, ref := range chain[i].OwnNames() {
			idents = append(idents, chain[i].Name(ref).Ident)
		}
	}
	return idents
}
