package js_passes

import (
	"fmt"

	"github.com/jsir-dev/jsir/internal/js_ast"
	"github.com/jsir-dev/jsir/internal/logger"
)

// Checks the structural rules that the tree types can't express on their own.
// Every violation is logged as an error. This pass never changes the tree.
var Validate = Pass{
	Name: "validate",
	Run:  validate,
}

func validate(log logger.Log, program *js_ast.Program) {
	v := &validator{
		log:   log,
		names: program.Names,
	}
	js_ast.AcceptProgram(v, program)
}

type validator struct {
	fragmentTracker
	log   logger.Log
	names *js_ast.NameTable

	// The nodes currently being visited, innermost last
	parents []js_ast.Node
}

func (v *validator) addError(loc logger.Loc, format string, args ...interface{}) {
	v.log.AddError(v.source(), loc, fmt.Sprintf(format, args...))
}

func (v *validator) checkRef(loc logger.Loc, ref js_ast.Ref, what string) {
	if !v.names.IsValidRef(ref) {
		v.addError(loc, "The %s refers to a name that does not exist in this program", what)
	}
}

func (v *validator) checkScope(loc logger.Loc, scope *js_ast.Scope, kind js_ast.ScopeKind, what string) {
	switch {
	case scope == nil:
		v.addError(loc, "This %s has no scope", what)
	case scope.NameTable() != v.names:
		v.addError(loc, "This %s has a scope from another program", what)
	case scope.Kind != kind:
		v.addError(loc, "This %s has a %s", what, scope)
	}
}

func (v *validator) checkLabel(loc logger.Loc, label *js_ast.LocRef) {
	if label == nil {
		return
	}
	v.checkRef(label.Loc, label.Ref, "label")
	if v.names.IsValidRef(label.Ref) && !v.names.Get(label.Ref).IsLabel {
		v.addError(label.Loc, "The name %q is used as a label but is not a label", v.names.Get(label.Ref).Ident)
	}
}

func (v *validator) Visit(node js_ast.Node, ctx *js_ast.Context) bool {
	v.enter(node)
	loc := ctx.Loc()

	var parent js_ast.Node
	if len(v.parents) > 0 {
		parent = v.parents[len(v.parents)-1]
	}
	v.parents = append(v.parents, node)

	// "delete" accepts any operand
	if ctx.IsLvalue() && !isDeleteOperand(parent) {
		switch n := node.(type) {
		case *js_ast.ENameRef, *js_ast.EIndex, *js_ast.VarDecl:
		default:
			v.addError(loc, "Cannot assign to a %s expression", n.Kind())
		}
	}

	switch n := node.(type) {
	case *js_ast.ENameRef:
		if n.IsResolved() {
			v.checkRef(loc, n.Ref, fmt.Sprintf("reference to %q", n.Ident))
		}

	case *js_ast.EFunction:
		v.checkScope(loc, n.Scope, js_ast.ScopeFunction, "function")
		if n.Name != nil {
			v.checkRef(n.Name.Loc, n.Name.Ref, "function name")
		}
		if n.Body == nil {
			v.addError(loc, "This function has no body")
		}

	case *js_ast.SBlock:
		_, isFragment := parent.(*js_ast.Fragment)
		if n.IsGlobal && !isFragment {
			v.addError(loc, "Only the top-level block of a fragment can be global")
		} else if !n.IsGlobal && isFragment {
			v.addError(loc, "The top-level block of a fragment must be global")
		}

	case *js_ast.SBreak:
		v.checkLabel(loc, n.Label)

	case *js_ast.SContinue:
		v.checkLabel(loc, n.Label)

	case *js_ast.SLabel:
		v.checkLabel(loc, &n.Name)

	case *js_ast.SForIn:
		if (n.Var == nil) == (n.Target.Data == nil) {
			v.addError(loc, "A for-in loop must have exactly one of a variable or a target")
		}

	case *js_ast.SSwitch:
		defaults := 0
		for _, c := range n.Cases {
			if c.Test == nil {
				defaults++
			}
		}
		if defaults > 1 {
			v.addError(loc, "A switch statement can have at most one default clause")
		}

	case *js_ast.STry:
		if n.Body == nil {
			v.addError(loc, "This try statement has no body")
		}
		if len(n.Catches) == 0 && n.Finally == nil {
			v.addError(loc, "A try statement needs a catch clause or a finally block")
		}

	case *js_ast.SVars:
		if len(n.Decls) == 0 {
			v.addError(loc, "A var statement needs at least one declaration")
		}

	case *js_ast.Catch:
		v.checkScope(loc, n.Scope, js_ast.ScopeCatch, "catch clause")
		if n.Param == nil {
			v.addError(loc, "This catch clause has no parameter")
		} else if n.Scope != nil && n.Scope.Kind == js_ast.ScopeCatch && n.Scope.CatchParam() != n.Param.Name {
			v.addError(loc, "The parameter of this catch clause is not the name bound by its scope")
		}

	case *js_ast.Parameter:
		v.checkRef(loc, n.Name, "parameter")

	case *js_ast.VarDecl:
		v.checkRef(loc, n.Name, "variable")
	}

	return true
}

func (v *validator) EndVisit(node js_ast.Node, ctx *js_ast.Context) {
	v.parents = v.parents[:len(v.parents)-1]
}

func isDeleteOperand(parent js_ast.Node) bool {
	unary, ok := parent.(*js_ast.EUnary)
	return ok && unary.Op == js_ast.UnOpDelete
}
