package js_passes

import (
	"github.com/jsir-dev/jsir/internal/js_ast"
	"github.com/jsir-dev/jsir/internal/logger"
)

// Lowering tends to produce blocks nested directly inside other statement
// lists. Blocks don't introduce a scope in this IR, so their statements can be
// spliced into the enclosing list. Blocks in mandatory slots such as a loop
// body are kept.
var FlattenBlocks = Pass{
	Name: "flatten blocks",
	Run: func(log logger.Log, program *js_ast.Program) {
		js_ast.AcceptProgram(blockFlattener{}, program)
	},
}

type blockFlattener struct {
	js_ast.NoopVisitor
}

// Nested blocks have already been flattened by the time the outer block ends
func (blockFlattener) EndVisit(node js_ast.Node, ctx *js_ast.Context) {
	if block, ok := node.(*js_ast.SBlock); ok && !block.IsGlobal && ctx.CanRemove() {
		for _, stmt := range block.Stmts {
			ctx.InsertBefore(stmt)
		}
		ctx.RemoveMe()
	}
}

// Removes comment statements. A comment in a mandatory slot becomes an empty
// statement instead.
var StripComments = Pass{
	Name: "strip comments",
	Run: func(log logger.Log, program *js_ast.Program) {
		js_ast.AcceptProgram(commentStripper{}, program)
	},
}

type commentStripper struct {
	js_ast.NoopVisitor
}

func (commentStripper) Visit(node js_ast.Node, ctx *js_ast.Context) bool {
	if _, ok := node.(*js_ast.SComment); ok {
		if ctx.CanRemove() {
			ctx.RemoveMe()
		} else {
			ctx.ReplaceMe(&js_ast.SEmpty{})
		}
		return false
	}
	return true
}
