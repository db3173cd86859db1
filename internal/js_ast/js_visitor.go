package js_ast

import (
	"fmt"

	"github.com/jsir-dev/jsir/internal/logger"
)

// Passes implement this to walk the tree. For every node, "Visit" is called
// first. If it returns true the node's children are visited, and each child
// slot is reassigned to whatever its own visit produced. "EndVisit" is then
// called even if "Visit" returned false.
//
// The node passed to both methods is the variant itself (an E, an S, or one
// of the auxiliary nodes such as *Case). Its location is "ctx.Loc()".
type Visitor interface {
	Visit(node Node, ctx *Context) bool
	EndVisit(node Node, ctx *Context)
}

// Embed this to only implement the methods you need
type NoopVisitor struct{}

func (NoopVisitor) Visit(node Node, ctx *Context) bool { return true }
func (NoopVisitor) EndVisit(node Node, ctx *Context)   {}

type EditKind uint8

const (
	EditInsertBefore EditKind = iota
	EditInsertAfter
	EditRemove
	EditReplace
)

func (kind EditKind) String() string {
	switch kind {
	case EditInsertBefore:
		return "insert before"
	case EditInsertAfter:
		return "insert after"
	case EditRemove:
		return "remove"
	case EditReplace:
		return "replace"
	default:
		panic("Internal error")
	}
}

// A pending change to the slot that is currently being visited. Edits are
// recorded while a node is visited and are only committed to the containing
// list once the visit of that node (including its children) is done.
type Edit struct {
	Kind EditKind
	Node Node // Nil for EditRemove
}

type slotKind uint8

const (
	slotExpr slotKind = iota
	slotStmt
	slotBlock
	slotCase
	slotCatch
	slotParameter
	slotVar
	slotProperty
	slotFragment
	slotProgram
)

func (slot slotKind) String() string {
	switch slot {
	case slotExpr:
		return "expression"
	case slotStmt:
		return "statement"
	case slotBlock:
		return "block"
	case slotCase:
		return "switch case"
	case slotCatch:
		return "catch clause"
	case slotParameter:
		return "parameter"
	case slotVar:
		return "variable declaration"
	case slotProperty:
		return "property"
	case slotFragment:
		return "fragment"
	case slotProgram:
		return "program"
	default:
		panic("Internal error")
	}
}

// The position of the node that is currently being visited. A new context is
// created for every slot, so it is only valid until "EndVisit" returns.
type Context struct {
	edits    []Edit
	loc      logger.Loc
	slot     slotKind
	inList   bool
	isLvalue bool
	removed  bool
}

// Only nodes that are members of a list (statements in a block, arguments,
// cases, and so on) can have siblings inserted next to them
func (ctx *Context) CanInsert() bool {
	return ctx.inList
}

// Mandatory children such as the test of an "if" can't be removed, only
// replaced
func (ctx *Context) CanRemove() bool {
	return ctx.inList
}

// True when the current node is written to instead of read: the left side of
// an assignment, the operand of "++", "--" or "delete", or the variable of a
// for-in loop
func (ctx *Context) IsLvalue() bool {
	return ctx.isLvalue
}

func (ctx *Context) Loc() logger.Loc {
	return ctx.loc
}

// The edits requested so far for the current node, in call order
func (ctx *Context) Edits() []Edit {
	return ctx.edits
}

func (ctx *Context) InsertBefore(node Node) {
	if !ctx.inList {
		internalError(ErrUnsupportedOperation, "Cannot insert a sibling before this %s because it is not in a list", ctx.slot)
	}
	ctx.checkFits(node)
	ctx.edits = append(ctx.edits, Edit{Kind: EditInsertBefore, Node: node})
}

func (ctx *Context) InsertAfter(node Node) {
	if !ctx.inList {
		internalError(ErrUnsupportedOperation, "Cannot insert a sibling after this %s because it is not in a list", ctx.slot)
	}
	ctx.checkFits(node)
	ctx.edits = append(ctx.edits, Edit{Kind: EditInsertAfter, Node: node})
}

func (ctx *Context) RemoveMe() {
	if !ctx.inList {
		internalError(ErrUnsupportedOperation, "Cannot remove this %s because it is not in a list", ctx.slot)
	}
	ctx.removed = true
	ctx.edits = append(ctx.edits, Edit{Kind: EditRemove})
}

// Replaces the current node. Unlike removal this works for any slot. The
// children of the node being replaced are still visited, but the replacement
// itself is not.
func (ctx *Context) ReplaceMe(node Node) {
	if ctx.removed {
		internalError(ErrUnsupportedOperation, "Cannot replace this %s because it was already removed", ctx.slot)
	}
	ctx.checkFits(node)
	ctx.edits = append(ctx.edits, Edit{Kind: EditReplace, Node: node})
}

func (ctx *Context) checkFits(node Node) {
	if !fitsSlot(ctx.slot, node) {
		internalError(ErrInvalidArgument, "Cannot put %s in this %s slot", describeNode(node), ctx.slot)
	}
}

// The replacement for a slot that is not in a list
func (ctx *Context) result(current Node) Node {
	for _, edit := range ctx.edits {
		if edit.Kind == EditReplace {
			current = edit.Node
		}
	}
	return current
}

// Commits the edits recorded for "current" and returns the nodes that take
// its place in the containing list. Insertions before the node come first in
// the order they were requested, then the node or its replacement unless it
// was removed, then insertions after the node in the order they were
// requested.
func ApplyEdits(current Node, edits []Edit) []Node {
	var before []Node
	var after []Node
	removed := false

	for _, edit := range edits {
		switch edit.Kind {
		case EditInsertBefore:
			before = append(before, edit.Node)
		case EditInsertAfter:
			after = append(after, edit.Node)
		case EditRemove:
			removed = true
		case EditReplace:
			if removed {
				internalError(ErrUnsupportedOperation, "Cannot replace %s after removing it", describeNode(current))
			}
			current = edit.Node
		}
	}

	result := make([]Node, 0, len(before)+len(after)+1)
	result = append(result, before...)
	if !removed {
		result = append(result, current)
	}
	return append(result, after...)
}

func describeNode(node Node) string {
	if node == nil {
		return "nothing"
	}
	return fmt.Sprintf("a %s node", node.Kind())
}

func fitsSlot(slot slotKind, node Node) bool {
	switch n := node.(type) {
	case nil:
		return false
	case Expr:
		return n.Data != nil && (slot == slotExpr || slot == slotStmt)
	case E:
		return slot == slotExpr || slot == slotStmt
	case Stmt:
		if n.Data == nil {
			return false
		}
		if slot == slotBlock {
			_, ok := n.Data.(*SBlock)
			return ok
		}
		return slot == slotStmt
	case *SBlock:
		return slot == slotStmt || slot == slotBlock
	case S:
		return slot == slotStmt
	case *Case:
		return slot == slotCase
	case *Catch:
		return slot == slotCatch
	case *Parameter:
		return slot == slotParameter
	case *VarDecl:
		return slot == slotVar
	case *Property:
		return slot == slotProperty
	case *Fragment:
		return slot == slotFragment
	case *Program:
		return slot == slotProgram
	default:
		return false
	}
}

// Bare variants that are spliced into the tree take the location of the node
// whose edit introduced them
func toExpr(node Node, loc logger.Loc) Expr {
	switch n := node.(type) {
	case Expr:
		return n
	case E:
		return Expr{Loc: loc, Data: n}
	}
	internalError(ErrInvalidArgument, "Expected an expression but got %s", describeNode(node))
	return Expr{}
}

func toStmt(node Node, loc logger.Loc) Stmt {
	switch n := node.(type) {
	case Stmt:
		return n
	case S:
		return Stmt{Loc: loc, Data: n}
	case Expr:
		return n.MakeStmt()
	case E:
		return Expr{Loc: loc, Data: n}.MakeStmt()
	}
	internalError(ErrInvalidArgument, "Expected a statement but got %s", describeNode(node))
	return Stmt{}
}

func toBlock(node Node) *SBlock {
	switch n := node.(type) {
	case *SBlock:
		return n
	case Stmt:
		if block, ok := n.Data.(*SBlock); ok {
			return block
		}
	}
	internalError(ErrInvalidArgument, "Expected a block but got %s", describeNode(node))
	return nil
}

func traverse(v Visitor, node Node, ctx *Context) {
	if v.Visit(node, ctx) {
		acceptChildren(v, node, ctx.loc)
	}
	v.EndVisit(node, ctx)
}

// Visits a node that is not a member of a list and returns whatever should
// occupy its slot afterward
func visitSlot(v Visitor, current Node, data Node, loc logger.Loc, slot slotKind, isLvalue bool) Node {
	ctx := Context{loc: loc, slot: slot, isLvalue: isLvalue}
	traverse(v, data, &ctx)
	return ctx.result(current)
}

// Visits a node that is a member of a list. The returned nodes replace it in
// the list, or nil means the node stays as it is.
func visitListMember(v Visitor, current Node, data Node, loc logger.Loc, slot slotKind) []Node {
	ctx := Context{loc: loc, slot: slot, inList: true}
	traverse(v, data, &ctx)
	if len(ctx.edits) == 0 {
		return nil
	}
	return ApplyEdits(current, ctx.edits)
}

func AcceptExpr(v Visitor, expr Expr) Expr {
	return toExpr(visitSlot(v, expr, expr.Data, expr.Loc, slotExpr, false), expr.Loc)
}

// Use this instead of "AcceptExpr" for expressions that are assigned to
func AcceptLvalue(v Visitor, expr Expr) Expr {
	return toExpr(visitSlot(v, expr, expr.Data, expr.Loc, slotExpr, true), expr.Loc)
}

func AcceptStmt(v Visitor, stmt Stmt) Stmt {
	return toStmt(visitSlot(v, stmt, stmt.Data, stmt.Loc, slotStmt, false), stmt.Loc)
}

func acceptOptionalExpr(v Visitor, expr *Expr) *Expr {
	if expr == nil {
		return nil
	}
	result := AcceptExpr(v, *expr)
	return &result
}

func acceptOptionalStmt(v Visitor, stmt *Stmt) *Stmt {
	if stmt == nil {
		return nil
	}
	result := AcceptStmt(v, *stmt)
	return &result
}

func acceptBlock(v Visitor, loc logger.Loc, block *SBlock) *SBlock {
	if block == nil {
		return nil
	}
	return toBlock(visitSlot(v, block, block, loc, slotBlock, false))
}

func AcceptStmts(v Visitor, stmts []Stmt) []Stmt {
	var result []Stmt
	for i, stmt := range stmts {
		nodes := visitListMember(v, stmt, stmt.Data, stmt.Loc, slotStmt)
		if nodes == nil {
			if result != nil {
				result = append(result, stmt)
			}
			continue
		}
		if result == nil {
			result = append(make([]Stmt, 0, len(stmts)), stmts[:i]...)
		}
		for _, node := range nodes {
			result = append(result, toStmt(node, stmt.Loc))
		}
	}
	if result == nil {
		return stmts
	}
	return result
}

func AcceptExprs(v Visitor, exprs []Expr) []Expr {
	var result []Expr
	for i, expr := range exprs {
		nodes := visitListMember(v, expr, expr.Data, expr.Loc, slotExpr)
		if nodes == nil {
			if result != nil {
				result = append(result, expr)
			}
			continue
		}
		if result == nil {
			result = append(make([]Expr, 0, len(exprs)), exprs[:i]...)
		}
		for _, node := range nodes {
			result = append(result, toExpr(node, expr.Loc))
		}
	}
	if result == nil {
		return exprs
	}
	return result
}

func acceptCases(v Visitor, cases []*Case) []*Case {
	var result []*Case
	for i, c := range cases {
		nodes := visitListMember(v, c, c, c.Loc, slotCase)
		if nodes == nil {
			if result != nil {
				result = append(result, c)
			}
			continue
		}
		if result == nil {
			result = append(make([]*Case, 0, len(cases)), cases[:i]...)
		}
		for _, node := range nodes {
			result = append(result, node.(*Case))
		}
	}
	if result == nil {
		return cases
	}
	return result
}

func acceptCatches(v Visitor, catches []*Catch) []*Catch {
	var result []*Catch
	for i, c := range catches {
		nodes := visitListMember(v, c, c, c.Loc, slotCatch)
		if nodes == nil {
			if result != nil {
				result = append(result, c)
			}
			continue
		}
		if result == nil {
			result = append(make([]*Catch, 0, len(catches)), catches[:i]...)
		}
		for _, node := range nodes {
			result = append(result, node.(*Catch))
		}
	}
	if result == nil {
		return catches
	}
	return result
}

func acceptParams(v Visitor, params []*Parameter) []*Parameter {
	var result []*Parameter
	for i, param := range params {
		nodes := visitListMember(v, param, param, param.Loc, slotParameter)
		if nodes == nil {
			if result != nil {
				result = append(result, param)
			}
			continue
		}
		if result == nil {
			result = append(make([]*Parameter, 0, len(params)), params[:i]...)
		}
		for _, node := range nodes {
			result = append(result, node.(*Parameter))
		}
	}
	if result == nil {
		return params
	}
	return result
}

func acceptDecls(v Visitor, decls []*VarDecl) []*VarDecl {
	var result []*VarDecl
	for i, decl := range decls {
		nodes := visitListMember(v, decl, decl, decl.Loc, slotVar)
		if nodes == nil {
			if result != nil {
				result = append(result, decl)
			}
			continue
		}
		if result == nil {
			result = append(make([]*VarDecl, 0, len(decls)), decls[:i]...)
		}
		for _, node := range nodes {
			result = append(result, node.(*VarDecl))
		}
	}
	if result == nil {
		return decls
	}
	return result
}

func acceptProperties(v Visitor, properties []*Property) []*Property {
	var result []*Property
	for i, property := range properties {
		nodes := visitListMember(v, property, property, property.Loc, slotProperty)
		if nodes == nil {
			if result != nil {
				result = append(result, property)
			}
			continue
		}
		if result == nil {
			result = append(make([]*Property, 0, len(properties)), properties[:i]...)
		}
		for _, node := range nodes {
			result = append(result, node.(*Property))
		}
	}
	if result == nil {
		return properties
	}
	return result
}

// Walks the whole program, one fragment at a time
func AcceptProgram(v Visitor, program *Program) *Program {
	return visitSlot(v, program, program, logger.LocNone, slotProgram, false).(*Program)
}

// Visits any node. The result has the same shape as the input: an Expr gives
// an Expr, a bare E gives an E, and so on. Bare variants have no location of
// their own, so the visitor sees "logger.LocNone" for them.
func Accept(v Visitor, node Node) Node {
	switch n := node.(type) {
	case Expr:
		return AcceptExpr(v, n)
	case Stmt:
		return AcceptStmt(v, n)
	case E:
		return AcceptExpr(v, Expr{Loc: logger.LocNone, Data: n}).Data
	case S:
		return AcceptStmt(v, Stmt{Loc: logger.LocNone, Data: n}).Data
	case *Case:
		return visitSlot(v, n, n, n.Loc, slotCase, false)
	case *Catch:
		return visitSlot(v, n, n, n.Loc, slotCatch, false)
	case *Parameter:
		return visitSlot(v, n, n, n.Loc, slotParameter, false)
	case *VarDecl:
		return visitSlot(v, n, n, n.Loc, slotVar, false)
	case *Property:
		return visitSlot(v, n, n, n.Loc, slotProperty, false)
	case *Fragment:
		return visitSlot(v, n, n, logger.LocNone, slotFragment, false)
	case *Program:
		return AcceptProgram(v, n)
	}
	internalError(ErrInvalidArgument, "Cannot visit %s", describeNode(node))
	return nil
}

// Visits every child of "node" in source order and stores the results back
// into the node. Passes that return false from "Visit" can call this
// themselves to control when the children are visited.
func AcceptChildren(v Visitor, node Node) {
	acceptChildren(v, node, logger.LocNone)
}

// Blocks that are fixed parts of another node have no location of their own
// and are visited with the location of that node
func acceptChildren(v Visitor, node Node, loc logger.Loc) {
	switch n := node.(type) {
	case Expr:
		acceptChildren(v, n.Data, n.Loc)
	case Stmt:
		acceptChildren(v, n.Data, n.Loc)

	case *EArray:
		n.Items = AcceptExprs(v, n.Items)

	case *EIndex:
		n.Target = AcceptExpr(v, n.Target)
		n.Index = AcceptExpr(v, n.Index)

	case *EBinary:
		if n.Op.IsAssign() {
			n.Left = AcceptLvalue(v, n.Left)
		} else {
			n.Left = AcceptExpr(v, n.Left)
		}
		n.Right = AcceptExpr(v, n.Right)

	case *EConditional:
		n.Test = AcceptExpr(v, n.Test)
		n.Yes = AcceptExpr(v, n.Yes)
		n.No = AcceptExpr(v, n.No)

	case *EFunction:
		n.Params = acceptParams(v, n.Params)
		n.Body = acceptBlock(v, loc, n.Body)

	case *ECall:
		n.Target = AcceptExpr(v, n.Target)
		n.Args = AcceptExprs(v, n.Args)

	case *ENameRef:
		n.Qualifier = acceptOptionalExpr(v, n.Qualifier)

	case *ENew:
		n.Target = AcceptExpr(v, n.Target)
		n.Args = AcceptExprs(v, n.Args)

	case *EObject:
		n.Properties = acceptProperties(v, n.Properties)

	case *EUnary:
		if n.Op.IsModifying() {
			n.Value = AcceptLvalue(v, n.Value)
		} else {
			n.Value = AcceptExpr(v, n.Value)
		}

	case *EBoolean, *ENull, *EInt, *EDouble, *ERegExp, *EString, *EThis:

	case *SBlock:
		n.Stmts = AcceptStmts(v, n.Stmts)

	case *SExpr:
		n.Value = AcceptExpr(v, n.Value)

	case *SFor:
		n.Init = acceptOptionalStmt(v, n.Init)
		n.Test = acceptOptionalExpr(v, n.Test)
		n.Update = acceptOptionalExpr(v, n.Update)
		n.Body = AcceptStmt(v, n.Body)

	case *SForIn:
		if n.Var != nil {
			n.Var = visitSlot(v, n.Var, n.Var, n.Var.Loc, slotVar, true).(*VarDecl)
		} else if n.Target.Data != nil {
			n.Target = AcceptLvalue(v, n.Target)
		}
		n.Value = AcceptExpr(v, n.Value)
		n.Body = AcceptStmt(v, n.Body)

	case *SDoWhile:
		n.Body = AcceptStmt(v, n.Body)
		n.Test = AcceptExpr(v, n.Test)

	case *SWhile:
		n.Test = AcceptExpr(v, n.Test)
		n.Body = AcceptStmt(v, n.Body)

	case *SIf:
		n.Test = AcceptExpr(v, n.Test)
		n.Yes = AcceptStmt(v, n.Yes)
		n.No = acceptOptionalStmt(v, n.No)

	case *SLabel:
		n.Stmt = AcceptStmt(v, n.Stmt)

	case *SReturn:
		n.Value = acceptOptionalExpr(v, n.Value)

	case *SSwitch:
		n.Test = AcceptExpr(v, n.Test)
		n.Cases = acceptCases(v, n.Cases)

	case *SThrow:
		n.Value = AcceptExpr(v, n.Value)

	case *STry:
		n.Body = acceptBlock(v, loc, n.Body)
		n.Catches = acceptCatches(v, n.Catches)
		n.Finally = acceptBlock(v, loc, n.Finally)

	case *SVars:
		n.Decls = acceptDecls(v, n.Decls)

	case *SBreak, *SContinue, *SDebugger, *SEmpty, *SComment:

	case *Case:
		n.Test = acceptOptionalExpr(v, n.Test)
		n.Body = AcceptStmts(v, n.Body)

	case *Catch:
		if n.Param != nil {
			n.Param = visitSlot(v, n.Param, n.Param, n.Param.Loc, slotParameter, false).(*Parameter)
		}
		n.Body = acceptBlock(v, n.Loc, n.Body)

	case *VarDecl:
		n.Value = acceptOptionalExpr(v, n.Value)

	case *Property:
		n.Key = AcceptExpr(v, n.Key)
		n.Value = AcceptExpr(v, n.Value)

	case *Parameter:

	case *Fragment:
		n.GlobalBlock = acceptBlock(v, logger.LocNone, n.GlobalBlock)

	case *Program:
		for i, fragment := range n.Fragments {
			n.Fragments[i] = visitSlot(v, fragment, fragment, logger.LocNone, slotFragment, false).(*Fragment)
		}

	default:
		internalError(ErrInvalidArgument, "Cannot visit the children of %s", describeNode(node))
	}
}
