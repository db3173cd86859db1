package js_ast

import (
	"github.com/jsir-dev/jsir/internal/logger"
)

// This is the intermediate representation that the compiler backend lowers
// into before emitting JavaScript. The frontend builds the tree, allocating a
// Name in the appropriate Scope for every binding it creates. Later passes
// walk the tree with a Visitor and may rewrite it through the visitor's
// Context. The code generator does a final read-only walk.
//
// The tree is a strict ownership tree: every child has exactly one parent
// slot and subtrees are never shared. Identifiers are the one exception to
// this. They are referenced by a Ref, which is a handle into the Name arena of
// the declaring scope, so any number of nodes can mention the same Name.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LAssign
	LConditional
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsUnary() bool {
	return op <= UnOpPostInc
}

// Increment and decrement both read and write their operand
func (op OpCode) IsUpdate() bool {
	return op >= UnOpPreDec && op <= UnOpPostInc
}

// The "delete" operator is practically like an assignment of undefined, so it
// counts as modifying its operand even though it isn't an lvalue position
func (op OpCode) IsModifying() bool {
	return op.IsUpdate() || op == UnOpDelete
}

func (op OpCode) IsAssign() bool {
	return op >= BinOpAssign
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma
}

// If you add a new operator, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
}

// Kind is the discriminant of every node in the tree. It lets passes switch
// over node shapes without type assertions and gives the dumper a stable name
// for each variant.
type Kind uint8

const (
	// Expressions
	KindArray Kind = iota
	KindIndex
	KindBinary
	KindBoolean
	KindConditional
	KindFunction
	KindCall
	KindNameRef
	KindNew
	KindNull
	KindInt
	KindDouble
	KindObject
	KindPrefix
	KindPostfix
	KindRegExp
	KindString
	KindThis

	// Statements
	KindBlock
	KindBreak
	KindContinue
	KindDebugger
	KindEmpty
	KindExpr
	KindFor
	KindForIn
	KindDoWhile
	KindWhile
	KindIf
	KindLabel
	KindReturn
	KindSwitch
	KindThrow
	KindTry
	KindVars
	KindComment

	// Nodes that are neither expressions nor statements
	KindCase
	KindDefault
	KindCatch
	KindParameter
	KindVar
	KindProperty
	KindFragment
	KindProgram
)

var kindNames = [...]string{
	"Array",
	"Index",
	"Binary",
	"Boolean",
	"Conditional",
	"Function",
	"Call",
	"NameRef",
	"New",
	"Null",
	"Int",
	"Double",
	"Object",
	"Prefix",
	"Postfix",
	"RegExp",
	"String",
	"This",

	"Block",
	"Break",
	"Continue",
	"Debugger",
	"Empty",
	"Expr",
	"For",
	"ForIn",
	"DoWhile",
	"While",
	"If",
	"Label",
	"Return",
	"Switch",
	"Throw",
	"Try",
	"Vars",
	"Comment",

	"Case",
	"Default",
	"Catch",
	"Param",
	"Var",
	"Property",
	"Fragment",
	"Program",
}

func (kind Kind) String() string {
	return kindNames[kind]
}

func (kind Kind) IsExpr() bool {
	return kind <= KindThis
}

func (kind Kind) IsStmt() bool {
	return kind >= KindBlock && kind <= KindComment
}

// Every variant in the tree is a Node. Expression variants additionally
// satisfy E and statement variants satisfy S.
type Node interface {
	Kind() Kind
}

type LocRef struct {
	Loc logger.Loc
	Ref Ref
}

type Expr struct {
	Loc  logger.Loc
	Data E
}

// An Expr is itself a Node so that a visitor can hand a fully-located
// expression to Context.ReplaceMe or Context.InsertBefore
func (e Expr) Kind() Kind { return e.Data.Kind() }

// E is the closed set of expression variants. The unexported method keeps
// other packages from adding variants.
type E interface {
	Node
	isExpr()
}

// The expression in statement position. This is how function declarations
// and bare calls appear in a block.
func (e Expr) MakeStmt() Stmt {
	return Stmt{Loc: e.Loc, Data: &SExpr{Value: e}}
}

type EArray struct {
	Items []Expr
}

// "a[b]"
type EIndex struct {
	Target Expr
	Index  Expr
}

type EBinary struct {
	Op    OpCode
	Left  Expr
	Right Expr
}

type EBoolean struct{ Value bool }

// "a ? b : c"
type EConditional struct {
	Test Expr
	Yes  Expr
	No   Expr
}

// Functions own the scope of their parameters and body. A pass that deletes
// a function must also detach this scope from the scope tree.
type EFunction struct {
	Name   *LocRef
	Params []*Parameter
	Body   *SBlock
	Scope  *Scope
}

type ECall struct {
	Target Expr
	Args   []Expr
}

// A reference to a name, optionally qualified ("a.b" is a reference to "b"
// with the qualifier "a"). The frontend may create a reference before it
// knows the binding. Such a reference only has "Ident" and an invalid "Ref"
// until it is resolved.
type ENameRef struct {
	Ident     string
	Ref       Ref
	Qualifier *Expr
}

func (e *ENameRef) IsResolved() bool {
	return e.Ref != InvalidRef
}

func (e *ENameRef) Resolve(ref Ref) {
	e.Ref = ref
}

type ENew struct {
	Target Expr
	Args   []Expr
}

type ENull struct{}

type EInt struct{ Value int32 }

type EDouble struct{ Value float64 }

type EObject struct {
	Properties  []*Property
	IsMultiLine bool
}

// Both prefix and postfix operators. Use "Op.IsPrefix()" to tell them apart.
type EUnary struct {
	Op    OpCode
	Value Expr
}

type ERegExp struct {
	Pattern string
	Flags   string
}

type EString struct{ Value string }

type EThis struct{}

func (*EArray) Kind() Kind       { return KindArray }
func (*EIndex) Kind() Kind       { return KindIndex }
func (*EBinary) Kind() Kind      { return KindBinary }
func (*EBoolean) Kind() Kind     { return KindBoolean }
func (*EConditional) Kind() Kind { return KindConditional }
func (*EFunction) Kind() Kind    { return KindFunction }
func (*ECall) Kind() Kind        { return KindCall }
func (*ENameRef) Kind() Kind     { return KindNameRef }
func (*ENew) Kind() Kind         { return KindNew }
func (*ENull) Kind() Kind        { return KindNull }
func (*EInt) Kind() Kind         { return KindInt }
func (*EDouble) Kind() Kind      { return KindDouble }
func (*EObject) Kind() Kind      { return KindObject }
func (*ERegExp) Kind() Kind      { return KindRegExp }
func (*EString) Kind() Kind      { return KindString }
func (*EThis) Kind() Kind        { return KindThis }

func (e *EUnary) Kind() Kind {
	if e.Op.IsPrefix() {
		return KindPrefix
	}
	return KindPostfix
}

func (*EArray) isExpr()       {}
func (*EIndex) isExpr()       {}
func (*EBinary) isExpr()      {}
func (*EBoolean) isExpr()     {}
func (*EConditional) isExpr() {}
func (*EFunction) isExpr()    {}
func (*ECall) isExpr()        {}
func (*ENameRef) isExpr()     {}
func (*ENew) isExpr()         {}
func (*ENull) isExpr()        {}
func (*EInt) isExpr()         {}
func (*EDouble) isExpr()      {}
func (*EObject) isExpr()      {}
func (*EUnary) isExpr()       {}
func (*ERegExp) isExpr()      {}
func (*EString) isExpr()      {}
func (*EThis) isExpr()        {}

type Stmt struct {
	Loc  logger.Loc
	Data S
}

func (s Stmt) Kind() Kind { return s.Data.Kind() }

// S is the closed set of statement variants
type S interface {
	Node
	isStmt()
}

// A global block is the top-level block of a fragment. Nested blocks are
// never global.
type SBlock struct {
	Stmts    []Stmt
	IsGlobal bool
}

type SBreak struct {
	Label *LocRef
}

type SContinue struct {
	Label *LocRef
}

type SDebugger struct{}

type SEmpty struct{}

type SExpr struct {
	Value Expr
}

type SFor struct {
	Init   *Stmt // May be a SVars or SExpr
	Test   *Expr
	Update *Expr
	Body   Stmt
}

// Exactly one of "Var" and "Target" is used:
//
//   for (var x in y) {}   // Var
//   for (a.b in y) {}     // Target
//
type SForIn struct {
	Var    *VarDecl
	Target Expr
	Value  Expr
	Body   Stmt
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SIf struct {
	Test Expr
	Yes  Stmt
	No   *Stmt
}

type SLabel struct {
	Name LocRef
	Stmt Stmt
}

type SReturn struct {
	Value *Expr
}

type SSwitch struct {
	Test  Expr
	Cases []*Case
}

type SThrow struct {
	Value Expr
}

type STry struct {
	Body    *SBlock
	Catches []*Catch
	Finally *SBlock
}

type SVars struct {
	Decls       []*VarDecl
	IsMultiLine bool
}

type SComment struct {
	Text        string
	IsMultiLine bool
}

func (*SBlock) Kind() Kind    { return KindBlock }
func (*SBreak) Kind() Kind    { return KindBreak }
func (*SContinue) Kind() Kind { return KindContinue }
func (*SDebugger) Kind() Kind { return KindDebugger }
func (*SEmpty) Kind() Kind    { return KindEmpty }
func (*SExpr) Kind() Kind     { return KindExpr }
func (*SFor) Kind() Kind      { return KindFor }
func (*SForIn) Kind() Kind    { return KindForIn }
func (*SDoWhile) Kind() Kind  { return KindDoWhile }
func (*SWhile) Kind() Kind    { return KindWhile }
func (*SIf) Kind() Kind       { return KindIf }
func (*SLabel) Kind() Kind    { return KindLabel }
func (*SReturn) Kind() Kind   { return KindReturn }
func (*SSwitch) Kind() Kind   { return KindSwitch }
func (*SThrow) Kind() Kind    { return KindThrow }
func (*STry) Kind() Kind      { return KindTry }
func (*SVars) Kind() Kind     { return KindVars }
func (*SComment) Kind() Kind  { return KindComment }

func (*SBlock) isStmt()    {}
func (*SBreak) isStmt()    {}
func (*SContinue) isStmt() {}
func (*SDebugger) isStmt() {}
func (*SEmpty) isStmt()    {}
func (*SExpr) isStmt()     {}
func (*SFor) isStmt()      {}
func (*SForIn) isStmt()    {}
func (*SDoWhile) isStmt()  {}
func (*SWhile) isStmt()    {}
func (*SIf) isStmt()       {}
func (*SLabel) isStmt()    {}
func (*SReturn) isStmt()   {}
func (*SSwitch) isStmt()   {}
func (*SThrow) isStmt()    {}
func (*STry) isStmt()      {}
func (*SVars) isStmt()     {}
func (*SComment) isStmt()  {}

// A switch member. A nil "Test" makes this the "default" clause.
type Case struct {
	Loc  logger.Loc
	Test *Expr
	Body []Stmt
}

func (c *Case) Kind() Kind {
	if c.Test == nil {
		return KindDefault
	}
	return KindCase
}

// The scope of a catch clause only binds the caught exception. Its parent is
// the enclosing function scope.
type Catch struct {
	Loc   logger.Loc
	Param *Parameter
	Body  *SBlock
	Scope *Scope
}

type Parameter struct {
	Loc  logger.Loc
	Name Ref
}

type VarDecl struct {
	Loc   logger.Loc
	Name  Ref
	Value *Expr
}

// "key: value" inside an object literal
type Property struct {
	Loc   logger.Loc
	Key   Expr
	Value Expr
}

func (*Catch) Kind() Kind     { return KindCatch }
func (*Parameter) Kind() Kind { return KindParameter }
func (*VarDecl) Kind() Kind   { return KindVar }
func (*Property) Kind() Kind  { return KindProperty }

func Assign(a Expr, b Expr) Expr {
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpAssign, Left: a, Right: b}}
}

func Not(a Expr) Expr {
	// "!!!a" => "!a"
	if not, ok := a.Data.(*EUnary); ok && not.Op == UnOpNot {
		if inner, ok := not.Value.Data.(*EUnary); ok && inner.Op == UnOpNot {
			return not.Value
		}
	}
	return Expr{Loc: a.Loc, Data: &EUnary{Op: UnOpNot, Value: a}}
}

func JoinWithComma(a Expr, b Expr) Expr {
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpComma, Left: a, Right: b}}
}

// A reference to an already-declared name
func NameRefTo(loc logger.Loc, table *NameTable, ref Ref) Expr {
	return Expr{Loc: loc, Data: &ENameRef{Ident: table.Get(ref).Ident, Ref: ref}}
}

// Function declarations are represented as a named function expression in
// statement position
func IsFunctionDeclaration(stmt Stmt) bool {
	if s, ok := stmt.Data.(*SExpr); ok {
		if fn, ok := s.Value.Data.(*EFunction); ok {
			return fn.Name != nil
		}
	}
	return false
}
