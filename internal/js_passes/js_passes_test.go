package js_passes

import (
	"strings"
	"testing"

	"github.com/jsir-dev/jsir/internal/config"
	"github.com/jsir-dev/jsir/internal/js_ast"
	"github.com/jsir-dev/jsir/internal/logger"
	"github.com/jsir-dev/jsir/internal/test"
)

func e(data js_ast.E) js_ast.Expr {
	return js_ast.Expr{Data: data}
}

func at(start int32, data js_ast.E) js_ast.Expr {
	return js_ast.Expr{Loc: logger.Loc{Start: start}, Data: data}
}

func ident(name string) js_ast.E {
	return &js_ast.ENameRef{Ident: name, Ref: js_ast.InvalidRef}
}

func identStmt(name string) js_ast.Stmt {
	return e(ident(name)).MakeStmt()
}

func newProgram() *js_ast.Program {
	return js_ast.NewProgram(js_ast.OptionsFromConfig(&config.Options{}))
}

func msgsToString(msgs []logger.Msg) string {
	text := ""
	for _, msg := range msgs {
		text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
	}
	return text
}

func msgTexts(msgs []logger.Msg) string {
	var texts []string
	for _, msg := range msgs {
		texts = append(texts, msg.Text)
	}
	return strings.Join(texts, "\n")
}

func expectRun(t *testing.T, program *js_ast.Program, passes ...Pass) []logger.Msg {
	t.Helper()
	log := logger.NewDeferLog()
	ok := Run(log, &config.Options{}, program, passes...)
	msgs := log.Done()
	if !ok {
		t.Fatalf("Unexpected failure:\n%s", msgsToString(msgs))
	}
	return msgs
}

func TestResolveNames(t *testing.T) {
	contents := "function f(x) {\n  countr;\n  x;\n  y;\n}\n"
	p := newProgram()
	p.Fragments[0].Source = &logger.Source{PrettyPath: "input.js", Contents: contents}

	f := p.Scope.DeclareName("f")
	fnScope := p.Scope.NewFunctionScope("f")
	x := fnScope.DeclareName("x")
	fnScope.DeclareName("counter")

	innerScope := fnScope.NewFunctionScope("inner")
	innerX := innerScope.DeclareName("x")
	catchScope := innerScope.NewCatchScope("catch", "err")

	countr := &js_ast.ENameRef{Ident: "countr", Ref: js_ast.InvalidRef}
	outerUse := &js_ast.ENameRef{Ident: "x", Ref: js_ast.InvalidRef}
	y := &js_ast.ENameRef{Ident: "y", Ref: js_ast.InvalidRef}
	innerUse := &js_ast.ENameRef{Ident: "x", Ref: js_ast.InvalidRef}
	errUse := &js_ast.ENameRef{Ident: "err", Ref: js_ast.InvalidRef}
	object := &js_ast.ENameRef{Ident: "Object", Ref: js_ast.InvalidRef}
	this := e(&js_ast.EThis{})
	member := &js_ast.ENameRef{Ident: "member", Ref: js_ast.InvalidRef, Qualifier: &this}

	inner := &js_ast.EFunction{
		Body: &js_ast.SBlock{Stmts: []js_ast.Stmt{
			e(innerUse).MakeStmt(),
			{Data: &js_ast.STry{
				Body: &js_ast.SBlock{},
				Catches: []*js_ast.Catch{{
					Param: &js_ast.Parameter{Name: catchScope.CatchParam()},
					Body:  &js_ast.SBlock{Stmts: []js_ast.Stmt{e(errUse).MakeStmt()}},
					Scope: catchScope,
				}},
			}},
		}},
		Scope: innerScope,
	}

	fn := &js_ast.EFunction{
		Name:   &js_ast.LocRef{Ref: f},
		Params: []*js_ast.Parameter{{Name: x}},
		Body: &js_ast.SBlock{Stmts: []js_ast.Stmt{
			at(18, countr).MakeStmt(),
			at(28, outerUse).MakeStmt(),
			at(33, y).MakeStmt(),
			e(inner).MakeStmt(),
			e(object).MakeStmt(),
			e(member).MakeStmt(),
		}},
		Scope: fnScope,
	}
	p.GlobalBlock().Stmts = []js_ast.Stmt{e(fn).MakeStmt()}

	msgs := expectRun(t, p, ResolveNames, Validate)
	test.AssertEqualWithDiff(t, msgsToString(msgs),
		`input.js:2:2: warning: "countr" is not declared and will be treated as a global (did you mean "counter"?)
  countr;
  ^
input.js:4:2: warning: "y" is not declared and will be treated as a global
  y;
  ^
`)

	// Undeclared names become root globals
	ref, ok := p.Scope.OwnName("countr")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, countr.Ref, ref)
	test.AssertEqual(t, p.Name(ref).Obfuscatable, false)
	ref, ok = p.Scope.OwnName("y")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, y.Ref, ref)

	// Everything else binds to the nearest declaration
	test.AssertEqual(t, outerUse.Ref, x)
	test.AssertEqual(t, innerUse.Ref, innerX)
	test.AssertEqual(t, errUse.Ref, catchScope.CatchParam())
	ref, _ = p.Scope.OwnName("Object")
	test.AssertEqual(t, object.Ref, ref)

	// Property names are not variables
	test.AssertEqual(t, member.IsResolved(), false)
}

func TestResolveNamesKeepsExistingBindings(t *testing.T) {
	p := newProgram()
	fnScope := p.Scope.NewFunctionScope("fn")
	shadow := fnScope.DeclareName("window")

	use := js_ast.NameRefTo(logger.Loc{}, p.Names, shadow)
	p.GlobalBlock().Stmts = []js_ast.Stmt{
		e(&js_ast.EFunction{Body: &js_ast.SBlock{Stmts: []js_ast.Stmt{use.MakeStmt()}}, Scope: fnScope}).MakeStmt(),
	}

	msgs := expectRun(t, p, ResolveNames)
	test.AssertEqual(t, len(msgs), 0)
	test.AssertEqual(t, use.Data.(*js_ast.ENameRef).Ref, shadow)
}

func TestResolveNamesFunctionWithoutScope(t *testing.T) {
	p := newProgram()
	p.GlobalBlock().Stmts = []js_ast.Stmt{e(&js_ast.EFunction{Body: &js_ast.SBlock{}}).MakeStmt()}

	log := logger.NewDeferLog()
	ok := Run(log, &config.Options{}, p, ResolveNames)
	msgs := log.Done()

	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Error)
	test.AssertEqual(t, msgs[0].Text,
		`Pass "resolve names" failed: Internal error (invalid argument): Found a function without a scope inside root scope "root"`)
}

func TestFlattenBlocks(t *testing.T) {
	p := newProgram()
	fnScope := p.Scope.NewFunctionScope("fn")
	p.GlobalBlock().Stmts = []js_ast.Stmt{
		identStmt("a"),
		{Data: &js_ast.SBlock{Stmts: []js_ast.Stmt{
			identStmt("b"),
			{Data: &js_ast.SBlock{Stmts: []js_ast.Stmt{identStmt("c")}}},
		}}},
		{Data: &js_ast.SBlock{}},
		{Data: &js_ast.SWhile{
			Test: e(&js_ast.EBoolean{Value: true}),
			Body: js_ast.Stmt{Data: &js_ast.SBlock{Stmts: []js_ast.Stmt{
				{Data: &js_ast.SBlock{Stmts: []js_ast.Stmt{identStmt("d")}}},
			}}},
		}},
		e(&js_ast.EFunction{Body: &js_ast.SBlock{}, Scope: fnScope}).MakeStmt(),
	}

	expectRun(t, p, FlattenBlocks)
	test.AssertEqualWithDiff(t, js_ast.Dump(p.Names, p), `Program
  Fragment
    Block global
      Expr
        NameRef ?a
      Expr
        NameRef ?b
      Expr
        NameRef ?c
      While
        Boolean true
        Block
          Expr
            NameRef ?d
      Expr
        Function
          Block
`)
}

func TestStripComments(t *testing.T) {
	p := newProgram()
	p.GlobalBlock().Stmts = []js_ast.Stmt{
		{Data: &js_ast.SComment{Text: "header"}},
		identStmt("a"),
		{Data: &js_ast.SIf{Test: e(ident("x")), Yes: js_ast.Stmt{Data: &js_ast.SComment{Text: "todo"}}}},
		{Data: &js_ast.SComment{Text: "footer"}},
	}

	expectRun(t, p, StripComments)
	test.AssertEqualWithDiff(t, js_ast.Dump(p.Names, p), `Program
  Fragment
    Block global
      Expr
        NameRef ?a
      If
        NameRef ?x
        Empty
`)
}

func TestValidateAcceptsWellFormedProgram(t *testing.T) {
	p := newProgram()
	f := p.Scope.DeclareName("f")
	fnScope := p.Scope.NewFunctionScope("f")
	x := fnScope.DeclareName("x")
	label := fnScope.EnterLabel("loop")
	fnScope.ExitLabel()
	catchScope := fnScope.NewCatchScope("catch", "e")
	one := e(&js_ast.EInt{Value: 1})

	fn := &js_ast.EFunction{
		Name:   &js_ast.LocRef{Ref: f},
		Params: []*js_ast.Parameter{{Name: x}},
		Body: &js_ast.SBlock{Stmts: []js_ast.Stmt{
			{Data: &js_ast.SVars{Decls: []*js_ast.VarDecl{{Name: x, Value: &one}}}},
			{Data: &js_ast.SLabel{Name: js_ast.LocRef{Ref: label}, Stmt: js_ast.Stmt{Data: &js_ast.SForIn{
				Target: js_ast.NameRefTo(logger.Loc{}, p.Names, x),
				Value:  e(&js_ast.EObject{}),
				Body:   js_ast.Stmt{Data: &js_ast.SBreak{Label: &js_ast.LocRef{Ref: label}}},
			}}}},
			{Data: &js_ast.STry{
				Body: &js_ast.SBlock{},
				Catches: []*js_ast.Catch{{
					Param: &js_ast.Parameter{Name: catchScope.CatchParam()},
					Body:  &js_ast.SBlock{},
					Scope: catchScope,
				}},
			}},
			{Data: &js_ast.SSwitch{Test: e(ident("x")), Cases: []*js_ast.Case{{Test: &one}, {}}}},
			e(&js_ast.EBinary{
				Op:    js_ast.BinOpAssign,
				Left:  e(&js_ast.EIndex{Target: e(ident("a")), Index: e(&js_ast.EInt{})}),
				Right: e(&js_ast.EInt{}),
			}).MakeStmt(),
		}},
		Scope: fnScope,
	}
	p.GlobalBlock().Stmts = []js_ast.Stmt{e(fn).MakeStmt()}

	msgs := expectRun(t, p, Validate)
	test.AssertEqual(t, msgsToString(msgs), "")
}

func TestValidateReportsMalformedTrees(t *testing.T) {
	p := newProgram()
	notLabel := p.Scope.DeclareName("notLabel")
	fnScope := p.Scope.NewFunctionScope("fn")
	catchScope := fnScope.NewCatchScope("catch", "e")
	other := fnScope.DeclareName("other")

	p.GlobalBlock().Stmts = []js_ast.Stmt{
		{Data: &js_ast.SBlock{IsGlobal: true}},
		e(&js_ast.EBinary{Op: js_ast.BinOpAssign, Left: e(&js_ast.ECall{Target: e(ident("f"))}), Right: e(&js_ast.EInt{})}).MakeStmt(),
		e(&js_ast.ENameRef{Ident: "ghost", Ref: js_ast.Ref{ScopeIndex: 99}}).MakeStmt(),
		e(&js_ast.EFunction{Body: &js_ast.SBlock{}}).MakeStmt(),
		e(&js_ast.EFunction{Body: &js_ast.SBlock{}, Scope: catchScope}).MakeStmt(),
		e(&js_ast.EFunction{Scope: fnScope}).MakeStmt(),
		{Data: &js_ast.SBreak{Label: &js_ast.LocRef{Ref: notLabel}}},
		{Data: &js_ast.SForIn{Value: e(ident("o")), Body: js_ast.Stmt{Data: &js_ast.SEmpty{}}}},
		{Data: &js_ast.SSwitch{Test: e(ident("s")), Cases: []*js_ast.Case{{}, {}}}},
		{Data: &js_ast.STry{Body: &js_ast.SBlock{}}},
		{Data: &js_ast.SVars{}},
		{Data: &js_ast.STry{Body: &js_ast.SBlock{}, Catches: []*js_ast.Catch{{
			Param: &js_ast.Parameter{Name: other},
			Body:  &js_ast.SBlock{},
			Scope: catchScope,
		}}}},
	}

	log := logger.NewDeferLog()
	ok := Run(log, &config.Options{}, p, Validate)
	test.AssertEqual(t, ok, false)
	test.AssertEqualWithDiff(t, msgTexts(log.Done()), strings.Join([]string{
		`Only the top-level block of a fragment can be global`,
		`Cannot assign to a Call expression`,
		`The reference to "ghost" refers to a name that does not exist in this program`,
		`This function has no scope`,
		`This function has a catch scope "catch"`,
		`This function has no body`,
		`The name "notLabel" is used as a label but is not a label`,
		`A for-in loop must have exactly one of a variable or a target`,
		`A switch statement can have at most one default clause`,
		`A try statement needs a catch clause or a finally block`,
		`A var statement needs at least one declaration`,
		`The parameter of this catch clause is not the name bound by its scope`,
	}, "\n"))
}

func TestValidateFragmentBlock(t *testing.T) {
	p := newProgram()
	p.AddFragment().GlobalBlock.IsGlobal = false

	log := logger.NewDeferLog()
	Run(log, &config.Options{}, p, Validate)
	test.AssertEqual(t, msgTexts(log.Done()), "The top-level block of a fragment must be global")
}

func TestValidateUsesFragmentSource(t *testing.T) {
	p := newProgram()
	second := p.AddFragment()
	second.Source = &logger.Source{PrettyPath: "second.js", Contents: "var;"}
	second.GlobalBlock.Stmts = []js_ast.Stmt{{Loc: logger.Loc{Start: 0}, Data: &js_ast.SVars{}}}

	log := logger.NewDeferLog()
	Run(log, &config.Options{}, p, Validate)
	test.AssertEqualWithDiff(t, msgsToString(log.Done()),
		`second.js:1:0: error: A var statement needs at least one declaration
var;
^
`)
}

func TestValidateReportsLocationOfFunctionBody(t *testing.T) {
	p := newProgram()
	p.Fragments[0].Source = &logger.Source{PrettyPath: "fn.js", Contents: "f = function() {};"}
	fn := &js_ast.EFunction{Body: &js_ast.SBlock{IsGlobal: true}, Scope: p.Scope.NewFunctionScope("fn")}
	p.GlobalBlock().Stmts = []js_ast.Stmt{at(4, fn).MakeStmt()}

	log := logger.NewDeferLog()
	Run(log, &config.Options{}, p, Validate)
	test.AssertEqualWithDiff(t, msgsToString(log.Done()),
		`fn.js:1:4: error: Only the top-level block of a fragment can be global
f = function() {};
    ^
`)
}

func TestValidateDeleteOperand(t *testing.T) {
	p := newProgram()
	p.GlobalBlock().Stmts = []js_ast.Stmt{
		e(&js_ast.EUnary{Op: js_ast.UnOpDelete, Value: e(&js_ast.EIndex{Target: e(ident("o")), Index: e(ident("k"))})}).MakeStmt(),
		e(&js_ast.EUnary{Op: js_ast.UnOpDelete, Value: e(&js_ast.ECall{Target: e(ident("f"))})}).MakeStmt(),
	}
	expectRun(t, p, Validate)

	p.GlobalBlock().Stmts = []js_ast.Stmt{
		e(&js_ast.EUnary{Op: js_ast.UnOpPreInc, Value: e(&js_ast.ECall{Target: e(ident("f"))})}).MakeStmt(),
	}
	log := logger.NewDeferLog()
	test.AssertEqual(t, Run(log, &config.Options{}, p, Validate), false)
	test.AssertEqual(t, msgTexts(log.Done()), "Cannot assign to a Call expression")
}

func TestRunStopsAfterInternalError(t *testing.T) {
	p := newProgram()
	ranAfter := false
	broken := Pass{
		Name: "broken",
		Run: func(log logger.Log, program *js_ast.Program) {
			program.Scope.ExitLabel()
		},
	}
	after := Pass{
		Name: "after",
		Run:  func(log logger.Log, program *js_ast.Program) { ranAfter = true },
	}

	log := logger.NewDeferLog()
	ok := Run(log, &config.Options{}, p, broken, after)
	msgs := log.Done()

	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, ranAfter, false)
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Error)
	test.AssertEqual(t, msgs[0].Text,
		`Pass "broken" failed: Internal error (unsupported operation): No label to exit in root scope "root"`)
	if len(msgs[0].Notes) == 0 {
		t.Fatalf("Expected a stack trace in the notes")
	}
}

func TestRunStopsAfterLoggedError(t *testing.T) {
	p := newProgram()
	ranAfter := false
	failing := Pass{
		Name: "failing",
		Run: func(log logger.Log, program *js_ast.Program) {
			log.AddError(nil, logger.LocNone, "Something went wrong")
		},
	}
	after := Pass{
		Name: "after",
		Run:  func(log logger.Log, program *js_ast.Program) { ranAfter = true },
	}

	log := logger.NewDeferLog()
	test.AssertEqual(t, Run(log, &config.Options{}, p, failing, after), false)
	test.AssertEqual(t, ranAfter, false)
	test.AssertEqual(t, msgTexts(log.Done()), "Something went wrong")
}

func TestRunWithEarlierErrorsInLog(t *testing.T) {
	ranAfter := false
	addEmptyVars := Pass{
		Name: "add empty vars",
		Run: func(log logger.Log, program *js_ast.Program) {
			block := program.GlobalBlock()
			block.Stmts = append(block.Stmts, js_ast.Stmt{Data: &js_ast.SVars{}})
		},
	}
	failing := Pass{
		Name: "failing",
		Run: func(log logger.Log, program *js_ast.Program) {
			log.AddError(nil, logger.LocNone, "Something went wrong")
		},
	}
	after := Pass{
		Name: "after",
		Run:  func(log logger.Log, program *js_ast.Program) { ranAfter = true },
	}

	// An error from before the run doesn't fail passes that log nothing
	log := logger.NewDeferLog()
	log.AddError(nil, logger.LocNone, "Earlier error")
	test.AssertEqual(t, Run(log, &config.Options{ValidateAfterEachPass: true}, newProgram(), StripComments, after), true)
	test.AssertEqual(t, ranAfter, true)
	test.AssertEqual(t, msgTexts(log.Done()), "Earlier error")

	// Validation failures still stop the pipeline
	ranAfter = false
	log = logger.NewDeferLog()
	log.AddError(nil, logger.LocNone, "Earlier error")
	ok := Run(log, &config.Options{ValidateAfterEachPass: true}, newProgram(), addEmptyVars, after)
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, ranAfter, false)
	test.AssertEqual(t, msgTexts(log.Done()), "Earlier error\nA var statement needs at least one declaration")

	// So do errors logged by the pass itself
	log = logger.NewDeferLog()
	log.AddError(nil, logger.LocNone, "Earlier error")
	test.AssertEqual(t, Run(log, &config.Options{}, newProgram(), failing, after), false)
	test.AssertEqual(t, ranAfter, false)
	test.AssertEqual(t, msgTexts(log.Done()), "Earlier error\nSomething went wrong")
}

func TestRunIgnoresWarnings(t *testing.T) {
	ranAfter := false
	warning := Pass{
		Name: "warning",
		Run: func(log logger.Log, program *js_ast.Program) {
			log.AddWarning(nil, logger.LocNone, "Suspicious")
		},
	}
	after := Pass{
		Name: "after",
		Run:  func(log logger.Log, program *js_ast.Program) { ranAfter = true },
	}

	log := logger.NewDeferLog()
	test.AssertEqual(t, Run(log, &config.Options{}, newProgram(), warning, after), true)
	test.AssertEqual(t, ranAfter, true)
	test.AssertEqual(t, msgTexts(log.Done()), "Suspicious")
}

func TestRunRepanicsOtherPanics(t *testing.T) {
	p := newProgram()
	crash := Pass{
		Name: "crash",
		Run:  func(log logger.Log, program *js_ast.Program) { panic("boom") },
	}

	recovered := test.AssertPanics(t, func() {
		Run(logger.NewDeferLog(), &config.Options{}, p, crash)
	})
	test.AssertEqual(t, recovered, "boom")
}

func TestRunValidateAfterEachPass(t *testing.T) {
	p := newProgram()
	ranAfter := false
	addEmptyVars := Pass{
		Name: "add empty vars",
		Run: func(log logger.Log, program *js_ast.Program) {
			block := program.GlobalBlock()
			block.Stmts = append(block.Stmts, js_ast.Stmt{Data: &js_ast.SVars{}})
		},
	}
	after := Pass{
		Name: "after",
		Run:  func(log logger.Log, program *js_ast.Program) { ranAfter = true },
	}

	// Without validation the broken tree goes unnoticed
	expectRun(t, p, addEmptyVars)

	p = newProgram()
	log := logger.NewDeferLog()
	ok := Run(log, &config.Options{ValidateAfterEachPass: true}, p, addEmptyVars, after)
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, ranAfter, false)
	test.AssertEqual(t, msgTexts(log.Done()), "A var statement needs at least one declaration")
}

func TestRunVerbose(t *testing.T) {
	log := logger.NewDeferLog()
	options := config.Options{LogLevel: logger.LevelVerbose, ValidateAfterEachPass: true}
	ok := Run(log, &options, newProgram(), StripComments, FlattenBlocks)
	test.AssertEqual(t, ok, true)
	test.AssertEqualWithDiff(t, msgTexts(log.Done()), strings.Join([]string{
		`Running pass "strip comments"`,
		`Running pass "validate"`,
		`Running pass "flatten blocks"`,
		`Running pass "validate"`,
	}, "\n"))

	// Nothing is logged at the default level
	log = logger.NewDeferLog()
	Run(log, &config.Options{}, newProgram(), StripComments, FlattenBlocks)
	test.AssertEqual(t, len(log.Done()), 0)
}

func TestRunTiming(t *testing.T) {
	log := logger.NewDeferLog()
	ok := Run(log, &config.Options{Timing: true}, newProgram(), StripComments, FlattenBlocks)
	msgs := log.Done()

	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Info)
	test.AssertEqual(t, msgs[0].Text, "Timing information")
	test.AssertEqual(t, len(msgs[0].Notes), 2)
	test.AssertEqual(t, strings.HasPrefix(msgs[0].Notes[0], "strip comments: "), true)
	test.AssertEqual(t, strings.HasPrefix(msgs[0].Notes[1], "flatten blocks: "), true)
}
