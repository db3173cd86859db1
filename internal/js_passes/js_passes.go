package js_passes

// The pass driver runs passes over a program one after another. Passes never
// run concurrently and the tree is never shared between two passes at once.
// A pass that breaks one of the tree's contracts panics with an internal
// error, and the driver turns that into a logged error and stops the pipeline
// so later passes never see an inconsistent tree.

import (
	"fmt"
	"strings"

	"github.com/jsir-dev/jsir/internal/config"
	"github.com/jsir-dev/jsir/internal/helpers"
	"github.com/jsir-dev/jsir/internal/js_ast"
	"github.com/jsir-dev/jsir/internal/logger"
)

type Pass struct {
	Name string
	Run  func(log logger.Log, program *js_ast.Program)
}

// Returns false if any pass failed. The remaining passes are skipped after a
// failure. Passes fail by panicking with an internal error or by logging an
// error.
func Run(log logger.Log, options *config.Options, program *js_ast.Program, passes ...Pass) bool {
	var timer *helpers.Timer
	if options.Timing {
		timer = &helpers.Timer{}
	}
	defer timer.Log(log)

	for _, pass := range passes {
		if !runPass(log, options, program, pass, timer) {
			return false
		}
		if options.ValidateAfterEachPass && !runPass(log, options, program, Validate, timer) {
			return false
		}
	}

	return true
}

// A pass fails if it logs an error itself. Errors that were already in the
// log before it started don't count against it.
func runPass(log logger.Log, options *config.Options, program *js_ast.Program, pass Pass, timer *helpers.Timer) (ok bool) {
	if options.LogLevel == logger.LevelVerbose {
		log.AddVerbose(fmt.Sprintf("Running pass %q", pass.Name))
	}

	timer.Begin(pass.Name)
	defer timer.End(pass.Name)

	defer func() {
		if r := recover(); r != nil {
			err, isInternal := r.(*js_ast.InternalError)
			if !isInternal {
				panic(r)
			}
			log.AddErrorWithNotes(nil, logger.LocNone,
				fmt.Sprintf("Pass %q failed: %s", pass.Name, err.Error()),
				strings.Split(helpers.PrettyPrintedStack(), "\n"))
			ok = false
		}
	}()

	passLog, loggedError := watchForErrors(log)
	pass.Run(passLog, program)
	return !*loggedError
}

// Forwards every message to "log" and records whether any of them was an
// error
func watchForErrors(log logger.Log) (logger.Log, *bool) {
	loggedError := false
	watched := log
	watched.AddMsg = func(msg logger.Msg) {
		if msg.Kind == logger.Error {
			loggedError = true
		}
		log.AddMsg(msg)
	}
	return watched, &loggedError
}

// Passes that report diagnostics need to know which fragment a node is in,
// since each fragment may come from a different source file
type fragmentTracker struct {
	current *js_ast.Fragment
}

func (t *fragmentTracker) enter(node js_ast.Node) {
	if fragment, ok := node.(*js_ast.Fragment); ok {
		t.current = fragment
	}
}

func (t *fragmentTracker) source() *logger.Source {
	if t.current == nil {
		return nil
	}
	return t.current.Source
}
