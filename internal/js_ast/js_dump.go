package js_ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsir-dev/jsir/internal/helpers"
)

// Renders a tree with one node per line and children indented below their
// parent. Names are printed using "table", which may be nil. Unresolved name
// references are printed with a "?" in front of the identifier.
//
// This is not JavaScript. It shows the exact shape of the tree, which is what
// tests need to compare.
func Dump(table *NameTable, node Node) string {
	d := &dumper{table: table}
	Accept(d, node)
	return string(d.j.Done())
}

type dumper struct {
	table *NameTable
	j     helpers.Joiner
	depth int
}

func (d *dumper) Visit(node Node, ctx *Context) bool {
	d.j.AddString(strings.Repeat("  ", d.depth))
	d.j.AddString(d.describe(node))
	d.j.AddString("\n")
	d.depth++
	return true
}

func (d *dumper) EndVisit(node Node, ctx *Context) {
	d.depth--
}

func (d *dumper) name(ref Ref) string {
	if d.table == nil || !d.table.IsValidRef(ref) {
		return fmt.Sprintf("#%d.%d", ref.ScopeIndex, ref.InnerIndex)
	}
	return d.table.Get(ref).Ident
}

func (d *dumper) describe(node Node) string {
	kind := node.Kind().String()

	switch n := node.(type) {
	case *EBinary:
		return kind + " " + OpTable[n.Op].Text

	case *EUnary:
		return kind + " " + OpTable[n.Op].Text

	case *EBoolean:
		return kind + " " + strconv.FormatBool(n.Value)

	case *EInt:
		return kind + " " + strconv.Itoa(int(n.Value))

	case *EDouble:
		return kind + " " + strconv.FormatFloat(n.Value, 'g', -1, 64)

	case *EString:
		return kind + " " + string(helpers.QuoteForJSON(n.Value))

	case *ERegExp:
		return kind + " /" + n.Pattern + "/" + n.Flags

	case *ENameRef:
		if !n.IsResolved() {
			return kind + " ?" + n.Ident
		}
		return kind + " " + d.name(n.Ref)

	case *EFunction:
		if n.Name != nil {
			return kind + " " + d.name(n.Name.Ref)
		}

	case *EObject:
		if n.IsMultiLine {
			return kind + " multi-line"
		}

	case *SBlock:
		if n.IsGlobal {
			return kind + " global"
		}

	case *SBreak:
		if n.Label != nil {
			return kind + " " + d.name(n.Label.Ref)
		}

	case *SContinue:
		if n.Label != nil {
			return kind + " " + d.name(n.Label.Ref)
		}

	case *SLabel:
		return kind + " " + d.name(n.Name.Ref)

	case *SFor:
		// Only present slots are visited, so spell out which ones those are
		var parts []string
		if n.Init != nil {
			parts = append(parts, "init")
		}
		if n.Test != nil {
			parts = append(parts, "test")
		}
		if n.Update != nil {
			parts = append(parts, "update")
		}
		if len(parts) > 0 {
			return kind + " " + strings.Join(parts, " ")
		}

	case *SIf:
		if n.No != nil {
			return kind + " else"
		}

	case *STry:
		if n.Finally != nil {
			return kind + " finally"
		}

	case *SVars:
		if n.IsMultiLine {
			return kind + " multi-line"
		}

	case *SComment:
		return kind + " " + string(helpers.QuoteForJSON(n.Text))

	case *Parameter:
		return kind + " " + d.name(n.Name)

	case *VarDecl:
		return kind + " " + d.name(n.Name)
	}

	return kind
}
