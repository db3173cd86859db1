package js_ast

// Every identifier here is declared in the root scope when a program is
// created. Root names are never obfuscatable, so nothing the compiler
// synthesizes can shadow one of these and the code generator will never rename
// a reference that resolves to one.
//
// This is a slice rather than a map so the root scope's name arena has the
// same layout in every run.
var ReservedNames = []string{
	// Keywords
	"break",
	"case",
	"catch",
	"class",
	"const",
	"continue",
	"debugger",
	"default",
	"delete",
	"do",
	"else",
	"enum",
	"export",
	"extends",
	"false",
	"finally",
	"for",
	"function",
	"if",
	"import",
	"in",
	"instanceof",
	"new",
	"null",
	"return",
	"super",
	"switch",
	"this",
	"throw",
	"true",
	"try",
	"typeof",
	"var",
	"void",
	"while",
	"with",

	// Strict mode reserved words
	"await",
	"implements",
	"interface",
	"let",
	"package",
	"private",
	"protected",
	"public",
	"static",
	"yield",

	// Language globals
	"arguments",
	"eval",
	"undefined",
	"NaN",
	"Infinity",
	"globalThis",
	"Object",
	"Function",
	"Array",
	"String",
	"Boolean",
	"Number",
	"Symbol",
	"Math",
	"Date",
	"RegExp",
	"JSON",
	"Error",
	"EvalError",
	"RangeError",
	"ReferenceError",
	"SyntaxError",
	"TypeError",
	"URIError",
	"Promise",
	"Map",
	"Set",
	"WeakMap",
	"WeakSet",
	"Proxy",
	"Reflect",
	"ArrayBuffer",
	"DataView",
	"Int8Array",
	"Uint8Array",
	"Uint8ClampedArray",
	"Int16Array",
	"Uint16Array",
	"Int32Array",
	"Uint32Array",
	"Float32Array",
	"Float64Array",
	"isNaN",
	"isFinite",
	"parseInt",
	"parseFloat",
	"encodeURI",
	"encodeURIComponent",
	"decodeURI",
	"decodeURIComponent",
	"escape",
	"unescape",

	// Host globals
	"window",
	"self",
	"document",
	"navigator",
	"location",
	"console",
	"setTimeout",
	"clearTimeout",
	"setInterval",
	"clearInterval",
	"require",
	"module",
	"exports",
	"process",
}

// Declares every reserved identifier plus "extra" in the root scope.
// Duplicates are harmless since "DeclareName" is idempotent.
func populateRootScope(root *Scope, extra []string) {
	for _, ident := range ReservedNames {
		root.DeclareName(ident)
	}
	for _, ident := range extra {
		if !IsIdentifier(ident) {
			internalError(ErrInvalidArgument, "Reserved name %q is not a valid identifier", ident)
		}
		root.DeclareName(ident)
	}
}
