package js_ast

import "math"

// These are the facts that constant folding and the code generator rely on.
// A false result only means "not known".

// Returns true if evaluating the expression could have an observable effect
// other than producing its value
func HasSideEffects(data E) bool {
	switch e := data.(type) {
	case *ENull, *EBoolean, *EInt, *EDouble, *EString, *ERegExp, *EThis, *EFunction:
		return false

	case *EArray:
		for _, item := range e.Items {
			if HasSideEffects(item.Data) {
				return true
			}
		}
		return false

	case *EObject:
		for _, property := range e.Properties {
			if HasSideEffects(property.Key.Data) || HasSideEffects(property.Value.Data) {
				return true
			}
		}
		return false

	case *ENameRef:
		// Reading a property of null or undefined throws
		if e.Qualifier != nil {
			return HasSideEffects(e.Qualifier.Data) || !IsDefinitelyNotNull(e.Qualifier.Data)
		}
		return false

	case *EIndex:
		return HasSideEffects(e.Target.Data) || HasSideEffects(e.Index.Data)

	case *EBinary:
		return e.Op.IsAssign() || HasSideEffects(e.Left.Data) || HasSideEffects(e.Right.Data)

	case *EUnary:
		return e.Op.IsModifying() || HasSideEffects(e.Value.Data)

	case *EConditional:
		return HasSideEffects(e.Test.Data) || HasSideEffects(e.Yes.Data) || HasSideEffects(e.No.Data)

	case *ECall, *ENew:
		return true
	}

	return true
}

func IsDefinitelyNotNull(data E) bool {
	switch e := data.(type) {
	case *EArray, *EObject, *EFunction, *EBoolean, *EInt, *EDouble, *EString, *ERegExp, *EThis, *ENew:
		return true

	case *EUnary:
		if e.Op.IsPrefix() {
			return e.Op != UnOpVoid
		}
		return true

	case *EBinary:
		switch e.Op {
		case BinOpAssign, BinOpComma:
			return IsDefinitelyNotNull(e.Right.Data)

		case BinOpLogicalOr:
			// Only the case where the right side is never evaluated is handled
			return CanBooleanEval(e.Left.Data) && IsBooleanTrue(e.Left.Data) && IsDefinitelyNotNull(e.Left.Data)

		case BinOpLogicalAnd:
			return false
		}

		// Compound assignments are arithmetic
		if e.Op.IsAssign() {
			return true
		}
		return OpTable[e.Op].Level > LLogicalAnd

	case *EConditional:
		return IsDefinitelyNotNull(e.Yes.Data) && IsDefinitelyNotNull(e.No.Data)
	}

	return false
}

// Both "null" and "undefined" count as null here
func IsDefinitelyNull(data E) bool {
	switch e := data.(type) {
	case *ENull:
		return true

	case *EUnary:
		return e.Op == UnOpVoid

	case *EBinary:
		if e.Op == BinOpLogicalAnd {
			return IsDefinitelyNull(e.Left.Data)
		}

	case *EConditional:
		return IsDefinitelyNull(e.Yes.Data) && IsDefinitelyNull(e.No.Data)
	}

	return false
}

// Returns true if "IsBooleanTrue" and "IsBooleanFalse" can be trusted. When
// this is false, both of them return false.
func CanBooleanEval(data E) bool {
	switch e := data.(type) {
	case *EBoolean, *ENull, *EInt, *EDouble, *EString, *EArray, *EObject, *EFunction, *ERegExp:
		return true

	case *EUnary:
		switch e.Op {
		case UnOpNot:
			return CanBooleanEval(e.Value.Data)
		case UnOpTypeof, UnOpVoid:
			return true
		}
	}

	return false
}

// Returns true if the expression is known to be truthy
func IsBooleanTrue(data E) bool {
	switch e := data.(type) {
	case *EBoolean:
		return e.Value

	case *EInt:
		return e.Value != 0

	case *EDouble:
		return e.Value != 0 && !math.IsNaN(e.Value)

	case *EString:
		return len(e.Value) > 0

	case *EArray, *EObject, *EFunction, *ERegExp:
		return true

	case *EUnary:
		switch e.Op {
		case UnOpNot:
			return CanBooleanEval(e.Value.Data) && IsBooleanFalse(e.Value.Data)
		case UnOpTypeof:
			// Never an empty string
			return true
		}
	}

	return false
}

// Returns true if the expression is known to be falsy
func IsBooleanFalse(data E) bool {
	switch e := data.(type) {
	case *EBoolean:
		return !e.Value

	case *ENull:
		return true

	case *EInt:
		return e.Value == 0

	case *EDouble:
		return e.Value == 0 || math.IsNaN(e.Value)

	case *EString:
		return len(e.Value) == 0

	case *EUnary:
		switch e.Op {
		case UnOpNot:
			return CanBooleanEval(e.Value.Data) && IsBooleanTrue(e.Value.Data)
		case UnOpVoid:
			return true
		}
	}

	return false
}

// Leaves never need parentheses when printed as an operand
func IsLeaf(data E) bool {
	switch e := data.(type) {
	case *ENull, *EBoolean, *EInt, *EDouble, *EString, *ERegExp, *EThis,
		*EArray, *EObject, *EFunction:
		return true

	case *ENameRef:
		return e.Qualifier == nil
	}

	return false
}
