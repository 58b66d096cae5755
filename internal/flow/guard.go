package flow

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/types"
)

// applyGuard narrows base per the guard kind n carries, respecting
// n.Negated (the false/failure branch of the guard). Each guard kind
// defines its own narrow/widen pair (spec §4.7 "Contracts").
func (e *Engine) applyGuard(n *bind.FlowNode, symbol bind.SymbolID, base types.TypeID) types.TypeID {
	switch n.Kind {
	case bind.FlowTypeOfGuard:
		return e.narrowTypeOf(n, base)
	case bind.FlowInstanceOfGuard:
		return e.narrowInstanceOf(n, base)
	case bind.FlowTruthinessGuard:
		return e.narrowTruthiness(n, base)
	case bind.FlowEqualityGuard:
		return e.narrowEquality(n, base)
	case bind.FlowSwitchClause:
		return e.narrowSwitchClause(n, base)
	case bind.FlowAssertionCall:
		return e.narrowAssertion(n, base)
	case bind.FlowForInOfElement:
		return e.narrowForInOf(n, base)
	}
	return base
}

func (e *Engine) binaryOperands(expr ast.ExprID) (ast.BinaryExpr, bool) {
	if !expr.IsValid() {
		return ast.BinaryExpr{}, false
	}
	node := e.Exprs.Get(expr)
	if node == nil || node.Kind != ast.ExprBinary {
		return ast.BinaryExpr{}, false
	}
	return *e.Exprs.Binaries.Get(node.Payload), true
}

// typeofTag decodes the `typeof x === "tag"` guard: returns the literal
// string operand's text.
func (e *Engine) typeofTag(expr ast.ExprID) (string, bool) {
	bin, ok := e.binaryOperands(expr)
	if !ok {
		return "", false
	}
	for _, side := range [2]ast.ExprID{bin.Left, bin.Right} {
		s := e.Exprs.Get(side)
		if s != nil && s.Kind == ast.ExprStringLit {
			lit := e.Exprs.Strings.Get(s.Payload)
			if lit == nil {
				continue
			}
			txt, ok := e.Strs.Lookup(lit.Value)
			if ok {
				return txt, true
			}
		}
	}
	return "", false
}

func (e *Engine) narrowTypeOf(n *bind.FlowNode, base types.TypeID) types.TypeID {
	tag, ok := e.typeofTag(n.Expr)
	if !ok {
		return base
	}
	switch tag {
	case "string", "number", "boolean", "bigint", "symbol", "undefined", "function", "object":
	default:
		return base
	}
	if !n.Negated {
		return e.intersectWithTag(base, tag)
	}
	return e.excludeTag(base, tag)
}

// tagMatches reports whether t's runtime typeof would equal tag.
func (e *Engine) tagMatches(t types.TypeID, tag string) bool {
	b := e.Types.Builtins()
	ty, ok := e.Types.Lookup(t)
	if !ok {
		return false
	}
	switch ty.Kind {
	case types.KindIntrinsic:
		switch tag {
		case "string":
			return t == b.String
		case "number":
			return t == b.Number
		case "boolean":
			return t == b.Boolean
		case "bigint":
			return t == b.BigInt
		case "symbol":
			return t == b.Symbol
		case "undefined":
			return t == b.Undefined
		case "function":
			return t == b.Function
		case "object":
			return t == b.Object || t == b.Null
		}
		return false
	case types.KindLiteral:
		info, _ := e.Types.LiteralInfo(t)
		switch tag {
		case "string":
			return info.ValueKind == types.LiteralValueString
		case "number":
			return info.ValueKind == types.LiteralValueNumber
		case "bigint":
			return info.ValueKind == types.LiteralValueBigInt
		case "boolean":
			return info.ValueKind == types.LiteralValueBoolean
		}
		return false
	case types.KindFunction, types.KindCallable:
		return tag == "function"
	case types.KindObject, types.KindObjectWithIndex, types.KindArray, types.KindTuple:
		return tag == "object"
	}
	return false
}

func (e *Engine) intersectWithTag(base types.TypeID, tag string) types.TypeID {
	return e.filterUnion(base, func(m types.TypeID) bool { return e.tagMatches(m, tag) })
}

func (e *Engine) excludeTag(base types.TypeID, tag string) types.TypeID {
	return e.filterUnion(base, func(m types.TypeID) bool { return !e.tagMatches(m, tag) })
}

// filterUnion keeps only the union members (or the whole type, if it isn't
// a union) satisfying keep. An empty result falls back to NEVER.
func (e *Engine) filterUnion(id types.TypeID, keep func(types.TypeID) bool) types.TypeID {
	if e.Types.IsUnion(id) {
		var kept []types.TypeID
		for _, m := range e.Types.UnionMembers(id) {
			if keep(m) {
				kept = append(kept, m)
			}
		}
		switch len(kept) {
		case 0:
			return e.Types.Builtins().Never
		case 1:
			return kept[0]
		default:
			return e.Types.InternUnion(kept)
		}
	}
	if keep(id) {
		return id
	}
	return e.Types.Builtins().Never
}

func (e *Engine) narrowInstanceOf(n *bind.FlowNode, base types.TypeID) types.TypeID {
	bin, ok := e.binaryOperands(n.Expr)
	if !ok || e.ClassInstanceType == nil {
		return base
	}
	rhs := e.Exprs.Get(bin.Right)
	if rhs == nil || rhs.Kind != ast.ExprIdent {
		return base
	}
	ident := e.Exprs.Idents.Get(rhs.Payload)
	if ident == nil {
		return base
	}
	target, ok := e.ClassInstanceType(ident.Name)
	if !ok {
		return base
	}
	if !n.Negated {
		return target
	}
	return e.filterUnion(base, func(m types.TypeID) bool { return m != target })
}

func (e *Engine) isFalsy(t types.TypeID) bool {
	b := e.Types.Builtins()
	if t == b.Null || t == b.Undefined || t == b.Void {
		return true
	}
	ty, ok := e.Types.Lookup(t)
	if !ok {
		return false
	}
	if ty.Kind != types.KindLiteral {
		return false
	}
	info, _ := e.Types.LiteralInfo(t)
	switch info.ValueKind {
	case types.LiteralValueBoolean:
		return !info.Bool
	case types.LiteralValueNumber:
		return info.Num == 0
	case types.LiteralValueString:
		s, _ := e.Strs.Lookup(info.Str)
		return s == ""
	}
	return false
}

func (e *Engine) narrowTruthiness(n *bind.FlowNode, base types.TypeID) types.TypeID {
	if !n.Negated {
		return e.filterUnion(base, func(m types.TypeID) bool { return !e.isFalsy(m) })
	}
	return e.filterUnion(base, func(m types.TypeID) bool { return e.isFalsy(m) })
}

// equalityOperand decodes one side of an equality/switch-clause comparison
// into a literal type, reporting ok=false for anything else (a variable, a
// call, ...). propName is set when the compared expression is a property
// access (`x.kind`) rather than the bare symbol (`x`), for discriminant
// narrowing on a union of object shapes.
func (e *Engine) equalityOperand(expr ast.ExprID) (lit types.TypeID, propName source.StringID, hasProp bool, ok bool) {
	node := e.Exprs.Get(expr)
	if node == nil {
		return types.NoTypeID, source.NoStringID, false, false
	}
	switch node.Kind {
	case ast.ExprPropertyAccess:
		pa := e.Exprs.PropertyAccess.Get(node.Payload)
		if pa == nil {
			return types.NoTypeID, source.NoStringID, false, false
		}
		return types.NoTypeID, pa.Name, true, true
	case ast.ExprStringLit:
		s := e.Exprs.Strings.Get(node.Payload)
		if s == nil {
			return types.NoTypeID, source.NoStringID, false, false
		}
		return e.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: s.Value}), source.NoStringID, false, true
	case ast.ExprNumberLit:
		nlit := e.Exprs.Numbers.Get(node.Payload)
		if nlit == nil {
			return types.NoTypeID, source.NoStringID, false, false
		}
		return e.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueNumber, Num: nlit.Value}), source.NoStringID, false, true
	case ast.ExprBoolLit:
		blit := e.Exprs.Bools.Get(node.Payload)
		if blit == nil {
			return types.NoTypeID, source.NoStringID, false, false
		}
		return e.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueBoolean, Bool: blit.Value}), source.NoStringID, false, true
	case ast.ExprNullLit:
		return e.Types.Builtins().Null, source.NoStringID, false, true
	case ast.ExprUndefinedLit:
		return e.Types.Builtins().Undefined, source.NoStringID, false, true
	}
	return types.NoTypeID, source.NoStringID, false, false
}

// equalityLiteral extracts the literal operand of an equality guard,
// tolerating either comparison order (`x === "a"` or `"a" === x`), and
// reports whether the other side was a discriminant property access.
func (e *Engine) equalityLiteral(expr ast.ExprID) (lit types.TypeID, propName source.StringID, hasProp bool, ok bool) {
	bin, isBin := e.binaryOperands(expr)
	if !isBin {
		return types.NoTypeID, source.NoStringID, false, false
	}
	if l, _, _, okL := e.equalityOperand(bin.Left); okL && l != types.NoTypeID {
		_, p, hp, _ := e.equalityOperand(bin.Right)
		return l, p, hp, true
	}
	if r, _, _, okR := e.equalityOperand(bin.Right); okR && r != types.NoTypeID {
		_, p, hp, _ := e.equalityOperand(bin.Left)
		return r, p, hp, true
	}
	return types.NoTypeID, source.NoStringID, false, false
}

// propertyMatchesLiteral reports whether object type m carries a property
// named prop whose type includes lit (spec §4.7 discriminant narrowing).
func (e *Engine) propertyMatchesLiteral(m types.TypeID, prop source.StringID, lit types.TypeID) bool {
	_, props, ok := e.Types.ObjectInfo(m)
	if !ok {
		return false
	}
	for _, p := range props {
		if p.Name != prop {
			continue
		}
		if p.Type == lit {
			return true
		}
		if e.Types.IsUnion(p.Type) {
			for _, um := range e.Types.UnionMembers(p.Type) {
				if um == lit {
					return true
				}
			}
		}
		return false
	}
	return false
}

func (e *Engine) narrowEquality(n *bind.FlowNode, base types.TypeID) types.TypeID {
	lit, prop, hasProp, ok := e.equalityLiteral(n.Expr)
	if !ok {
		return base
	}
	var keep func(m types.TypeID) bool
	if hasProp {
		keep = func(m types.TypeID) bool { return e.propertyMatchesLiteral(m, prop, lit) }
	} else {
		keep = func(m types.TypeID) bool { return m == lit }
	}
	if !n.Negated {
		return e.filterUnion(base, keep)
	}
	return e.filterUnion(base, func(m types.TypeID) bool { return !keep(m) })
}

// narrowSwitchClause narrows on a `case <literal>:` test — n.Expr is the
// case test itself, not a comparison, since the discriminant is the switch
// subject (spec §4.7's equality-guard narrow/widen pair applied per clause).
func (e *Engine) narrowSwitchClause(n *bind.FlowNode, base types.TypeID) types.TypeID {
	lit, _, _, ok := e.equalityOperand(n.Expr)
	if !ok {
		return base
	}
	keep := func(m types.TypeID) bool { return m == lit }
	if !n.Negated {
		return e.filterUnion(base, keep)
	}
	return e.filterUnion(base, func(m types.TypeID) bool { return !keep(m) })
}

func (e *Engine) narrowAssertion(n *bind.FlowNode, base types.TypeID) types.TypeID {
	if n.Negated || e.AssertedType == nil {
		return base
	}
	if t, ok := e.AssertedType(n.Expr); ok {
		return t
	}
	return base
}

func (e *Engine) narrowForInOf(n *bind.FlowNode, base types.TypeID) types.TypeID {
	if n.Negated {
		return base
	}
	return e.Types.Builtins().String
}
