package lower

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/types"
)

// TypeFromNode implements Type-Node Lowering (spec §4.5): dispatch over the
// syntactic kind of a TypeNode, producing an interned TypeID. scope resolves
// in-scope type-parameter identifiers; it may be nil at the top level.
func (l *Lowerer) TypeFromNode(id ast.TypeNodeID, scope *TypeParamScope) types.TypeID {
	if id == ast.NoTypeNodeID {
		return l.Types.Builtins().Any
	}
	node := l.TypeNodes.Get(id)
	if node == nil {
		return l.Types.Builtins().Error
	}
	if !l.consumeFuel() {
		return l.Types.Builtins().Error
	}
	switch node.Kind {
	case ast.TypeNodeRef:
		return l.lowerTypeRef(node, scope)
	case ast.TypeNodeQualifiedName:
		return l.lowerQualifiedName(node)
	case ast.TypeNodeUnion:
		return l.lowerUnion(node, scope)
	case ast.TypeNodeIntersection:
		return l.lowerIntersection(node, scope)
	case ast.TypeNodeParen:
		p := l.TypeNodes.Parens.Get(node.Payload)
		if p == nil {
			return l.Types.Builtins().Error
		}
		return l.TypeFromNode(p.Inner, scope)
	case ast.TypeNodeArray:
		a := l.TypeNodes.Arrays.Get(node.Payload)
		if a == nil {
			return l.Types.Builtins().Error
		}
		return l.Types.InternArray(l.TypeFromNode(a.Element, scope))
	case ast.TypeNodeTuple:
		return l.lowerTuple(node, scope)
	case ast.TypeNodeFunction, ast.TypeNodeConstructor:
		return l.lowerFunctionType(node, scope, node.Kind == ast.TypeNodeConstructor)
	case ast.TypeNodeKeyOf:
		k := l.TypeNodes.KeyOfs.Get(node.Payload)
		if k == nil {
			return l.Types.Builtins().Error
		}
		return l.Types.InternKeyOf(l.TypeFromNode(k.Operand, scope))
	case ast.TypeNodeReadonly:
		r := l.TypeNodes.Readonlys.Get(node.Payload)
		if r == nil {
			return l.Types.Builtins().Error
		}
		return l.Types.InternReadonly(l.TypeFromNode(r.Operand, scope))
	case ast.TypeNodeUniqueSymbol:
		return l.Types.InternUniqueSymbol(0)
	case ast.TypeNodeIndexedAccess:
		ia := l.TypeNodes.IndexedAccesses.Get(node.Payload)
		if ia == nil {
			return l.Types.Builtins().Error
		}
		return l.Types.InternIndexAccess(l.TypeFromNode(ia.Object, scope), l.TypeFromNode(ia.Index, scope))
	case ast.TypeNodeConditional:
		return l.lowerConditional(node, scope)
	case ast.TypeNodeInfer:
		inf := l.TypeNodes.Infers.Get(node.Payload)
		if inf == nil {
			return l.Types.Builtins().Error
		}
		constraint := types.NoTypeID
		if inf.Constraint != ast.NoTypeNodeID {
			constraint = l.TypeFromNode(inf.Constraint, scope)
		}
		param := l.Types.InternTypeParameter(types.TypeParamInfo{Name: inf.Name, Constraint: constraint})
		scope.Bind(inf.Name, param)
		return l.Types.InternInfer(param)
	case ast.TypeNodeMapped:
		return l.lowerMapped(node, scope)
	case ast.TypeNodeTypeLiteral:
		return l.lowerTypeLiteral(node, scope)
	case ast.TypeNodeTypeQuery:
		tq := l.TypeNodes.TypeQueries.Get(node.Payload)
		if tq == nil {
			return l.Types.Builtins().Error
		}
		return l.lowerTypeQuery(tq)
	case ast.TypeNodeTemplateLiteral:
		return l.lowerTemplateLiteral(node, scope)
	case ast.TypeNodeStringIntrinsic:
		si := l.TypeNodes.StringIntrinsics.Get(node.Payload)
		if si == nil {
			return l.Types.Builtins().Error
		}
		return l.Types.InternStringIntrinsic(types.StringIntrinsicKind(si.Kind), l.TypeFromNode(si.Operand, scope))
	case ast.TypeNodeLiteral:
		return l.lowerLiteral(node)
	case ast.TypeNodeThis:
		return l.Types.InternThis()
	case ast.TypeNodeImportType:
		// import("module").Member isn't resolvable without the module
		// resolver's specifier map (spec §4.10), so it lowers to any; nothing
		// later replaces it with the cross-file type.
		return l.Types.Builtins().Any
	default:
		return l.Types.Builtins().Error
	}
}

func (l *Lowerer) lowerTypeRef(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	ref := l.TypeNodes.Refs.Get(node.Payload)
	if ref == nil {
		return l.Types.Builtins().Error
	}
	if t, ok := scope.Lookup(ref.Name); ok {
		return t
	}
	if t, ok := l.intrinsicByName(ref.Name); ok {
		return t
	}
	sym, ok := l.Resolver.ResolveTypeName(ref.Name)
	if !ok {
		l.reportf(node.Span, diag.TS2304, "cannot find name")
		return l.Types.Builtins().Error
	}
	def, hasDef := l.Resolver.DefOf(sym)
	if !hasDef {
		return l.Types.Builtins().Any
	}
	declaredParams := l.Defs.TypeParams(def)
	if len(ref.TypeArgs) == 0 {
		if len(declaredParams) > 0 {
			l.reportf(node.Span, diag.TS2314, "generic type requires type arguments")
			return l.Types.Builtins().Error
		}
		return l.Types.InternLazy(def)
	}
	if len(declaredParams) == 0 {
		l.reportf(node.Span, diag.TS2315, "type is not generic")
		return l.Types.InternLazy(def)
	}
	args := make([]types.TypeID, 0, len(ref.TypeArgs))
	for _, a := range ref.TypeArgs {
		args = append(args, l.TypeFromNode(a, scope))
	}
	return l.Types.InternApplication(def, args)
}

func (l *Lowerer) intrinsicByName(name source.StringID) (types.TypeID, bool) {
	if l.Strings == nil {
		return types.NoTypeID, false
	}
	str, ok := l.Strings.Lookup(name)
	if !ok {
		return types.NoTypeID, false
	}
	b := l.Types.Builtins()
	switch str {
	case "any":
		return b.Any, true
	case "unknown":
		return b.Unknown, true
	case "never":
		return b.Never, true
	case "void":
		return b.Void, true
	case "null":
		return b.Null, true
	case "undefined":
		return b.Undefined, true
	case "boolean":
		return b.Boolean, true
	case "number":
		return b.Number, true
	case "string":
		return b.String, true
	case "bigint":
		return b.BigInt, true
	case "symbol":
		return b.Symbol, true
	case "object":
		return b.Object, true
	}
	return types.NoTypeID, false
}

func (l *Lowerer) lowerQualifiedName(node *ast.TypeNode) types.TypeID {
	qn := l.TypeNodes.QualifiedNames.Get(node.Payload)
	if qn == nil || len(qn.Parts) == 0 {
		return l.Types.Builtins().Error
	}
	sym, ok := l.Resolver.ResolveTypeName(qn.Parts[0])
	if !ok {
		l.reportf(node.Span, diag.TS2503, "cannot find namespace")
		return l.Types.Builtins().Error
	}
	// Dotted traversal past the first segment needs the owning namespace's
	// export table, which the module resolver (internal/modres) supplies;
	// here we resolve only the head and let that layer walk the rest.
	def, hasDef := l.Resolver.DefOf(sym)
	if !hasDef {
		return l.Types.Builtins().Any
	}
	if len(qn.Parts) == 1 {
		return l.Types.InternLazy(def)
	}
	l.reportf(node.Span, diag.TS2694, "namespace has no exported member")
	return l.Types.Builtins().Error
}

func (l *Lowerer) lowerUnion(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	u := l.TypeNodes.Unions.Get(node.Payload)
	if u == nil {
		return l.Types.Builtins().Error
	}
	members := make([]types.TypeID, 0, len(u.Members))
	for _, m := range u.Members {
		members = append(members, l.TypeFromNode(m, scope))
	}
	return l.Types.InternUnion(members)
}

func (l *Lowerer) lowerIntersection(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	it := l.TypeNodes.Intersections.Get(node.Payload)
	if it == nil {
		return l.Types.Builtins().Error
	}
	members := make([]types.TypeID, 0, len(it.Members))
	for _, m := range it.Members {
		members = append(members, l.TypeFromNode(m, scope))
	}
	return l.Types.InternIntersection(members)
}

func (l *Lowerer) lowerTuple(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	tup := l.TypeNodes.Tuples.Get(node.Payload)
	if tup == nil {
		return l.Types.Builtins().Error
	}
	elems := make([]types.TupleElement, 0, len(tup.Elements))
	for _, e := range tup.Elements {
		elems = append(elems, types.TupleElement{
			Name: e.Label, Type: l.TypeFromNode(e.Type, scope), Optional: e.IsOptional, Rest: e.IsRest,
		})
	}
	return l.Types.InternTuple(elems)
}

func (l *Lowerer) lowerFunctionType(node *ast.TypeNode, scope *TypeParamScope, isConstructor bool) types.TypeID {
	fn := l.TypeNodes.Functions.Get(node.Payload)
	if fn == nil {
		return l.Types.Builtins().Error
	}
	fnScope := l.pushTypeParamIDs(scope, fn.TypeParams)
	params := make([]types.Param, 0, len(fn.Params))
	for _, pid := range fn.Params {
		p := l.Decls.Params.Get(pid)
		if p == nil {
			continue
		}
		pt := l.Types.Builtins().Any
		if p.TypeAnn != ast.NoTypeNodeID {
			pt = l.TypeFromNode(p.TypeAnn, fnScope)
		}
		params = append(params, types.Param{Name: uint32(p.Name), Type: pt, Optional: p.IsOptional, Rest: p.IsRest})
	}
	ret := l.TypeFromNode(fn.ReturnType, fnScope)
	return l.Types.InternFunction(types.Signature{Params: params, Return: ret}, isConstructor)
}

func (l *Lowerer) lowerConditional(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	c := l.TypeNodes.Conditionals.Get(node.Payload)
	if c == nil {
		return l.Types.Builtins().Error
	}
	check := l.TypeFromNode(c.Check, scope)
	// `extends` is lowered in a scope that may bind `infer` parameters
	// introduced within it (spec §4.5 "Infer(param) bindings"); those
	// bindings must be visible in the True branch only.
	extendsScope := NewTypeParamScope(scope)
	extends := l.TypeFromNode(c.Extends, extendsScope)
	trueBranch := l.TypeFromNode(c.True, extendsScope)
	falseBranch := l.TypeFromNode(c.False, scope)
	return l.Types.InternConditional(check, extends, trueBranch, falseBranch)
}

func (l *Lowerer) lowerMapped(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	m := l.TypeNodes.Mappeds.Get(node.Payload)
	if m == nil {
		return l.Types.Builtins().Error
	}
	tp := l.Decls.TypeParams.Get(m.TypeParam)
	mappedScope := NewTypeParamScope(scope)
	keySource := types.NoTypeID
	if tp != nil {
		if tp.Constraint != ast.NoTypeNodeID {
			keySource = l.TypeFromNode(tp.Constraint, scope)
		}
		mappedScope.Bind(tp.Name, l.Types.InternTypeParameter(types.TypeParamInfo{Name: tp.Name, Constraint: keySource}))
	}
	nameType := types.NoTypeID
	if m.NameType != ast.NoTypeNodeID {
		nameType = l.TypeFromNode(m.NameType, mappedScope)
	}
	template := l.TypeFromNode(m.ValueType, mappedScope)
	return l.Types.InternMapped(types.MappedInfo{
		KeySource: keySource,
		NameType:  nameType,
		Template:  template,
		Optional:  mappedModifier(m.OptionalMod),
		Readonly:  mappedModifier(m.ReadonlyMod),
	})
}

func mappedModifier(m ast.MappedModifier) types.MappedModifier {
	switch m {
	case ast.MappedModifierAdd:
		return types.MappedAdd
	case ast.MappedModifierRemove:
		return types.MappedRemove
	default:
		return types.MappedUnchanged
	}
}

func (l *Lowerer) lowerTypeLiteral(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	lit := l.TypeNodes.TypeLiterals.Get(node.Payload)
	if lit == nil {
		return l.Types.Builtins().Error
	}
	var props []types.Property
	var strIdx types.TypeID
	for _, memberID := range lit.Members {
		md := l.Decls.Get(memberID)
		if md == nil || md.Kind != ast.DeclMember {
			continue
		}
		m := l.Decls.Members.Get(md.Payload)
		if m == nil {
			continue
		}
		if m.MemberKind == ast.MemberIndexSignature {
			strIdx = l.TypeFromNode(m.TypeAnn, scope)
			continue
		}
		props = append(props, types.Property{
			Name:     m.Name,
			Type:     l.TypeFromNode(m.TypeAnn, scope),
			Optional: m.IsOptional,
			Readonly: md.Modifiers.Has(ast.ModReadonly),
			Method:   m.MemberKind == ast.MemberMethod,
		})
	}
	if strIdx != types.NoTypeID {
		return l.Types.InternObjectWithIndex(props, strIdx, false, types.NoTypeID, false)
	}
	return l.Types.InternObject(props)
}

func (l *Lowerer) lowerTypeQuery(tq *ast.TypeQueryNode) types.TypeID {
	_ = tq
	// `typeof expr` in type position resolves through flow-aware value typing
	// (spec §4.5 "typeof-expression -> flow-aware value resolution"), which
	// lives in the checker once an expression has been walked; lowering alone
	// can't evaluate an arbitrary expression, so it defers to ANY here and the
	// checker overwrites call sites it actually type-checks.
	return l.Types.Builtins().Any
}

func (l *Lowerer) lowerTemplateLiteral(node *ast.TypeNode, scope *TypeParamScope) types.TypeID {
	tl := l.TypeNodes.TemplateLiterals.Get(node.Payload)
	if tl == nil {
		return l.Types.Builtins().Error
	}
	segs := make([]types.TemplateSegment, 0, len(tl.Spans)*2+1)
	if tl.Head != source.NoStringID {
		segs = append(segs, types.TemplateSegment{Str: tl.Head})
	}
	for _, span := range tl.Spans {
		segs = append(segs, types.TemplateSegment{IsType: true, Type: l.TypeFromNode(span.Type, scope)})
		if span.Quasi != source.NoStringID {
			segs = append(segs, types.TemplateSegment{Str: span.Quasi})
		}
	}
	return l.Types.InternTemplateLiteral(segs)
}

func (l *Lowerer) lowerLiteral(node *ast.TypeNode) types.TypeID {
	lit := l.TypeNodes.Literals.Get(node.Payload)
	if lit == nil {
		return l.Types.Builtins().Error
	}
	switch lit.Kind {
	case ast.LiteralString:
		return l.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: lit.String})
	case ast.LiteralNumber:
		return l.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueNumber, Num: lit.Number})
	case ast.LiteralBigInt:
		return l.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueBigInt, Str: lit.String})
	case ast.LiteralBoolean:
		return l.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueBoolean, Bool: lit.Bool})
	default:
		return l.Types.Builtins().Error
	}
}

func (l *Lowerer) reportf(span source.Span, code diag.Code, msg string) {
	if l.Report == nil {
		return
	}
	l.Report.Report(code, diag.SevError, span, msg, nil, nil)
}
