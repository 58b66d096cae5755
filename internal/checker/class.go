package checker

import (
	"fmt"

	"github.com/vovakirdan/tscheck/internal/assign"
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

// checkClassDecl walks a class body (spec §4.8 "class-body special-casing"):
// heritage-clause resolution, strict-property-initialization, overload-merge
// validation, and a `super()`-before-use check for derived constructors.
func (c *Checker) checkClassDecl(id ast.DeclID, decl *ast.Decl) {
	cd := c.Decls.Classes.Get(decl.Payload)
	if cd == nil {
		return
	}

	def := defs.NoDefID
	if c.Hooks.DeclDef != nil {
		def = c.Hooks.DeclDef(id)
	}
	instance := c.Types.Builtins().Any
	if def != defs.NoDefID {
		if t, ok := c.Env.InstanceType(def); ok {
			instance = t
		}
	}

	c.classStack = append(c.classStack, classFrame{def: def, instance: instance, isAbstract: cd.IsAbstract})
	defer func() { c.classStack = c.classStack[:len(c.classStack)-1] }()

	hasExtends := c.checkHeritage(cd.Heritage, decl.Span)
	c.checkDuplicateMembers(cd.Members)
	c.checkOverloadMerge(cd.Members)
	c.checkStrictPropertyInit(cd.Members, cd.IsAbstract)

	var ctorBody ast.StmtID
	for _, mid := range cd.Members {
		m := c.memberOf(mid)
		if m == nil {
			continue
		}
		if m.MemberKind == ast.MemberConstructor && m.Body.IsValid() {
			ctorBody = m.Body
		}
		c.checkMember(mid, m)
	}
	if hasExtends && ctorBody.IsValid() && !c.containsSuperCall(ctorBody) {
		c.report(diag.TS2377, decl.Span, "constructors for derived classes must contain a 'super' call")
	}
}

func (c *Checker) memberOf(mid ast.DeclID) *ast.MemberDecl {
	md := c.Decls.Get(mid)
	if md == nil || md.Kind != ast.DeclMember {
		return nil
	}
	return c.Decls.Members.Get(md.Payload)
}

// checkHeritage validates `extends`/`implements` clauses (TS2689 for an
// extends target that has no construct signatures and is not an object type,
// TS2420 for an unsatisfied implements clause) and reports whether the class
// has an extends clause at all. TS2507 is not reported here.
func (c *Checker) checkHeritage(heritage []ast.HeritageID, classSpan source.Span) bool {
	hasExtends := false
	for _, hid := range heritage {
		h := c.Decls.Heritage.Get(uint32(hid))
		if h == nil {
			continue
		}
		target := c.Lower.TypeFromNode(h.Type, nil)
		if !h.IsImplements {
			hasExtends = true
			if len(c.Types.GetConstructSignatures(target)) == 0 {
				if _, _, ok := c.Types.ObjectInfo(target); !ok {
					c.report(diag.TS2689, classSpan, "cannot extend a type; only classes extend other classes")
				}
			}
			continue
		}
		cf := c.currentClass()
		if cf == nil {
			continue
		}
		if !c.Assign.IsAssignable(cf.instance, target, assign.Flags{}) {
			c.report(diag.TS2420, classSpan, "class incorrectly implements interface")
		}
	}
	return hasExtends
}

// checkOverloadMerge groups method members by (name, static) and reports a
// name that gets two implementations (TS2392 for constructors, TS2393
// otherwise). Overload signatures are not compared against the
// implementation, so TS2394 is not reported.
func (c *Checker) checkOverloadMerge(members []ast.DeclID) {
	type group struct {
		sigsOnly int
		impls    int
		span     source.Span
		isCtor   bool
	}
	byKey := make(map[string]*group, len(members))
	for _, mid := range members {
		m := c.memberOf(mid)
		if m == nil || m.MemberKind != ast.MemberMethod && m.MemberKind != ast.MemberConstructor {
			continue
		}
		md := c.Decls.Get(mid)
		key := memberGroupKey(m, md)
		g, ok := byKey[key]
		if !ok {
			g = &group{isCtor: m.MemberKind == ast.MemberConstructor}
			byKey[key] = g
		}
		if m.Body.IsValid() {
			g.impls++
			g.span = md.Span
		} else {
			g.sigsOnly++
		}
	}
	for _, g := range byKey {
		if g.impls > 1 {
			if g.isCtor {
				c.report(diag.TS2392, g.span, "multiple constructor implementations are not allowed")
			} else {
				c.report(diag.TS2393, g.span, "duplicate function implementation")
			}
		}
	}
}

func memberGroupKey(m *ast.MemberDecl, md *ast.Decl) string {
	static := md != nil && md.Modifiers.Has(ast.ModStatic)
	if m.MemberKind == ast.MemberConstructor {
		return "ctor"
	}
	return memberKeyName(m.Name, static)
}

func memberKeyName(name source.StringID, static bool) string {
	return fmt.Sprintf("%t:%d", static, uint32(name))
}

// checkStrictPropertyInit reports TS2564 for a non-optional, non-declared
// property with no initializer (spec §4.8: a best-effort approximation —
// definite assignment via constructor analysis is left to internal/flow's
// definite-assignment query once a driver wires per-property symbols in).
func (c *Checker) checkStrictPropertyInit(members []ast.DeclID, classIsAbstract bool) {
	for _, mid := range members {
		m := c.memberOf(mid)
		md := c.Decls.Get(mid)
		if m == nil || md == nil || m.MemberKind != ast.MemberProperty {
			continue
		}
		if m.Initializer.IsValid() || m.IsOptional {
			continue
		}
		if md.Modifiers.Has(ast.ModDeclare) || md.Modifiers.Has(ast.ModAbstract) || md.Modifiers.Has(ast.ModStatic) {
			continue
		}
		if m.TypeAnn == ast.NoTypeNodeID {
			continue
		}
		declared := c.Lower.TypeFromNode(m.TypeAnn, nil)
		if hasNull, hasUndef := c.isNullable(declared); hasNull || hasUndef {
			continue
		}
		c.report(diag.TS2564, md.Span, "property has no initializer and is not definitely assigned in the constructor")
	}
}

// checkMember type-checks one class member's body/initializer under the
// enclosing classFrame pushed by checkClassDecl.
func (c *Checker) checkMember(mid ast.DeclID, m *ast.MemberDecl) {
	if m.ComputedKey.IsValid() {
		c.typeExpr(m.ComputedKey)
	}
	switch m.MemberKind {
	case ast.MemberProperty:
		if m.Initializer.IsValid() {
			valueType := c.typeExpr(m.Initializer)
			if m.TypeAnn != ast.NoTypeNodeID {
				declared := c.Lower.TypeFromNode(m.TypeAnn, nil)
				if !c.Assign.IsAssignable(valueType, declared, assign.Flags{}) {
					c.report(diag.TS2322, c.exprSpan(m.Initializer), "type is not assignable to the declared property type")
				}
			}
		}
	case ast.MemberMethod, ast.MemberConstructor, ast.MemberGetter, ast.MemberSetter:
		if m.Body.IsValid() {
			c.checkFunctionLike(m.Params, m.TypeAnn, ast.NoExprID, m.Body, false, false)
		}
	case ast.MemberIndexSignature, ast.MemberCallSignature, ast.MemberConstructSignature:
		// pure type-level shapes; internal/lower already reflected them into
		// the object/callable type, nothing executable to walk here.
	}
}

// containsSuperCall reports whether stmt (typically a constructor body)
// contains a `super(...)` call anywhere in its direct statement tree.
func (c *Checker) containsSuperCall(id ast.StmtID) bool {
	if !id.IsValid() {
		return false
	}
	node := c.Stmts.Get(id)
	if node == nil {
		return false
	}
	switch node.Kind {
	case ast.StmtBlock:
		blk := c.Stmts.Blocks.Get(node.Payload)
		if blk == nil {
			return false
		}
		for _, s := range blk.Statements {
			if c.containsSuperCall(s) {
				return true
			}
		}
	case ast.StmtExpr:
		if es := c.Stmts.Exprs.Get(node.Payload); es != nil {
			return c.exprContainsSuperCall(es.Expr)
		}
	case ast.StmtIf:
		ifs := c.Stmts.Ifs.Get(node.Payload)
		return ifs != nil && (c.containsSuperCall(ifs.Then) || c.containsSuperCall(ifs.Else))
	case ast.StmtTry:
		ts := c.Stmts.Tries.Get(node.Payload)
		if ts == nil {
			return false
		}
		return c.containsSuperCall(ts.Block)
	}
	return false
}

func (c *Checker) exprContainsSuperCall(id ast.ExprID) bool {
	node := c.Exprs.Get(id)
	if node == nil || node.Kind != ast.ExprCall {
		return false
	}
	call := c.Exprs.Calls.Get(node.Payload)
	if call == nil {
		return false
	}
	callee := c.Exprs.Get(call.Callee)
	return callee != nil && callee.Kind == ast.ExprSuper
}
