package checker

import (
	"github.com/vovakirdan/tscheck/internal/assign"
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

// checkDecl validates a declaration appearing at statement position (spec
// §4.8: modifier legality, parameter rules, duplicate-member rules, plus
// whatever type-level checking the declaration's own shape needs).
func (c *Checker) checkDecl(id ast.DeclID) {
	if !id.IsValid() {
		return
	}
	decl := c.Decls.Get(id)
	if decl == nil {
		return
	}

	switch decl.Kind {
	case ast.DeclVar:
		c.checkVarDecl(id, decl)
	case ast.DeclFunction:
		c.checkFunctionDecl(decl)
	case ast.DeclClass:
		c.checkClassDecl(id, decl)
	case ast.DeclInterface:
		c.checkInterfaceDecl(decl)
	case ast.DeclEnum:
		c.checkEnumDecl(decl)
	case ast.DeclModule:
		c.checkModuleDecl(decl)
	case ast.DeclTypeAlias, ast.DeclImport, ast.DeclExport, ast.DeclParam, ast.DeclMember:
		// type aliases are fully handled by internal/lower; imports/exports
		// by internal/modres; params/members are walked by their owning
		// function/class, never reached directly from a statement.
	}
}

func (c *Checker) checkVarDecl(id ast.DeclID, decl *ast.Decl) {
	vd := c.Decls.Vars.Get(decl.Payload)
	if vd == nil {
		return
	}
	c.checkPrivateIdentifier(vd.Name, decl.Span)
	if txt, ok := c.Strs.Lookup(vd.Name); ok && len(txt) > 0 && txt[0] == '#' {
		c.report(diag.TS18016, decl.Span, "private identifiers are not allowed in variable declarations")
	}
	if !vd.Initializer.IsValid() {
		return
	}
	valueType := c.typeExpr(vd.Initializer)
	if vd.TypeAnn == ast.NoTypeNodeID {
		return
	}
	declared := c.Lower.TypeFromNode(vd.TypeAnn, nil)
	if !c.Assign.IsAssignable(valueType, declared, assign.Flags{}) {
		c.report(diag.TS2322, c.exprSpan(vd.Initializer), "type is not assignable to the variable's declared type")
	}
}

func (c *Checker) checkFunctionDecl(decl *ast.Decl) {
	fd := c.Decls.Functions.Get(decl.Payload)
	if fd == nil {
		return
	}
	if !fd.Body.IsValid() {
		// overload signature or ambient declaration: no body to walk.
		return
	}
	c.checkFunctionLike(fd.Params, fd.ReturnType, ast.NoExprID, fd.Body, fd.IsAsync, fd.IsGenerator)
}

func (c *Checker) checkInterfaceDecl(decl *ast.Decl) {
	id := c.Decls.Interfaces.Get(decl.Payload)
	if id == nil {
		return
	}
	c.checkDuplicateMembers(id.Members)
}

func (c *Checker) checkEnumDecl(decl *ast.Decl) {
	ed := c.Decls.Enums.Get(decl.Payload)
	if ed == nil {
		return
	}
	seen := make(map[source.StringID]bool, len(ed.Members))
	for _, mid := range ed.Members {
		m := c.Decls.EnumMembers.Get(uint32(mid))
		if m == nil {
			continue
		}
		if seen[m.Name] {
			c.report(diag.TS2300, decl.Span, "duplicate identifier in enum")
		}
		seen[m.Name] = true
		if m.Initializer.IsValid() {
			c.typeExpr(m.Initializer)
		}
	}
}

func (c *Checker) checkModuleDecl(decl *ast.Decl) {
	md := c.Decls.Modules.Get(decl.Payload)
	if md == nil {
		return
	}
	for _, s := range md.Body {
		c.checkStmt(s)
	}
}

// checkDuplicateMembers reports TS2300 for two non-overload members sharing
// a name within the same container (spec §4.8 "duplicate-member rules").
// Overload signatures (multiple method members with no body, sharing a name)
// are exempted; checkOverloadMerge handles method groups instead, and it
// reports duplicate implementations only.
func (c *Checker) checkDuplicateMembers(members []ast.DeclID) {
	type seenKey struct {
		name   source.StringID
		static bool
	}
	seen := make(map[seenKey]int, len(members))
	for _, mid := range members {
		md := c.Decls.Get(mid)
		if md == nil || md.Kind != ast.DeclMember {
			continue
		}
		m := c.Decls.Members.Get(md.Payload)
		if m == nil || m.ComputedKey.IsValid() {
			continue
		}
		if m.MemberKind == ast.MemberMethod && !m.Body.IsValid() {
			continue // overload signature, allowed to repeat
		}
		key := seenKey{name: m.Name, static: md.Modifiers.Has(ast.ModStatic)}
		seen[key]++
		if seen[key] > 1 {
			c.report(diag.TS2300, md.Span, "duplicate identifier")
		}
	}
}
