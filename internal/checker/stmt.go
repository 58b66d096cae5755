package checker

import (
	"github.com/vovakirdan/tscheck/internal/assign"
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

// checkStmt walks one statement, type-checking every expression it contains
// and reporting any control-flow diagnostic anchored on it (spec §4.8).
func (c *Checker) checkStmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	node := c.Stmts.Get(id)
	if node == nil {
		return
	}

	switch node.Kind {
	case ast.StmtBlock:
		blk := c.Stmts.Blocks.Get(node.Payload)
		if blk == nil {
			return
		}
		for _, s := range blk.Statements {
			c.checkStmt(s)
		}
	case ast.StmtExpr:
		if es := c.Stmts.Exprs.Get(node.Payload); es != nil {
			c.typeExpr(es.Expr)
		}
	case ast.StmtDecl:
		if ds := c.Stmts.Decls.Get(node.Payload); ds != nil {
			c.checkDecl(ds.Decl)
		}
	case ast.StmtIf:
		c.checkIf(node.Payload)
	case ast.StmtWhile:
		c.checkWhile(node.Payload, node.Span)
	case ast.StmtDoWhile:
		c.checkWhile(node.Payload, node.Span)
	case ast.StmtFor:
		c.checkFor(node.Payload)
	case ast.StmtForIn:
		c.checkForInOf(node.Payload)
	case ast.StmtForOf:
		c.checkForInOf(node.Payload)
	case ast.StmtSwitch:
		c.checkSwitch(node.Payload)
	case ast.StmtTry:
		c.checkTry(node.Payload)
	case ast.StmtThrow:
		if ts := c.Stmts.Throws.Get(node.Payload); ts != nil {
			c.typeExpr(ts.Expr)
		}
	case ast.StmtReturn:
		c.checkReturn(node.Payload, node.Span)
	case ast.StmtBreak:
		if c.loopDepth == 0 {
			if bc := c.Stmts.Breaks.Get(node.Payload); bc != nil && bc.Kind == ast.BreakKind {
				c.warn(diag.TS7027, node.Span, "unreachable code detected")
			}
		}
	case ast.StmtContinue:
		// continue outside a loop is a parse-level error in tsc; nothing more to check here.
	case ast.StmtLabeled:
		if ls := c.Stmts.Labeled.Get(node.Payload); ls != nil {
			c.checkStmt(ls.Body)
		}
	case ast.StmtEmpty, ast.StmtWith, ast.StmtDebugger:
		// no expression to type, nothing to validate beyond parse time.
	}
}

func (c *Checker) checkIf(payload uint32) {
	ifs := c.Stmts.Ifs.Get(payload)
	if ifs == nil {
		return
	}
	c.typeExpr(ifs.Cond)
	c.checkStmt(ifs.Then)
	if ifs.Else.IsValid() {
		c.checkStmt(ifs.Else)
	}
}

func (c *Checker) checkWhile(payload uint32, sp source.Span) {
	ws := c.Stmts.Whiles.Get(payload)
	if ws == nil {
		return
	}
	c.typeExpr(ws.Cond)
	c.loopDepth++
	c.checkStmt(ws.Body)
	c.loopDepth--
}

func (c *Checker) checkFor(payload uint32) {
	fs := c.Stmts.Fors.Get(payload)
	if fs == nil {
		return
	}
	if fs.Init.IsValid() {
		c.checkStmt(fs.Init)
	}
	if fs.Cond.IsValid() {
		c.typeExpr(fs.Cond)
	}
	if fs.Post.IsValid() {
		c.typeExpr(fs.Post)
	}
	c.loopDepth++
	c.checkStmt(fs.Body)
	c.loopDepth--
}

func (c *Checker) checkForInOf(payload uint32) {
	fs := c.Stmts.ForIns.Get(payload)
	if fs == nil {
		return
	}
	rightType := c.typeExpr(fs.Right)
	if fs.Decl.IsValid() {
		c.checkDecl(fs.Decl)
	} else if fs.LeftTarget.IsValid() {
		c.typeExpr(fs.LeftTarget)
	}
	if fs.IsOf {
		_ = rightType // element type of an iterable; narrowing of the loop variable is handled by internal/flow at bind time.
	}
	c.loopDepth++
	c.checkStmt(fs.Body)
	c.loopDepth--
}

func (c *Checker) checkSwitch(payload uint32) {
	sw := c.Stmts.Switches.Get(payload)
	if sw == nil {
		return
	}
	c.typeExpr(sw.Discriminant)
	for _, cs := range sw.Cases {
		if cs.Test.IsValid() {
			c.typeExpr(cs.Test)
		}
		for _, s := range cs.Statements {
			c.checkStmt(s)
		}
	}
}

func (c *Checker) checkTry(payload uint32) {
	ts := c.Stmts.Tries.Get(payload)
	if ts == nil {
		return
	}
	c.checkStmt(ts.Block)
	if ts.Catch != nil {
		if ts.Catch.Param.IsValid() {
			c.checkStmt(ts.Catch.Param)
		}
		c.checkStmt(ts.Catch.Body)
	}
	if ts.Finally.IsValid() {
		c.checkStmt(ts.Finally)
	}
}

func (c *Checker) checkReturn(payload uint32, sp source.Span) {
	rs := c.Stmts.Returns.Get(payload)
	if rs == nil {
		return
	}
	rf := c.currentReturn()
	if rf == nil {
		return
	}
	rf.sawReturn = true
	b := c.Types.Builtins()
	var actual = b.Undefined
	if rs.Expr.IsValid() {
		actual = c.typeExpr(rs.Expr)
	}
	if rf.expected == b.Any || rf.expected == 0 {
		return
	}
	expected := rf.expected
	if rf.isAsync {
		// async function bodies return T; a declared Promise<T> is unwrapped
		// here, before the assignability check.
		if base, args, ok := c.Types.ApplicationInfo(expected); ok && len(args) == 1 {
			if d, ok := c.Defs.Get(base); ok {
				if name, _ := c.Strs.Lookup(d.Name); name == "Promise" {
					expected = args[0]
				}
			}
		}
	}
	if !c.Assign.IsAssignable(actual, expected, assign.Flags{}) {
		sp2 := sp
		if rs.Expr.IsValid() {
			sp2 = c.exprSpan(rs.Expr)
		}
		c.report(diag.TS2322, sp2, "type is not assignable to the function's declared return type")
	}
}

// blockAlwaysReturns is a syntactic, best-effort approximation of
// spec §4.8's "required-return" check (TS2366): every structural path
// through the statement must end in a return/throw. It does not consult
// internal/flow's reachability graph, so it can be conservative about loops
// whose condition is never statically provably true.
func (c *Checker) blockAlwaysReturns(id ast.StmtID) bool {
	if !id.IsValid() {
		return false
	}
	node := c.Stmts.Get(id)
	if node == nil {
		return false
	}
	switch node.Kind {
	case ast.StmtReturn, ast.StmtThrow:
		return true
	case ast.StmtBlock:
		blk := c.Stmts.Blocks.Get(node.Payload)
		if blk == nil || len(blk.Statements) == 0 {
			return false
		}
		return c.blockAlwaysReturns(blk.Statements[len(blk.Statements)-1])
	case ast.StmtIf:
		ifs := c.Stmts.Ifs.Get(node.Payload)
		if ifs == nil || !ifs.Else.IsValid() {
			return false
		}
		return c.blockAlwaysReturns(ifs.Then) && c.blockAlwaysReturns(ifs.Else)
	case ast.StmtTry:
		ts := c.Stmts.Tries.Get(node.Payload)
		if ts == nil {
			return false
		}
		if ts.Finally.IsValid() && c.blockAlwaysReturns(ts.Finally) {
			return true
		}
		blockReturns := c.blockAlwaysReturns(ts.Block)
		if ts.Catch == nil {
			return blockReturns
		}
		return blockReturns && c.blockAlwaysReturns(ts.Catch.Body)
	case ast.StmtSwitch:
		sw := c.Stmts.Switches.Get(node.Payload)
		if sw == nil || len(sw.Cases) == 0 {
			return false
		}
		hasDefault := false
		for _, cs := range sw.Cases {
			if !cs.Test.IsValid() {
				hasDefault = true
			}
			if len(cs.Statements) == 0 || !c.blockAlwaysReturns(cs.Statements[len(cs.Statements)-1]) {
				return false
			}
		}
		return hasDefault
	case ast.StmtLabeled:
		ls := c.Stmts.Labeled.Get(node.Payload)
		if ls == nil {
			return false
		}
		return c.blockAlwaysReturns(ls.Body)
	case ast.StmtWhile:
		ws := c.Stmts.Whiles.Get(node.Payload)
		return ws != nil && ws.Kind == ast.WhileTop && c.isAlwaysTruthyLiteral(ws.Cond)
	default:
		return false
	}
}

// isAlwaysTruthyLiteral recognizes the `while (true)` idiom so a trailing
// infinite loop without a reachable fallthrough counts as always-returning.
func (c *Checker) isAlwaysTruthyLiteral(id ast.ExprID) bool {
	node := c.Exprs.Get(id)
	if node == nil || node.Kind != ast.ExprBoolLit {
		return false
	}
	bl := c.Exprs.Bools.Get(node.Payload)
	return bl != nil && bl.Value
}
