package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tscheck/internal/ast"
)

type stmtDoc struct {
	Kind string `json:"kind"`

	Statements []json.RawMessage `json:"statements"` // block

	Expr json.RawMessage `json:"expr"` // expr/throw/return

	Decl json.RawMessage `json:"decl"` // decl stmt

	Cond json.RawMessage `json:"cond"` // if/while/do-while/for
	Then json.RawMessage `json:"then"`
	Else json.RawMessage `json:"else"`

	Body json.RawMessage `json:"body"` // while/do-while/for/for-in/for-of/labeled

	Init json.RawMessage `json:"init"` // for
	Post json.RawMessage `json:"post"`

	IsAwait    bool            `json:"await"` // for-of
	LeftDecl   json.RawMessage `json:"leftDecl"`
	LeftTarget json.RawMessage `json:"leftTarget"`
	Right      json.RawMessage `json:"right"`

	Discriminant json.RawMessage   `json:"discriminant"` // switch
	Cases        []switchCaseDoc   `json:"cases"`

	Block   json.RawMessage `json:"block"` // try
	Catch   *catchDoc       `json:"catch"`
	Finally json.RawMessage `json:"finally"`

	BreakContKind string `json:"breakKind"` // break/continue
	Label         string `json:"label"`
}

type switchCaseDoc struct {
	Test       json.RawMessage   `json:"test"`
	Statements []json.RawMessage `json:"statements"`
}

type catchDoc struct {
	Param   string          `json:"param"`
	TypeAnn json.RawMessage `json:"typeAnn"`
	Body    json.RawMessage `json:"body"`
}

func (d *decoder) stmt(raw json.RawMessage) (ast.StmtID, error) {
	kind, err := peekKind(raw)
	if err != nil {
		return ast.NoStmtID, err
	}
	if kind == "" {
		return ast.NoStmtID, nil
	}
	var s stmtDoc
	if err := json.Unmarshal(raw, &s); err != nil {
		return ast.NoStmtID, err
	}
	sp := noSpan

	switch kind {
	case "block":
		return d.blockFromStmts(s.Statements)
	case "expr":
		e, err := d.expr(s.Expr)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Exprs.Allocate(ast.ExprStmt{Expr: e})
		return d.b.NewStmt(ast.StmtExpr, sp, idx), nil
	case "decl":
		did, err := d.decl(s.Decl)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Decls.Allocate(ast.DeclStmt{Decl: did})
		return d.b.NewStmt(ast.StmtDecl, sp, idx), nil
	case "if":
		cond, err := d.expr(s.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		then, err := d.stmt(s.Then)
		if err != nil {
			return ast.NoStmtID, err
		}
		els, err := d.stmt(s.Else)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Ifs.Allocate(ast.IfStmt{Cond: cond, Then: then, Else: els})
		return d.b.NewStmt(ast.StmtIf, sp, idx), nil
	case "while", "do-while":
		cond, err := d.expr(s.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := d.stmt(s.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		wk := ast.WhileTop
		skind := ast.StmtWhile
		if kind == "do-while" {
			wk = ast.WhileDo
			skind = ast.StmtDoWhile
		}
		idx := d.b.Stmts.Whiles.Allocate(ast.WhileStmt{Kind: wk, Cond: cond, Body: body})
		return d.b.NewStmt(skind, sp, idx), nil
	case "for":
		init, err := d.stmt(s.Init)
		if err != nil {
			return ast.NoStmtID, err
		}
		cond, err := d.expr(s.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		post, err := d.expr(s.Post)
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := d.stmt(s.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Fors.Allocate(ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body})
		return d.b.NewStmt(ast.StmtFor, sp, idx), nil
	case "for-in", "for-of":
		leftDecl, err := d.decl(s.LeftDecl)
		if err != nil {
			return ast.NoStmtID, err
		}
		leftTarget, err := d.expr(s.LeftTarget)
		if err != nil {
			return ast.NoStmtID, err
		}
		right, err := d.expr(s.Right)
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := d.stmt(s.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		isOf := kind == "for-of"
		skind := ast.StmtForIn
		if isOf {
			skind = ast.StmtForOf
		}
		idx := d.b.Stmts.ForIns.Allocate(ast.ForInOfStmt{
			IsOf: isOf, IsAwait: s.IsAwait, Decl: leftDecl, LeftTarget: leftTarget, Right: right, Body: body,
		})
		return d.b.NewStmt(skind, sp, idx), nil
	case "switch":
		disc, err := d.expr(s.Discriminant)
		if err != nil {
			return ast.NoStmtID, err
		}
		cases := make([]ast.SwitchCase, 0, len(s.Cases))
		for _, c := range s.Cases {
			test, err := d.expr(c.Test)
			if err != nil {
				return ast.NoStmtID, err
			}
			stmts, err := d.stmtList(c.Statements)
			if err != nil {
				return ast.NoStmtID, err
			}
			cases = append(cases, ast.SwitchCase{Test: test, Statements: stmts})
		}
		idx := d.b.Stmts.Switches.Allocate(ast.SwitchStmt{Discriminant: disc, Cases: cases})
		return d.b.NewStmt(ast.StmtSwitch, sp, idx), nil
	case "try":
		block, err := d.stmt(s.Block)
		if err != nil {
			return ast.NoStmtID, err
		}
		var catch *ast.CatchClause
		if s.Catch != nil {
			var param ast.StmtID
			if s.Catch.Param != "" {
				vd := ast.VarDecl{VarKind: ast.VarLet, Name: d.intern(s.Catch.Param)}
				if vd.TypeAnn, err = d.typeNode(s.Catch.TypeAnn); err != nil {
					return ast.NoStmtID, err
				}
				did := d.b.NewVarDecl(sp, 0, vd)
				dsIdx := d.b.Stmts.Decls.Allocate(ast.DeclStmt{Decl: did})
				param = d.b.NewStmt(ast.StmtDecl, sp, dsIdx)
			}
			body, err := d.stmt(s.Catch.Body)
			if err != nil {
				return ast.NoStmtID, err
			}
			catch = &ast.CatchClause{Param: param, Body: body}
		}
		finally, err := d.stmt(s.Finally)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Tries.Allocate(ast.TryStmt{Block: block, Catch: catch, Finally: finally})
		return d.b.NewStmt(ast.StmtTry, sp, idx), nil
	case "throw":
		e, err := d.expr(s.Expr)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Throws.Allocate(ast.ThrowStmt{Expr: e})
		return d.b.NewStmt(ast.StmtThrow, sp, idx), nil
	case "return":
		e, err := d.expr(s.Expr)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Returns.Allocate(ast.ReturnStmt{Expr: e})
		return d.b.NewStmt(ast.StmtReturn, sp, idx), nil
	case "break", "continue":
		bk := ast.BreakKind
		skind := ast.StmtBreak
		if kind == "continue" {
			bk = ast.ContinueKind
			skind = ast.StmtContinue
		}
		idx := d.b.Stmts.Breaks.Allocate(ast.BreakContinueStmt{Kind: bk, Label: d.intern(s.Label)})
		return d.b.NewStmt(skind, sp, idx), nil
	case "labeled":
		body, err := d.stmt(s.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		idx := d.b.Stmts.Labeled.Allocate(ast.LabeledStmt{Label: d.intern(s.Label), Body: body})
		return d.b.NewStmt(ast.StmtLabeled, sp, idx), nil
	case "empty":
		return d.b.NewStmt(ast.StmtEmpty, sp, 0), nil
	case "debugger":
		return d.b.NewStmt(ast.StmtDebugger, sp, 0), nil
	default:
		return ast.NoStmtID, fmt.Errorf("unsupported statement kind %q", kind)
	}
}

func (d *decoder) stmtList(raws []json.RawMessage) ([]ast.StmtID, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]ast.StmtID, 0, len(raws))
	for _, raw := range raws {
		id, err := d.stmt(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) blockFromStmts(raws []json.RawMessage) (ast.StmtID, error) {
	if raws == nil {
		return ast.NoStmtID, nil
	}
	stmts, err := d.stmtList(raws)
	if err != nil {
		return ast.NoStmtID, err
	}
	idx := d.b.Stmts.Blocks.Allocate(ast.BlockStmt{Statements: stmts})
	return d.b.NewStmt(ast.StmtBlock, noSpan, idx), nil
}
