package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tscheck/internal/ast"
)

// exprDoc is the union of every supported expression shape; only the
// fields relevant to Kind are populated by the caller's JSON.
type exprDoc struct {
	Kind string `json:"kind"`

	Name  string `json:"name"`  // ident
	Value string `json:"value"` // string literal value / raw number text

	Number float64 `json:"number"` // number literal
	Bool   bool    `json:"bool"`   // bool literal

	Elements []json.RawMessage `json:"elements"` // array literal / sequence
	Props    []objectPropDoc   `json:"properties"`

	Target     json.RawMessage `json:"target"`     // property/element access, assign
	PropName   string          `json:"prop"`       // property access name
	Index      json.RawMessage `json:"index"`      // element access
	IsOptional bool            `json:"optional"`

	Callee   json.RawMessage   `json:"callee"` // call / new
	Args     []json.RawMessage `json:"args"`
	TypeArgs []json.RawMessage `json:"typeArgs"`

	Op    string          `json:"op"` // binary/unary/update/assign
	Left  json.RawMessage `json:"left"`
	Right json.RawMessage `json:"right"`

	Operand  json.RawMessage `json:"operand"` // unary/update/typeof/await/non-null
	IsPrefix bool            `json:"prefix"`

	Cond json.RawMessage `json:"cond"` // conditional
	Then json.RawMessage `json:"then"`
	Else json.RawMessage `json:"else"`

	Expr json.RawMessage `json:"expr"` // paren/as/satisfies/non-null/typeof/await/spread
	Type json.RawMessage `json:"type"` // as/satisfies
	ConstAssertion bool  `json:"constAssertion"`

	TypeParams []typeParamDoc    `json:"typeParams"` // arrow/function-expr
	Params     []paramDoc        `json:"params"`
	ReturnType json.RawMessage   `json:"returnType"`
	Body       json.RawMessage   `json:"body"`      // arrow concise body (expr)
	BlockBody  []json.RawMessage `json:"blockBody"` // arrow/function-expr block body statements
	IsAsync    bool              `json:"async"`
	IsGenerator bool             `json:"generator"`
}

type objectPropDoc struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	IsShorthand bool            `json:"shorthand"`
	IsSpread    bool            `json:"spread"`
	IsMethod    bool            `json:"method"`
}

var binaryOps = map[string]ast.BinaryOp{
	"+": ast.BinAdd, "-": ast.BinSub, "*": ast.BinMul, "/": ast.BinDiv, "%": ast.BinMod, "**": ast.BinPow,
	"==": ast.BinEq, "!=": ast.BinNotEq, "===": ast.BinStrictEq, "!==": ast.BinStrictNotEq,
	"<": ast.BinLt, "<=": ast.BinLtEq, ">": ast.BinGt, ">=": ast.BinGtEq,
	"&&": ast.BinAnd, "||": ast.BinOr, "??": ast.BinNullish,
	"&": ast.BinBitAnd, "|": ast.BinBitOr, "^": ast.BinBitXor,
	"<<": ast.BinShl, ">>": ast.BinShr, ">>>": ast.BinUShr,
	"in": ast.BinIn, "instanceof": ast.BinInstanceof, ",": ast.BinComma,
}

var unaryOps = map[string]ast.UnaryOp{
	"+": ast.UnaryPlus, "-": ast.UnaryMinus, "!": ast.UnaryNot, "~": ast.UnaryBitNot,
	"void": ast.UnaryVoid, "delete": ast.UnaryDelete,
}

var assignOps = map[string]ast.AssignOp{
	"=": ast.AssignPlain, "+=": ast.AssignAdd, "-=": ast.AssignSub, "*=": ast.AssignMul,
	"/=": ast.AssignDiv, "%=": ast.AssignMod, "**=": ast.AssignPow,
	"&=": ast.AssignBitAnd, "|=": ast.AssignBitOr, "^=": ast.AssignBitXor,
	"<<=": ast.AssignShl, ">>=": ast.AssignShr, ">>>=": ast.AssignUShr,
	"&&=": ast.AssignAnd, "||=": ast.AssignOr, "??=": ast.AssignNullish,
}

func (d *decoder) expr(raw json.RawMessage) (ast.ExprID, error) {
	kind, err := peekKind(raw)
	if err != nil {
		return ast.NoExprID, err
	}
	if kind == "" {
		return ast.NoExprID, nil
	}
	var e exprDoc
	if err := json.Unmarshal(raw, &e); err != nil {
		return ast.NoExprID, err
	}
	sp := noSpan

	switch kind {
	case "ident":
		return d.b.NewIdent(sp, d.intern(e.Name)), nil
	case "string":
		idx := d.b.Exprs.Strings.Allocate(ast.StringLitExpr{Value: d.intern(e.Value)})
		return d.b.NewExpr(ast.ExprStringLit, sp, idx), nil
	case "number":
		idx := d.b.Exprs.Numbers.Allocate(ast.NumberLitExpr{Value: e.Number, Raw: d.intern(e.Value)})
		return d.b.NewExpr(ast.ExprNumberLit, sp, idx), nil
	case "bigint":
		idx := d.b.Exprs.BigInts.Allocate(ast.BigIntLitExpr{Raw: d.intern(e.Value)})
		return d.b.NewExpr(ast.ExprBigIntLit, sp, idx), nil
	case "bool":
		idx := d.b.Exprs.Bools.Allocate(ast.BoolLitExpr{Value: e.Bool})
		return d.b.NewExpr(ast.ExprBoolLit, sp, idx), nil
	case "null":
		return d.b.NewExpr(ast.ExprNullLit, sp, 0), nil
	case "undefined":
		return d.b.NewExpr(ast.ExprUndefinedLit, sp, 0), nil
	case "this":
		return d.b.NewExpr(ast.ExprThis, sp, 0), nil
	case "super":
		return d.b.NewExpr(ast.ExprSuper, sp, 0), nil
	case "array":
		elems, err := d.exprList(e.Elements)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Arrays.Allocate(ast.ArrayLitExpr{Elements: elems})
		return d.b.NewExpr(ast.ExprArrayLit, sp, idx), nil
	case "object":
		props := make([]ast.ObjectProperty, 0, len(e.Props))
		for _, p := range e.Props {
			v, err := d.expr(p.Value)
			if err != nil {
				return ast.NoExprID, err
			}
			props = append(props, ast.ObjectProperty{
				Key: d.intern(p.Key), Value: v,
				IsShorthand: p.IsShorthand, IsSpread: p.IsSpread, IsMethod: p.IsMethod,
			})
		}
		idx := d.b.Exprs.Objects.Allocate(ast.ObjectLitExpr{Properties: props})
		return d.b.NewExpr(ast.ExprObjectLit, sp, idx), nil
	case "property-access":
		target, err := d.expr(e.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.PropertyAccess.Allocate(ast.PropertyAccessExpr{
			Target: target, Name: d.intern(e.PropName), IsOptional: e.IsOptional,
		})
		return d.b.NewExpr(ast.ExprPropertyAccess, sp, idx), nil
	case "element-access":
		target, err := d.expr(e.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		index, err := d.expr(e.Index)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.ElementAccess.Allocate(ast.ElementAccessExpr{
			Target: target, Index: index, IsOptional: e.IsOptional,
		})
		return d.b.NewExpr(ast.ExprElementAccess, sp, idx), nil
	case "call":
		callee, err := d.expr(e.Callee)
		if err != nil {
			return ast.NoExprID, err
		}
		args, err := d.exprList(e.Args)
		if err != nil {
			return ast.NoExprID, err
		}
		targs, err := d.typeNodeList(e.TypeArgs)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Calls.Allocate(ast.CallExpr{Callee: callee, Args: args, TypeArgs: targs, IsOptional: e.IsOptional})
		return d.b.NewExpr(ast.ExprCall, sp, idx), nil
	case "new":
		callee, err := d.expr(e.Callee)
		if err != nil {
			return ast.NoExprID, err
		}
		args, err := d.exprList(e.Args)
		if err != nil {
			return ast.NoExprID, err
		}
		targs, err := d.typeNodeList(e.TypeArgs)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.News.Allocate(ast.NewExpr{Callee: callee, Args: args, TypeArgs: targs})
		return d.b.NewExpr(ast.ExprNew, sp, idx), nil
	case "binary":
		op, ok := binaryOps[e.Op]
		if !ok {
			return ast.NoExprID, fmt.Errorf("unknown binary operator %q", e.Op)
		}
		left, err := d.expr(e.Left)
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := d.expr(e.Right)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Binaries.Allocate(ast.BinaryExpr{Op: op, Left: left, Right: right})
		return d.b.NewExpr(ast.ExprBinary, sp, idx), nil
	case "unary":
		op, ok := unaryOps[e.Op]
		if !ok {
			return ast.NoExprID, fmt.Errorf("unknown unary operator %q", e.Op)
		}
		operand, err := d.expr(e.Operand)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Unaries.Allocate(ast.UnaryExpr{Op: op, Operand: operand})
		return d.b.NewExpr(ast.ExprUnary, sp, idx), nil
	case "update":
		operand, err := d.expr(e.Operand)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Updates.Allocate(ast.UpdateExpr{IsIncrement: e.Op == "++", IsPrefix: e.IsPrefix, Operand: operand})
		return d.b.NewExpr(ast.ExprUpdate, sp, idx), nil
	case "assign":
		op, ok := assignOps[e.Op]
		if !ok {
			return ast.NoExprID, fmt.Errorf("unknown assignment operator %q", e.Op)
		}
		target, err := d.expr(e.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		value, err := d.expr(e.Right)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Assigns.Allocate(ast.AssignExpr{Op: op, Target: target, Value: value})
		return d.b.NewExpr(ast.ExprAssign, sp, idx), nil
	case "conditional":
		cond, err := d.expr(e.Cond)
		if err != nil {
			return ast.NoExprID, err
		}
		then, err := d.expr(e.Then)
		if err != nil {
			return ast.NoExprID, err
		}
		els, err := d.expr(e.Else)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Conditionals.Allocate(ast.ConditionalExpr{Cond: cond, Then: then, Else: els})
		return d.b.NewExpr(ast.ExprConditional, sp, idx), nil
	case "sequence":
		exprs, err := d.exprList(e.Elements)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Sequences.Allocate(ast.SequenceExpr{Exprs: exprs})
		return d.b.NewExpr(ast.ExprSequence, sp, idx), nil
	case "spread":
		inner, err := d.expr(e.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Spreads.Allocate(ast.SpreadExpr{Expr: inner})
		return d.b.NewExpr(ast.ExprSpread, sp, idx), nil
	case "arrow":
		tparams, err := d.typeParamList(e.TypeParams)
		if err != nil {
			return ast.NoExprID, err
		}
		params, err := d.paramList(e.Params)
		if err != nil {
			return ast.NoExprID, err
		}
		ret, err := d.typeNode(e.ReturnType)
		if err != nil {
			return ast.NoExprID, err
		}
		body, block, err := d.arrowBody(e)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Arrows.Allocate(ast.ArrowExpr{
			TypeParams: tparams, Params: params, ReturnType: ret,
			Body: body, BlockBody: block, IsAsync: e.IsAsync,
		})
		return d.b.NewExpr(ast.ExprArrow, sp, idx), nil
	case "function-expr":
		tparams, err := d.typeParamList(e.TypeParams)
		if err != nil {
			return ast.NoExprID, err
		}
		params, err := d.paramList(e.Params)
		if err != nil {
			return ast.NoExprID, err
		}
		ret, err := d.typeNode(e.ReturnType)
		if err != nil {
			return ast.NoExprID, err
		}
		block, err := d.blockFromStmts(e.BlockBody)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.FunctionExprs.Allocate(ast.FunctionExpr{
			Name: d.intern(e.Name), TypeParams: tparams, Params: params, ReturnType: ret,
			Body: block, IsAsync: e.IsAsync, IsGenerator: e.IsGenerator,
		})
		return d.b.NewExpr(ast.ExprFunctionExpr, sp, idx), nil
	case "paren":
		inner, err := d.expr(e.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Parens.Allocate(ast.ParenExpr{Inner: inner})
		return d.b.NewExpr(ast.ExprParen, sp, idx), nil
	case "as":
		inner, err := d.expr(e.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		t, err := d.typeNode(e.Type)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.As.Allocate(ast.AsExpr{Expr: inner, Type: t, IsConstAssertion: e.ConstAssertion})
		return d.b.NewExpr(ast.ExprAs, sp, idx), nil
	case "satisfies":
		inner, err := d.expr(e.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		t, err := d.typeNode(e.Type)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Satisfies.Allocate(ast.SatisfiesExpr{Expr: inner, Type: t})
		return d.b.NewExpr(ast.ExprSatisfies, sp, idx), nil
	case "non-null":
		inner, err := d.expr(e.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.NonNulls.Allocate(ast.NonNullExpr{Expr: inner})
		return d.b.NewExpr(ast.ExprNonNull, sp, idx), nil
	case "typeof":
		inner, err := d.expr(e.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.TypeOfs.Allocate(ast.TypeOfExpr{Expr: inner})
		return d.b.NewExpr(ast.ExprTypeOf, sp, idx), nil
	case "await":
		inner, err := d.expr(e.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		idx := d.b.Exprs.Awaits.Allocate(ast.AwaitExpr{Expr: inner})
		return d.b.NewExpr(ast.ExprAwait, sp, idx), nil
	default:
		return ast.NoExprID, fmt.Errorf("unsupported expression kind %q", kind)
	}
}

func (d *decoder) exprList(raws []json.RawMessage) ([]ast.ExprID, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]ast.ExprID, 0, len(raws))
	for _, raw := range raws {
		id, err := d.expr(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// arrowBody picks the concise-expression-body or block-body form based on
// which field the fixture populated.
func (d *decoder) arrowBody(e exprDoc) (ast.ExprID, ast.StmtID, error) {
	if len(e.BlockBody) > 0 {
		block, err := d.blockFromStmts(e.BlockBody)
		return ast.NoExprID, block, err
	}
	body, err := d.expr(e.Body)
	return body, ast.NoStmtID, err
}
