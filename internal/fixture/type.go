package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/source"
)

var noSpan = source.Span{}

type typeNodeDoc struct {
	Kind string `json:"kind"`

	Name     string            `json:"name"` // ref
	TypeArgs []json.RawMessage `json:"typeArgs"`

	Members []json.RawMessage `json:"members"` // union/intersection/type-literal

	Inner json.RawMessage `json:"inner"` // paren/keyof/readonly

	Element json.RawMessage `json:"element"` // array
	Elements []tupleElemDoc `json:"elements"` // tuple

	TypeParams []typeParamDoc `json:"typeParams"` // function
	Params     []paramDoc     `json:"params"`
	ReturnType json.RawMessage `json:"returnType"`

	Object json.RawMessage `json:"object"` // indexed-access
	Index  json.RawMessage `json:"index"`

	Expr json.RawMessage `json:"expr"` // type-query

	LiteralKind string  `json:"literalKind"` // literal
	String      string  `json:"string"`
	Number      float64 `json:"number"`
	Bool        bool    `json:"bool"`
}

type tupleElemDoc struct {
	Label      string          `json:"label"`
	Type       json.RawMessage `json:"type"`
	IsOptional bool            `json:"optional"`
	IsRest     bool            `json:"rest"`
}

type typeParamDoc struct {
	Name       string          `json:"name"`
	Constraint json.RawMessage `json:"constraint"`
	Default    json.RawMessage `json:"default"`
	IsConst    bool            `json:"const"`
}

type paramDoc struct {
	Name        string          `json:"name"`
	TypeAnn     json.RawMessage `json:"typeAnn"`
	Initializer json.RawMessage `json:"initializer"`
	IsOptional  bool            `json:"optional"`
	IsRest      bool            `json:"rest"`
	Modifiers   []string        `json:"modifiers"`
}

func (d *decoder) typeNode(raw json.RawMessage) (ast.TypeNodeID, error) {
	kind, err := peekKind(raw)
	if err != nil {
		return ast.NoTypeNodeID, err
	}
	if kind == "" {
		return ast.NoTypeNodeID, nil
	}
	var t typeNodeDoc
	if err := json.Unmarshal(raw, &t); err != nil {
		return ast.NoTypeNodeID, err
	}
	sp := noSpan

	switch kind {
	case "ref":
		args, err := d.typeNodeList(t.TypeArgs)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		return d.b.NewTypeRef(sp, d.intern(t.Name), args), nil
	case "union":
		members, err := d.typeNodeList(t.Members)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.Unions.Allocate(ast.UnionTypeNode{Members: members})
		return d.b.NewTypeNode(ast.TypeNodeUnion, sp, idx), nil
	case "intersection":
		members, err := d.typeNodeList(t.Members)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.Intersections.Allocate(ast.IntersectionTypeNode{Members: members})
		return d.b.NewTypeNode(ast.TypeNodeIntersection, sp, idx), nil
	case "paren":
		inner, err := d.typeNode(t.Inner)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.Parens.Allocate(ast.ParenTypeNode{Inner: inner})
		return d.b.NewTypeNode(ast.TypeNodeParen, sp, idx), nil
	case "array":
		el, err := d.typeNode(t.Element)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.Arrays.Allocate(ast.ArrayTypeNode{Element: el})
		return d.b.NewTypeNode(ast.TypeNodeArray, sp, idx), nil
	case "tuple":
		elems := make([]ast.TupleElement, 0, len(t.Elements))
		for _, te := range t.Elements {
			ty, err := d.typeNode(te.Type)
			if err != nil {
				return ast.NoTypeNodeID, err
			}
			elems = append(elems, ast.TupleElement{
				Label: d.intern(te.Label), Type: ty, IsOptional: te.IsOptional, IsRest: te.IsRest,
			})
		}
		idx := d.b.TypeNodes.Tuples.Allocate(ast.TupleTypeNode{Elements: elems})
		return d.b.NewTypeNode(ast.TypeNodeTuple, sp, idx), nil
	case "function", "constructor":
		tparams, err := d.typeParamList(t.TypeParams)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		params, err := d.paramList(t.Params)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		ret, err := d.typeNode(t.ReturnType)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.Functions.Allocate(ast.FunctionTypeNode{TypeParams: tparams, Params: params, ReturnType: ret})
		nodeKind := ast.TypeNodeFunction
		if kind == "constructor" {
			nodeKind = ast.TypeNodeConstructor
		}
		return d.b.NewTypeNode(nodeKind, sp, idx), nil
	case "keyof":
		inner, err := d.typeNode(t.Inner)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.KeyOfs.Allocate(ast.KeyOfTypeNode{Operand: inner})
		return d.b.NewTypeNode(ast.TypeNodeKeyOf, sp, idx), nil
	case "readonly":
		inner, err := d.typeNode(t.Inner)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.Readonlys.Allocate(ast.ReadonlyTypeNode{Operand: inner})
		return d.b.NewTypeNode(ast.TypeNodeReadonly, sp, idx), nil
	case "unique-symbol":
		idx := d.b.TypeNodes.UniqueSymbols.Allocate(ast.UniqueSymbolTypeNode{})
		return d.b.NewTypeNode(ast.TypeNodeUniqueSymbol, sp, idx), nil
	case "indexed-access":
		obj, err := d.typeNode(t.Object)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		index, err := d.typeNode(t.Index)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.IndexedAccesses.Allocate(ast.IndexedAccessTypeNode{Object: obj, Index: index})
		return d.b.NewTypeNode(ast.TypeNodeIndexedAccess, sp, idx), nil
	case "type-literal":
		members, err := d.memberList(t.Members)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.TypeLiterals.Allocate(ast.TypeLiteralNode{Members: members})
		return d.b.NewTypeNode(ast.TypeNodeTypeLiteral, sp, idx), nil
	case "type-query":
		expr, err := d.expr(t.Expr)
		if err != nil {
			return ast.NoTypeNodeID, err
		}
		idx := d.b.TypeNodes.TypeQueries.Allocate(ast.TypeQueryNode{Expr: expr})
		return d.b.NewTypeNode(ast.TypeNodeTypeQuery, sp, idx), nil
	case "literal":
		lit := ast.LiteralTypeNode{}
		switch t.LiteralKind {
		case "string":
			lit.Kind = ast.LiteralString
			lit.String = d.intern(t.String)
		case "number":
			lit.Kind = ast.LiteralNumber
			lit.Number = t.Number
		case "bigint":
			lit.Kind = ast.LiteralBigInt
			lit.String = d.intern(t.String)
		case "boolean":
			lit.Kind = ast.LiteralBoolean
			lit.Bool = t.Bool
		default:
			return ast.NoTypeNodeID, fmt.Errorf("unknown literal type kind %q", t.LiteralKind)
		}
		idx := d.b.TypeNodes.Literals.Allocate(lit)
		return d.b.NewTypeNode(ast.TypeNodeLiteral, sp, idx), nil
	case "this":
		idx := d.b.TypeNodes.This.Allocate(ast.ThisTypeNode{})
		return d.b.NewTypeNode(ast.TypeNodeThis, sp, idx), nil
	default:
		return ast.NoTypeNodeID, fmt.Errorf("unsupported type-node kind %q", kind)
	}
}

func (d *decoder) typeNodeList(raws []json.RawMessage) ([]ast.TypeNodeID, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]ast.TypeNodeID, 0, len(raws))
	for _, raw := range raws {
		id, err := d.typeNode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) typeParamList(docs []typeParamDoc) ([]ast.TypeParamID, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]ast.TypeParamID, 0, len(docs))
	for _, tp := range docs {
		constraint, err := d.typeNode(tp.Constraint)
		if err != nil {
			return nil, err
		}
		def, err := d.typeNode(tp.Default)
		if err != nil {
			return nil, err
		}
		out = append(out, d.b.NewTypeParam(ast.TypeParam{
			Name: d.intern(tp.Name), Constraint: constraint, Default: def, IsConst: tp.IsConst,
		}))
	}
	return out, nil
}

func (d *decoder) paramList(docs []paramDoc) ([]ast.ParamID, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]ast.ParamID, 0, len(docs))
	for _, p := range docs {
		typeAnn, err := d.typeNode(p.TypeAnn)
		if err != nil {
			return nil, err
		}
		init, err := d.expr(p.Initializer)
		if err != nil {
			return nil, err
		}
		out = append(out, d.b.NewParam(ast.ParamDecl{
			Name: d.intern(p.Name), TypeAnn: typeAnn, Initializer: init,
			IsOptional: p.IsOptional, IsRest: p.IsRest, Modifiers: decodeModifiers(p.Modifiers),
		}))
	}
	return out, nil
}

var modifierTable = map[string]ast.Modifiers{
	"public": ast.ModPublic, "private": ast.ModPrivate, "protected": ast.ModProtected,
	"static": ast.ModStatic, "readonly": ast.ModReadonly, "abstract": ast.ModAbstract,
	"async": ast.ModAsync, "export": ast.ModExport, "default": ast.ModDefault,
	"declare": ast.ModDeclare, "const": ast.ModConst, "override": ast.ModOverride,
	"accessor": ast.ModAccessor, "in": ast.ModIn, "out": ast.ModOut, "optional": ast.ModOptional,
}

func decodeModifiers(names []string) ast.Modifiers {
	var m ast.Modifiers
	for _, n := range names {
		m |= modifierTable[n]
	}
	return m
}
