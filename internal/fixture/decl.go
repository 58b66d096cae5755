package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tscheck/internal/ast"
)

type declDoc struct {
	Kind      string   `json:"kind"`
	Modifiers []string `json:"modifiers"`

	Name    string          `json:"name"`
	VarKind string          `json:"varKind"` // var
	TypeAnn json.RawMessage `json:"typeAnn"`
	Initializer json.RawMessage `json:"initializer"`
	DefiniteAssignment bool `json:"definiteAssignment"`

	TypeParams []typeParamDoc `json:"typeParams"`
	Params     []paramDoc     `json:"params"` // function
	ReturnType json.RawMessage `json:"returnType"`
	Body       []json.RawMessage `json:"body"` // block statements, function/method
	IsGenerator bool `json:"generator"`
	IsAsync     bool `json:"async"`

	Heritage []heritageDoc `json:"heritage"` // class/interface
	Members  []json.RawMessage `json:"members"`
	IsAbstract bool `json:"abstract"`

	Target json.RawMessage `json:"target"` // type-alias

	IsConst     bool          `json:"const"` // enum
	EnumMembers []enumMemberDoc `json:"enumMembers"`

	IsAmbient  bool              `json:"ambient"` // module
	IsGlobal   bool              `json:"global"`
	StringName bool              `json:"stringName"`
	ModuleBody []json.RawMessage `json:"moduleBody"`

	// import
	ModuleSpecifier string             `json:"moduleSpecifier"`
	DefaultName     string             `json:"defaultName"`
	NamespaceName   string             `json:"namespaceName"`
	Named           []importSpecDoc    `json:"named"`
	IsTypeOnly      bool               `json:"typeOnly"`
	EqualsRequire   bool               `json:"equalsRequire"`

	// export
	ExportKind  string          `json:"exportKind"`
	NamespaceAs string          `json:"namespaceAs"`
	DefaultExpr json.RawMessage `json:"defaultExpr"`
	DefaultDecl json.RawMessage `json:"defaultDecl"`
	EqualsExpr  json.RawMessage `json:"equalsExpr"`

	// member
	MemberKind  string          `json:"memberKind"`
	ComputedKey json.RawMessage `json:"computedKey"`
	WriteType   json.RawMessage `json:"writeType"`
	IsOptional  bool            `json:"optional"`
}

type heritageDoc struct {
	IsImplements bool            `json:"implements"`
	Type         json.RawMessage `json:"type"`
}

type enumMemberDoc struct {
	Name        string          `json:"name"`
	Initializer json.RawMessage `json:"initializer"`
}

type importSpecDoc struct {
	ImportedName string `json:"importedName"`
	LocalName    string `json:"localName"`
	IsTypeOnly   bool   `json:"typeOnly"`
}

var varKinds = map[string]ast.VarKind{
	"var": ast.VarVar, "let": ast.VarLet, "const": ast.VarConst,
	"using": ast.VarUsing, "await-using": ast.VarAwaitUsing,
}

var memberKinds = map[string]ast.MemberKind{
	"property": ast.MemberProperty, "method": ast.MemberMethod, "constructor": ast.MemberConstructor,
	"getter": ast.MemberGetter, "setter": ast.MemberSetter, "index-signature": ast.MemberIndexSignature,
	"call-signature": ast.MemberCallSignature, "construct-signature": ast.MemberConstructSignature,
}

func (d *decoder) decl(raw json.RawMessage) (ast.DeclID, error) {
	kind, err := peekKind(raw)
	if err != nil {
		return ast.NoDeclID, err
	}
	if kind == "" {
		return ast.NoDeclID, nil
	}
	var n declDoc
	if err := json.Unmarshal(raw, &n); err != nil {
		return ast.NoDeclID, err
	}
	sp := noSpan
	mods := decodeModifiers(n.Modifiers)

	switch kind {
	case "var":
		typeAnn, err := d.typeNode(n.TypeAnn)
		if err != nil {
			return ast.NoDeclID, err
		}
		init, err := d.expr(n.Initializer)
		if err != nil {
			return ast.NoDeclID, err
		}
		vk, ok := varKinds[n.VarKind]
		if !ok {
			return ast.NoDeclID, fmt.Errorf("unknown var kind %q", n.VarKind)
		}
		return d.b.NewVarDecl(sp, mods, ast.VarDecl{
			VarKind: vk, Name: d.intern(n.Name), TypeAnn: typeAnn, Initializer: init,
			DefiniteAssignment: n.DefiniteAssignment,
		}), nil
	case "function":
		tparams, err := d.typeParamList(n.TypeParams)
		if err != nil {
			return ast.NoDeclID, err
		}
		params, err := d.paramList(n.Params)
		if err != nil {
			return ast.NoDeclID, err
		}
		ret, err := d.typeNode(n.ReturnType)
		if err != nil {
			return ast.NoDeclID, err
		}
		body, err := d.blockFromStmts(n.Body)
		if err != nil {
			return ast.NoDeclID, err
		}
		return d.b.NewFunctionDecl(sp, mods, ast.FunctionDecl{
			Name: d.intern(n.Name), TypeParams: tparams, Params: params, ReturnType: ret,
			Body: body, IsGenerator: n.IsGenerator, IsAsync: n.IsAsync,
		}), nil
	case "class":
		tparams, err := d.typeParamList(n.TypeParams)
		if err != nil {
			return ast.NoDeclID, err
		}
		heritage, err := d.heritageList(n.Heritage)
		if err != nil {
			return ast.NoDeclID, err
		}
		members, err := d.memberList(n.Members)
		if err != nil {
			return ast.NoDeclID, err
		}
		return d.b.NewClassDecl(sp, mods, ast.ClassDecl{
			Name: d.intern(n.Name), TypeParams: tparams, Heritage: heritage, Members: members, IsAbstract: n.IsAbstract,
		}), nil
	case "interface":
		tparams, err := d.typeParamList(n.TypeParams)
		if err != nil {
			return ast.NoDeclID, err
		}
		heritage, err := d.heritageList(n.Heritage)
		if err != nil {
			return ast.NoDeclID, err
		}
		members, err := d.memberList(n.Members)
		if err != nil {
			return ast.NoDeclID, err
		}
		return d.b.NewInterfaceDecl(sp, mods, ast.InterfaceDecl{
			Name: d.intern(n.Name), TypeParams: tparams, Heritage: heritage, Members: members,
		}), nil
	case "type-alias":
		tparams, err := d.typeParamList(n.TypeParams)
		if err != nil {
			return ast.NoDeclID, err
		}
		target, err := d.typeNode(n.Target)
		if err != nil {
			return ast.NoDeclID, err
		}
		return d.b.NewTypeAliasDecl(sp, mods, ast.TypeAliasDecl{
			Name: d.intern(n.Name), TypeParams: tparams, Target: target,
		}), nil
	case "enum":
		members := make([]ast.EnumMemberID, 0, len(n.EnumMembers))
		for _, em := range n.EnumMembers {
			init, err := d.expr(em.Initializer)
			if err != nil {
				return ast.NoDeclID, err
			}
			members = append(members, d.b.NewEnumMember(ast.EnumMember{Name: d.intern(em.Name), Initializer: init}))
		}
		return d.b.NewEnumDecl(sp, mods, ast.EnumDecl{Name: d.intern(n.Name), IsConst: n.IsConst, Members: members}), nil
	case "module":
		body, err := d.stmtList(n.ModuleBody)
		if err != nil {
			return ast.NoDeclID, err
		}
		return d.b.NewModuleDecl(sp, mods, ast.ModuleDecl{
			Name: d.intern(n.Name), IsAmbient: n.IsAmbient, IsGlobal: n.IsGlobal,
			StringName: n.StringName, Body: body,
		}), nil
	case "import":
		named := make([]ast.ImportSpecifier, 0, len(n.Named))
		for _, sp2 := range n.Named {
			named = append(named, ast.ImportSpecifier{
				ImportedName: d.intern(sp2.ImportedName), LocalName: d.intern(sp2.LocalName), IsTypeOnly: sp2.IsTypeOnly,
			})
		}
		return d.b.NewImportDecl(sp, ast.ImportDecl{
			ModuleSpecifier: n.ModuleSpecifier, DefaultName: d.intern(n.DefaultName),
			NamespaceName: d.intern(n.NamespaceName), Named: named,
			IsTypeOnly: n.IsTypeOnly, EqualsRequire: n.EqualsRequire,
		}), nil
	case "export":
		ek, ok := exportKinds[n.ExportKind]
		if !ok {
			return ast.NoDeclID, fmt.Errorf("unknown export kind %q", n.ExportKind)
		}
		named := make([]ast.ImportSpecifier, 0, len(n.Named))
		for _, sp2 := range n.Named {
			named = append(named, ast.ImportSpecifier{
				ImportedName: d.intern(sp2.ImportedName), LocalName: d.intern(sp2.LocalName), IsTypeOnly: sp2.IsTypeOnly,
			})
		}
		defaultExpr, err := d.expr(n.DefaultExpr)
		if err != nil {
			return ast.NoDeclID, err
		}
		defaultDecl, err := d.decl(n.DefaultDecl)
		if err != nil {
			return ast.NoDeclID, err
		}
		equalsExpr, err := d.expr(n.EqualsExpr)
		if err != nil {
			return ast.NoDeclID, err
		}
		return d.b.NewExportDecl(sp, ast.ExportDecl{
			ExportKind: ek, ModuleSpecifier: n.ModuleSpecifier, Named: named,
			NamespaceAs: d.intern(n.NamespaceAs), DefaultExpr: defaultExpr, DefaultDecl: defaultDecl,
			EqualsExpr: equalsExpr, IsTypeOnly: n.IsTypeOnly,
		}), nil
	case "member":
		return d.member(n, mods)
	default:
		return ast.NoDeclID, fmt.Errorf("unsupported declaration kind %q", kind)
	}
}

var exportKinds = map[string]ast.ExportKind{
	"named": ast.ExportNamed, "star": ast.ExportStar, "star-as": ast.ExportStarAs,
	"default-expr": ast.ExportDefaultExpr, "default-decl": ast.ExportDefaultDecl,
	"equals": ast.ExportEquals, "assign-var": ast.ExportAssignVar,
}

func (d *decoder) heritageList(docs []heritageDoc) ([]ast.HeritageID, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]ast.HeritageID, 0, len(docs))
	for _, h := range docs {
		t, err := d.typeNode(h.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, d.b.NewHeritageClause(ast.HeritageClause{IsImplements: h.IsImplements, Type: t}))
	}
	return out, nil
}

func (d *decoder) memberList(raws []json.RawMessage) ([]ast.DeclID, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]ast.DeclID, 0, len(raws))
	for _, raw := range raws {
		id, err := d.decl(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) member(n declDoc, mods ast.Modifiers) (ast.DeclID, error) {
	mk, ok := memberKinds[n.MemberKind]
	if !ok {
		return ast.NoDeclID, fmt.Errorf("unknown member kind %q", n.MemberKind)
	}
	tparams, err := d.typeParamList(n.TypeParams)
	if err != nil {
		return ast.NoDeclID, err
	}
	params, err := d.paramList(n.Params)
	if err != nil {
		return ast.NoDeclID, err
	}
	typeAnn, err := d.typeNode(n.TypeAnn)
	if err != nil {
		return ast.NoDeclID, err
	}
	writeType, err := d.typeNode(n.WriteType)
	if err != nil {
		return ast.NoDeclID, err
	}
	init, err := d.expr(n.Initializer)
	if err != nil {
		return ast.NoDeclID, err
	}
	computed, err := d.expr(n.ComputedKey)
	if err != nil {
		return ast.NoDeclID, err
	}
	body, err := d.blockFromStmts(n.Body)
	if err != nil {
		return ast.NoDeclID, err
	}
	return d.b.NewMemberDecl(noSpan, mods, ast.MemberDecl{
		MemberKind: mk, Name: d.intern(n.Name), ComputedKey: computed,
		TypeParams: tparams, Params: params, TypeAnn: typeAnn, WriteType: writeType,
		Initializer: init, Body: body, IsOptional: n.IsOptional,
	}), nil
}
