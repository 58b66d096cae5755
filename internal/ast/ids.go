package ast

// Dense identifiers into the AST arenas. All are 1-based; zero means "absent".
type (
	// FileID identifies a source file.
	FileID uint32
	// DeclID identifies a declaration node (variable, function, class, interface,
	// type alias, enum, module, import, export).
	DeclID uint32
	// StmtID identifies a statement node.
	StmtID uint32
	// ExprID identifies an expression node.
	ExprID uint32
	// TypeNodeID identifies a syntactic type expression node.
	TypeNodeID uint32
	// ParamID identifies a function/method parameter.
	ParamID uint32
	// TypeParamID identifies a generic type parameter declaration.
	TypeParamID uint32
	// PropID identifies a member of an object type literal, interface, or class.
	PropID uint32
	// EnumMemberID identifies a member of an enum declaration.
	EnumMemberID uint32
	// HeritageID identifies a single `extends`/`implements` clause entry.
	HeritageID uint32
	// DecoratorID identifies a decorator application.
	DecoratorID uint32
	// BindingElemID identifies one element of a destructuring pattern.
	BindingElemID uint32
)

const (
	NoFileID       FileID       = 0
	NoDeclID       DeclID       = 0
	NoStmtID       StmtID       = 0
	NoExprID       ExprID       = 0
	NoTypeNodeID   TypeNodeID   = 0
	NoParamID      ParamID      = 0
	NoTypeParamID  TypeParamID  = 0
	NoPropID       PropID       = 0
	NoEnumMemberID EnumMemberID = 0
	NoHeritageID   HeritageID   = 0
	NoDecoratorID  DecoratorID  = 0
	NoBindingElemID BindingElemID = 0
)

func (id FileID) IsValid() bool        { return id != NoFileID }
func (id DeclID) IsValid() bool        { return id != NoDeclID }
func (id StmtID) IsValid() bool        { return id != NoStmtID }
func (id ExprID) IsValid() bool        { return id != NoExprID }
func (id TypeNodeID) IsValid() bool    { return id != NoTypeNodeID }
func (id ParamID) IsValid() bool       { return id != NoParamID }
func (id TypeParamID) IsValid() bool   { return id != NoTypeParamID }
func (id PropID) IsValid() bool        { return id != NoPropID }
func (id EnumMemberID) IsValid() bool  { return id != NoEnumMemberID }
func (id HeritageID) IsValid() bool    { return id != NoHeritageID }
func (id DecoratorID) IsValid() bool   { return id != NoDecoratorID }
func (id BindingElemID) IsValid() bool { return id != NoBindingElemID }
