package types

import "github.com/vovakirdan/tscheck/internal/defs"

// EnumInfo is the side-table payload for KindEnum (spec §3: "Enum(definition,
// member-value-type)").
type EnumInfo struct {
	Def         defs.DefID
	MemberValue TypeID // string or number, per the enum's declared member kind
}

// InternEnum interns an enum type bound to its definition.
func (in *Interner) InternEnum(def defs.DefID, memberValue TypeID) TypeID {
	payload := in.appendEnumInfo(EnumInfo{Def: def, MemberValue: memberValue})
	return in.intern(Type{Kind: KindEnum, Payload: payload})
}

func (in *Interner) appendEnumInfo(info EnumInfo) uint32 {
	for i := 1; i < len(in.enums); i++ {
		if in.enums[i] == info {
			return uint32(i)
		}
	}
	in.enums = append(in.enums, info)
	return uint32(len(in.enums) - 1)
}

// EnumInfo returns the metadata for an Enum type.
func (in *Interner) EnumInfo(id TypeID) (EnumInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindEnum {
		return EnumInfo{}, false
	}
	return in.enums[t.Payload], true
}

// ModuleNamespaceInfo is the side-table payload for KindModuleNamespace
// (spec §3: "ModuleNamespace(symbol)").
type ModuleNamespaceInfo struct {
	Symbol SymbolRef
}

// InternModuleNamespace interns the synthetic type of a namespace/module value.
func (in *Interner) InternModuleNamespace(sym SymbolRef) TypeID {
	payload := in.appendModuleNamespaceInfo(ModuleNamespaceInfo{Symbol: sym})
	return in.intern(Type{Kind: KindModuleNamespace, Payload: payload})
}

func (in *Interner) appendModuleNamespaceInfo(info ModuleNamespaceInfo) uint32 {
	for i := 1; i < len(in.modules); i++ {
		if in.modules[i] == info {
			return uint32(i)
		}
	}
	in.modules = append(in.modules, info)
	return uint32(len(in.modules) - 1)
}

// ModuleNamespaceInfo returns the metadata of a ModuleNamespace type.
func (in *Interner) ModuleNamespaceInfo(id TypeID) (ModuleNamespaceInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindModuleNamespace {
		return ModuleNamespaceInfo{}, false
	}
	return in.modules[t.Payload], true
}
