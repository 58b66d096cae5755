package types

import "fmt"

// Param is one parameter of a Signature.
type Param struct {
	Name     uint32 // source.StringID
	Type     TypeID
	Optional bool
	Rest     bool
}

// Signature is a single call or construct signature.
type Signature struct {
	TypeParams uint32 // slot in the TypeID listPool, holding TypeParameter TypeIDs
	Params     []Param
	Return     TypeID
}

func signatureKey(s Signature) string {
	str := fmt.Sprintf("tp%d|ret%d|", s.TypeParams, s.Return)
	for _, p := range s.Params {
		str += fmt.Sprintf("%d:%d:%t:%t,", p.Name, p.Type, p.Optional, p.Rest)
	}
	return str
}

// FuncInfo is the side-table payload for KindFunction: a single signature,
// optionally a construct signature (spec §3: "may be constructor").
type FuncInfo struct {
	Sig           Signature
	IsConstructor bool
}

// InternFunction interns a single-signature function type.
func (in *Interner) InternFunction(sig Signature, isConstructor bool) TypeID {
	payload := in.appendFuncInfo(FuncInfo{Sig: sig, IsConstructor: isConstructor})
	return in.intern(Type{Kind: KindFunction, Payload: payload})
}

func (in *Interner) appendFuncInfo(info FuncInfo) uint32 {
	key := signatureKey(info.Sig)
	for i := 1; i < len(in.funcs); i++ {
		if in.funcs[i].IsConstructor == info.IsConstructor && signatureKey(in.funcs[i].Sig) == key &&
			paramsEqual(in.funcs[i].Sig.Params, info.Sig.Params) {
			return uint32(i)
		}
	}
	in.funcs = append(in.funcs, info)
	return uint32(len(in.funcs) - 1)
}

func paramsEqual(a, b []Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FuncInfo returns the signature metadata for a KindFunction type.
func (in *Interner) FuncInfo(id TypeID) (FuncInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindFunction {
		return FuncInfo{}, false
	}
	return in.funcs[t.Payload], true
}

// CallableInfo is the side-table payload for KindCallable: an object with
// call and/or construct signatures plus properties and index signatures
// (spec §3 "Callable").
type CallableInfo struct {
	CallSigs      []Signature
	ConstructSigs []Signature
	Object        uint32 // slot in the ObjectInfo table, for properties/index signatures
}

// InternCallable interns an object type that also carries call/construct signatures.
func (in *Interner) InternCallable(callSigs, constructSigs []Signature, props []Property) TypeID {
	sorted := sortedProperties(props)
	objSlot := in.propLists.intern(propertyListKey(sorted), sorted)
	objPayload := in.appendObjectInfo(ObjectInfo{Properties: objSlot})
	payload := in.appendCallableInfo(CallableInfo{CallSigs: callSigs, ConstructSigs: constructSigs, Object: objPayload})
	return in.intern(Type{Kind: KindCallable, Payload: payload})
}

func (in *Interner) appendCallableInfo(info CallableInfo) uint32 {
	in.callables = append(in.callables, info)
	return uint32(len(in.callables) - 1)
}

// CallableInfo returns the signature/property metadata for a KindCallable type.
func (in *Interner) CallableInfo(id TypeID) (CallableInfo, []Property, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindCallable {
		return CallableInfo{}, nil, false
	}
	info := in.callables[t.Payload]
	return info, in.propLists.get(in.objects[info.Object].Properties), true
}

// GetConstructSignatures returns every construct signature reachable from
// id: a KindFunction marked IsConstructor, or a KindCallable's ConstructSigs.
func (in *Interner) GetConstructSignatures(id TypeID) []Signature {
	t, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	switch t.Kind {
	case KindFunction:
		info := in.funcs[t.Payload]
		if info.IsConstructor {
			return []Signature{info.Sig}
		}
	case KindCallable:
		return in.callables[t.Payload].ConstructSigs
	}
	return nil
}
