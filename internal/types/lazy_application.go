package types

import "github.com/vovakirdan/tscheck/internal/defs"

// LazyInfo is the side-table payload for KindLazy: an unresolved named type,
// resolved later through the Type Environment (spec §3 "Lazy(DefId)").
type LazyInfo struct {
	Def defs.DefID
}

// InternLazy interns an unresolved reference to a definition.
func (in *Interner) InternLazy(def defs.DefID) TypeID {
	payload := in.appendLazyInfo(LazyInfo{Def: def})
	return in.intern(Type{Kind: KindLazy, Payload: payload})
}

func (in *Interner) appendLazyInfo(info LazyInfo) uint32 {
	for i := 1; i < len(in.lazies); i++ {
		if in.lazies[i] == info {
			return uint32(i)
		}
	}
	in.lazies = append(in.lazies, info)
	return uint32(len(in.lazies) - 1)
}

// GetLazyDefID returns the definition a Lazy type refers to.
func (in *Interner) GetLazyDefID(id TypeID) (defs.DefID, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindLazy {
		return defs.NoDefID, false
	}
	return in.lazies[t.Payload].Def, true
}

// ApplicationInfo is the side-table payload for KindApplication: a generic
// type reference before substitution (spec §3 "Application(base, args)").
type ApplicationInfo struct {
	Base defs.DefID
	Args uint32 // slot in the TypeID listPool
}

// InternApplication interns an unsubstituted generic instantiation.
func (in *Interner) InternApplication(base defs.DefID, args []TypeID) TypeID {
	slot := in.idLists.intern(idListKey(args)+"#app", args)
	payload := in.appendApplicationInfo(ApplicationInfo{Base: base, Args: slot})
	return in.intern(Type{Kind: KindApplication, Payload: payload})
}

func (in *Interner) appendApplicationInfo(info ApplicationInfo) uint32 {
	for i := 1; i < len(in.apps); i++ {
		if in.apps[i] == info {
			return uint32(i)
		}
	}
	in.apps = append(in.apps, info)
	return uint32(len(in.apps) - 1)
}

// ApplicationInfo returns the base definition and type arguments of an
// Application type.
func (in *Interner) ApplicationInfo(id TypeID) (defs.DefID, []TypeID, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindApplication {
		return defs.NoDefID, nil, false
	}
	info := in.apps[t.Payload]
	return info.Base, in.idLists.get(info.Args), true
}
