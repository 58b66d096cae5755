package session

import (
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/source"
)

// crossFileResolver implements lower.Resolver against the session's shared
// symbol arena. internal/lower is built once per session and shared across
// every file (spec §4.10/§4.11 treat the resolver as driver-supplied state,
// the same separation internal/assign draws for BaseDefs); current is
// rebound to each file in turn by Session.Check immediately before that
// file's Checker runs, since name resolution is always relative to "the
// file currently being checked".
//
// Name lookup only consults the current file's own top-level bindings
// (bindFileLocals's FileLocals table) — nested block/function scopes are
// not modeled, since no pass in this repository builds a real scope chain
// yet. A shadowing local inside a function body therefore resolves to the
// file-level declaration of the same name instead. This mirrors the same
// simplification internal/modres documents for same-file named re-exports.
type crossFileResolver struct {
	session *Session
	current *fileState
}

func (r *crossFileResolver) lookupLocal(name source.StringID) (bind.SymbolID, bool) {
	if r.current == nil {
		return bind.NoSymbolID, false
	}
	id, ok := r.current.binder.FileLocals.Get(name)
	if !ok {
		return bind.NoSymbolID, false
	}
	return r.session.resolveAlias(id), true
}

// ResolveTypeName finds the symbol a type-position identifier refers to.
func (r *crossFileResolver) ResolveTypeName(name source.StringID) (bind.SymbolID, bool) {
	return r.lookupLocal(name)
}

// ResolveValueName finds the symbol a value-position identifier refers to.
// File-scope bindings aren't split into separate value/type tables here, so
// this is the same lookup as ResolveTypeName; a caller that needs to tell
// them apart can consult the returned symbol's Flags.
func (r *crossFileResolver) ResolveValueName(name source.StringID) (bind.SymbolID, bool) {
	return r.lookupLocal(name)
}

// DefOf reports the merged definition a class/interface/alias/enum/module
// symbol belongs to.
func (r *crossFileResolver) DefOf(sym bind.SymbolID) (defs.DefID, bool) {
	id, ok := r.session.symToDef[sym]
	return id, ok
}

// resolveAlias follows an import-alias symbol (FlagAlias|FlagImport) to the
// real symbol bindFileLocals resolved it to via internal/modres, so callers
// never have to special-case aliases themselves. Non-alias symbols and
// aliases modres couldn't resolve (already diagnosed by CheckImportDecl)
// pass through unchanged.
func (s *Session) resolveAlias(id bind.SymbolID) bind.SymbolID {
	for i := 0; i < 8; i++ { // bounded: re-exported aliases chain but never cycle in practice
		sym := s.Symbols.Get(id)
		if sym == nil || !sym.Flags.Has(bind.FlagAlias) {
			return id
		}
		target, ok := s.aliasTarget[id]
		if !ok {
			return id
		}
		id = target
	}
	return id
}
