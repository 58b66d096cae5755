// Package session is the per-invocation driver: it owns every store a check
// pass over a set of files shares — the type interner, definition store,
// lowering environment, and module resolver a multi-file check needs beyond
// what any single internal/checker pass holds on its own. It builds one
// internal/bind.Binder per file, runs internal/modres over all of them to
// populate cross-file export tables, and then drives one
// internal/checker.Checker per file against the shared
// internal/types/internal/defs/internal/tenv stores.
package session

import (
	"context"
	"path"
	"strings"

	"github.com/vovakirdan/tscheck/internal/assign"
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/checker"
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/flow"
	"github.com/vovakirdan/tscheck/internal/lower"
	"github.com/vovakirdan/tscheck/internal/modres"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/tenv"
	"github.com/vovakirdan/tscheck/internal/types"
)

// fileState is everything the session keeps per tracked file.
type fileState struct {
	id      ast.FileID
	path    string
	binder  *bind.Binder
	checker *checker.Checker
	flow    *flow.Engine

	// declSym/declDef let the checker hooks answer DeclSymbol/DeclDef for
	// this file's own top-level declarations, filled by bindFileLocals.
	declSym map[ast.DeclID]bind.SymbolID
	declDef map[ast.DeclID]defs.DefID
}

// Session bundles the stores one invocation shares across every file:
// a single type interner, definition store, lowering environment, and
// symbol arena, plus the module resolver chasing imports between files.
// One Session is built per compilation/check run; it is not safe for
// concurrent use by more than one goroutine at a time.
type Session struct {
	Builder *ast.Builder
	Strs    *source.Interner

	Types   *types.Interner
	Defs    *defs.Store
	Env     *tenv.Env
	Symbols *bind.Symbols

	Lower  *lower.Lowerer
	Assign *assign.Engine
	Modres *modres.Resolver

	Report diag.Reporter
	Bag    *diag.Bag

	Opts Options

	// symToDef resolves a nominal declaration's symbol (class/interface/
	// enum/type-alias/namespace) to the defs.DefID bindFileLocals created
	// for it, so crossFileResolver.DefOf can answer without re-walking AST.
	symToDef map[bind.SymbolID]defs.DefID
	// aliasTarget resolves an import-alias symbol (FlagAlias|FlagImport) to
	// the real symbol it stands for, once modres has resolved its specifier.
	aliasTarget map[bind.SymbolID]bind.SymbolID

	files  []*fileState
	byPath map[string]*fileState
	byID   map[ast.FileID]*fileState
}

// New builds a Session over every file currently in builder. Files must
// already be fully constructed (spec §1/§6: this repository consumes an
// already-built tree, it does not parse).
func New(builder *ast.Builder, opts Options) *Session {
	strs := builder.StringsInterner
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 1<<16 - 1 // no limit of our own; the Bag counts in uint16
	}
	bag := diag.NewBag(maxDiag)
	report := diag.Reporter(diag.NewDedupReporter(&diag.BagReporter{Bag: bag}))

	s := &Session{
		Builder:     builder,
		Strs:        strs,
		Types:       types.NewInterner(),
		Defs:        defs.NewStore(),
		Env:         tenv.New(opts.TypeDepthLimit, opts.TypeFuelLimit),
		Symbols:     bind.NewSymbols(0),
		Report:      report,
		Bag:         bag,
		Opts:        opts,
		symToDef:    make(map[bind.SymbolID]defs.DefID),
		aliasTarget: make(map[bind.SymbolID]bind.SymbolID),
		byPath:      make(map[string]*fileState),
		byID:        make(map[ast.FileID]*fileState),
	}
	if s.Types.Strings == nil {
		s.Types.Strings = strs
	}

	count := builder.Files.Arena.Len()
	modFiles := make([]*modres.File, 0, count)
	for i := uint32(1); i <= count; i++ {
		id := ast.FileID(i)
		f := builder.Files.Get(id)
		if f == nil {
			continue
		}
		binder := bind.NewBinder()
		binder.Symbols = s.Symbols // share one symbol arena across the whole session
		fs := &fileState{
			id: id, path: f.Path, binder: binder,
			declSym: make(map[ast.DeclID]bind.SymbolID),
			declDef: make(map[ast.DeclID]defs.DefID),
		}
		fs.flow = flow.New(binder.Flow, s.Symbols, builder.Exprs, builder.Decls, s.Types, strs)
		s.files = append(s.files, fs)
		s.byPath[normalizeFilePath(f.Path)] = fs
		s.byID[id] = fs
		modFiles = append(modFiles, &modres.File{ID: id, Path: f.Path, Binder: binder})
	}

	s.Modres = modres.New(builder, strs, opts.ModuleOptions(), modFiles)

	resolver := &crossFileResolver{session: s}
	s.Lower = lower.New(s.Types, s.Defs, s.Env, builder.Decls, builder.TypeNodes, strs, resolver, report)
	s.Assign = assign.New(s.Types, s.Env, s.Defs, strs, s.baseDefs, report)
	s.Assign.MaxDepth = opts.AssignDepthLimit

	return s
}

// baseDefs is wired as assign.Engine.BaseDefs. It always returns nil (the
// no-nominal-relationships fallback): no pass records heritage edges for a
// definition.
func (s *Session) baseDefs(def defs.DefID) []defs.DefID { return nil }

// Check runs the module resolver over every tracked file, then the
// file-local symbol/definition binding pass, and finally the statement/
// expression checker over each file in turn, in source order. Order
// matters: CheckImportDecl/CheckExportDecl and import-alias wiring both
// need every file's own exports populated before any cross-file chase can
// succeed, and the checker hooks need bindFileLocals's tables before
// CheckFile runs.
func (s *Session) Check(ctx context.Context) error {
	s.Modres.PopulateExports()
	if err := s.Modres.BuildAmbientIndex(ctx); err != nil {
		return err
	}

	for _, fs := range s.files {
		s.bindFileLocals(fs)
	}

	for _, fs := range s.files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		resolver := s.Lower.Resolver.(*crossFileResolver)
		resolver.current = fs

		hooks := checker.Hooks{
			ExprSymbol: func(id ast.ExprID) (bind.SymbolID, bool) { return s.resolveExprSymbol(fs, id) },
			// FlowAt/StmtFlowAt stay nil: no pass in this repository builds a
			// populated control-flow graph yet (internal/flow only interprets
			// one), so narrowing queries fall back to declared types.
			FlowAt:     nil,
			StmtFlowAt: nil,
			DeclSymbol: func(id ast.DeclID) (bind.SymbolID, bool) { sym, ok := fs.declSym[id]; return sym, ok },
			DeclDef:    func(id ast.DeclID) defs.DefID { return fs.declDef[id] },
		}
		fs.checker = checker.New(s.Types, s.Defs, s.Env, s.Symbols,
			s.Builder.Exprs, s.Builder.Decls, s.Builder.Stmts, s.Builder.TypeNodes,
			s.Strs, s.Lower, s.Assign, fs.flow, s.Report, hooks)
		fs.checker.CheckFile(s.Builder.Files.Get(fs.id))
	}
	return nil
}

// normalizeFilePath mirrors internal/modres's own path normalization so a
// cache/lookup keyed here lines up with the resolver's module-path keys.
func normalizeFilePath(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// Diagnostics returns every diagnostic collected this run.
func (s *Session) Diagnostics() []*diag.Diagnostic {
	if s.Bag == nil {
		return nil
	}
	return s.Bag.Items()
}
