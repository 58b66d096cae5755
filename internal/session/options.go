package session

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vovakirdan/tscheck/internal/modres"
)

// Options configures one Session the way compiler flags configure a real
// tsc invocation (spec §6 "Compiler options"). Defaults mirror tsc's own:
// strict narrowing limits, CommonJS-ish module resolution off by default.
type Options struct {
	// Module resolution (spec §4.10).
	ModuleKind                   string // "esnext" | "node" | "classic" | "amd" | "umd" | "system"
	EsModuleInterop              bool   `toml:"esModuleInterop"`
	AllowSyntheticDefaultImports bool   `toml:"allowSyntheticDefaultImports"`
	ResolveJsonModule            bool   `toml:"resolveJsonModule"`
	RequireExplicitExtensions    bool   `toml:"requireExplicitExtensions"`

	// Recursion/fuel ceilings (spec §4.5/§4.6 "bounded depth/fuel counters").
	TypeDepthLimit   int `toml:"typeDepthLimit"`
	TypeFuelLimit    int `toml:"typeFuelLimit"`
	AssignDepthLimit int `toml:"assignDepthLimit"`

	// MaxDiagnostics bounds the diagnostic bag (0 means no limit below the
	// bag's own ceiling of 65535 entries).
	MaxDiagnostics int `toml:"maxDiagnostics"`

	// CacheDir, when non-empty, enables the on-disk module cache (see
	// cache.go). Empty disables caching entirely.
	CacheDir string `toml:"cacheDir"`
}

// DefaultOptions returns the option set a bare `tscheck` invocation runs
// with, absent a config file.
func DefaultOptions() Options {
	return Options{
		ModuleKind:       "esnext",
		TypeDepthLimit:   50,
		TypeFuelLimit:    100000,
		AssignDepthLimit: 64,
		MaxDiagnostics:   0,
	}
}

// ModuleOptions narrows Options down to the subset internal/modres consumes.
func (o Options) ModuleOptions() modres.Options {
	return modres.Options{
		Kind:                         o.moduleKind(),
		EsModuleInterop:              o.EsModuleInterop,
		AllowSyntheticDefaultImports: o.AllowSyntheticDefaultImports,
		ResolveJsonModule:            o.ResolveJsonModule,
		RequireExplicitExtensions:    o.RequireExplicitExtensions,
	}
}

func (o Options) moduleKind() modres.ModuleKind {
	switch strings.ToLower(o.ModuleKind) {
	case "node", "node16", "nodenext":
		return modres.ModuleNode
	case "classic":
		return modres.ModuleClassic
	case "amd":
		return modres.ModuleAMD
	case "umd":
		return modres.ModuleUMD
	case "system":
		return modres.ModuleSystem
	default:
		return modres.ModuleESNext
	}
}

// tomlDocument is the on-disk shape of a `tscheck.toml` config file: a
// single [compilerOptions] table covering everything Options exposes.
type tomlDocument struct {
	CompilerOptions Options `toml:"compilerOptions"`
}

// LoadOptions reads a tscheck.toml file at path, layering its
// [compilerOptions] table over DefaultOptions(). A missing [compilerOptions]
// table is not an error — an empty config file just keeps the defaults;
// this repo has no mandatory project-manifest fields.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	var doc tomlDocument
	doc.CompilerOptions = opts
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return Options{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("compilerOptions") {
		return opts, nil
	}
	return doc.CompilerOptions, nil
}
