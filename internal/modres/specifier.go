package modres

import (
	"path"
	"strings"

	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

var knownExtensions = []string{".ts", ".tsx", ".d.ts"}

func hasKnownExtension(p string) bool {
	for _, ext := range knownExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

func isRelativeSpecifier(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// candidateVariants generates the path variants to probe for a relative
// specifier (spec §4.10: "path with/without extension, with/without './',
// index suffix"), in the order tsc tries them.
func candidateVariants(dir, spec string) []string {
	joined := path.Clean(path.Join(dir, spec))
	variants := []string{joined}
	if !hasKnownExtension(spec) {
		for _, ext := range knownExtensions {
			variants = append(variants, joined+ext)
		}
		for _, ext := range knownExtensions {
			variants = append(variants, path.Join(joined, "index"+ext))
		}
	}
	return variants
}

// resolveResult is the outcome of resolving one specifier from one file.
type resolveResult struct {
	path                string
	ok                  bool
	matchedWithoutExt    bool // the caller wrote no extension and one was appended
	isJSON              bool
}

// resolveSpecifier implements resolve_import_target(specifier) against the
// files tracked by the resolver plus the ambient-module index, memoizing
// results in the resolved/resolvedErr maps (spec §6 "Resolved-module map" /
// "Resolved-module-error map").
func (r *Resolver) resolveSpecifier(fromPath, spec string) resolveResult {
	key := resolveKey{from: fromPath, specifier: spec}
	if target, ok := r.resolved[key]; ok {
		return resolveResult{path: target, ok: true}
	}
	if r.resolvedErr[key] {
		return resolveResult{ok: false}
	}

	if isRelativeSpecifier(spec) || strings.HasPrefix(spec, "/") {
		dir := path.Dir(fromPath)
		for _, variant := range candidateVariants(dir, spec) {
			if f := r.fileAt(variant); f != nil {
				r.resolved[key] = normalizeModulePath(f.Path)
				return resolveResult{
					path:             normalizeModulePath(f.Path),
					ok:               true,
					matchedWithoutExt: !hasKnownExtension(spec) && variant != path.Clean(path.Join(dir, spec)),
					isJSON:           strings.HasSuffix(variant, ".json"),
				}
			}
		}
	} else {
		// bare specifier: no node_modules model here, so only an exact
		// tracked path or an ambient/augmented module can satisfy it.
		if f := r.fileAt(spec); f != nil {
			r.resolved[key] = normalizeModulePath(f.Path)
			return resolveResult{path: normalizeModulePath(f.Path), ok: true}
		}
	}

	if _, ok := r.ambient[spec]; ok {
		r.resolved[key] = spec
		return resolveResult{path: spec, ok: true}
	}

	r.resolvedErr[key] = true
	return resolveResult{ok: false}
}

// reportModuleNotFound emits the TS2307/TS2792 pair (spec "two flavours")
// at most once per specifier key for the whole run.
func (r *Resolver) reportModuleNotFound(reporter diag.Reporter, spec string, sp source.Span) {
	if r.reportedModules[spec] {
		return
	}
	r.reportedModules[spec] = true
	code := diag.TS2307
	if r.Opts.Kind.usesClassicResolution() {
		code = diag.TS2792
	}
	msg := "cannot find module '" + spec + "' or its corresponding type declarations"
	if code == diag.TS2792 {
		msg = "cannot find module '" + spec + "'. Did you mean to set the 'moduleResolution' option to 'node', or to add aliases to the 'paths' option?"
	}
	diag.ReportError(reporter, code, sp, msg).Emit()
}

// reportExtensionDiagnostics implements the TS2834/TS2732 checks (TS2835 is not reported) that
// run once a specifier has actually resolved (spec "Driver-supplied errors
// ... take precedence when more specific" — here there is no separate
// driver-supplied map, so this resolver is the sole source of them).
func (r *Resolver) reportExtensionDiagnostics(reporter diag.Reporter, spec string, res resolveResult, sp source.Span) {
	if res.isJSON && !r.Opts.ResolveJsonModule {
		diag.ReportError(reporter, diag.TS2732, sp,
			"cannot find module '"+spec+"'. Consider using '--resolveJsonModule' to import module with '.json' extension").Emit()
		return
	}
	if r.Opts.RequireExplicitExtensions && isRelativeSpecifier(spec) && res.matchedWithoutExt {
		diag.ReportError(reporter, diag.TS2834, sp,
			"relative import paths need explicit file extensions in ECMAScript imports when '--moduleResolution' is 'node16' or 'nodenext'").Emit()
	}
}
