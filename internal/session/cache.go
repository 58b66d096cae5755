package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
)

// diskCacheSchemaVersion guards against decoding a payload written by an
// incompatible build; bump it whenever CachedFile's shape changes.
const diskCacheSchemaVersion uint16 = 1

// Digest is a content hash, compatible with source.File.Hash.
type Digest [32]byte

// CombineDigest folds a file's own content hash together with its direct
// dependencies' module hashes into one aggregate hash, the same
// H(content || dep1 || dep2 ...) construction as project.Combine — deps
// must be supplied in a deterministic order (declaration order, as directDependencyHashes collects them) so
// the same module always hashes the same way regardless of map iteration
// order.
func CombineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	h.Write(content[:])
	for _, d := range deps {
		h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CachedDiagnostic is the serializable projection of a diag.Diagnostic: Fix
// carries a func-typed Thunk that msgpack cannot encode, so fixes are
// dropped from the cache entry — a cache hit replays positions and
// messages, and re-running the check from source (a cache miss) is what
// recovers quick-fixes.
type CachedDiagnostic struct {
	Severity diag.Severity
	Code     diag.Code
	Message  string
	Primary  source.Span
}

// CachedFile is what DiskCache stores per file, keyed by ModuleHash (which
// already folds in every dependency's hash, so a stale entry for an
// unrelated hash never gets served).
type CachedFile struct {
	Schema      uint16
	Path        string
	ContentHash Digest
	ModuleHash  Digest
	Broken      bool
	Diagnostics []CachedDiagnostic
}

// DiskCache persists CachedFile entries under a base directory, one file
// per ModuleHash, keyed by content+dependency hash so a file's cached
// result is invalidated whenever its own text or any import it depends
// on changes.
type DiskCache struct {
	dir string
}

// OpenDiskCache opens (creating if needed) a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("session: empty cache directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put writes entry under its ModuleHash, replacing any prior entry for the
// same hash atomically (write-to-temp then rename, same as dcache.go).
func (c *DiskCache) Put(entry CachedFile) error {
	if c == nil {
		return nil
	}
	entry.Schema = diskCacheSchemaVersion
	p := c.pathFor(entry.ModuleHash)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads back the entry for key, if present and schema-compatible.
func (c *DiskCache) Get(key Digest) (CachedFile, bool, error) {
	if c == nil {
		return CachedFile{}, false, nil
	}
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CachedFile{}, false, nil
		}
		return CachedFile{}, false, err
	}
	defer f.Close()
	var out CachedFile
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return CachedFile{}, false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return CachedFile{}, false, nil
	}
	return out, true, nil
}

// ExtractCache builds one CachedFile per tracked file from the session's
// current diagnostics, content hashes, and the module dependency graph
// internal/modres resolved — ready to Put into a DiskCache after a run
// completes.
func (s *Session) ExtractCache(contentHash func(path string) Digest) []CachedFile {
	byFile := make(map[string][]CachedDiagnostic)
	hasError := make(map[string]bool)
	for _, d := range s.Diagnostics() {
		path := s.pathForSpan(d.Primary)
		byFile[path] = append(byFile[path], CachedDiagnostic{
			Severity: d.Severity, Code: d.Code, Message: d.Message, Primary: d.Primary,
		})
		if d.Severity == diag.SevError {
			hasError[path] = true
		}
	}

	hashes := make(map[string]Digest, len(s.files))
	for _, fs := range s.files {
		hashes[fs.path] = contentHash(fs.path)
	}

	out := make([]CachedFile, 0, len(s.files))
	for _, fs := range s.files {
		deps := s.directDependencyHashes(fs, hashes)
		module := CombineDigest(hashes[fs.path], deps...)
		out = append(out, CachedFile{
			Path:        fs.path,
			ContentHash: hashes[fs.path],
			ModuleHash:  module,
			Broken:      hasError[fs.path],
			Diagnostics: byFile[fs.path],
		})
	}
	return out
}

// directDependencyHashes walks fs's own top-level re-export specifiers
// (named re-exports, then wildcard ones) and collects the content hash of
// whichever file each one resolves to, in declaration order so the result
// is deterministic.
// This is the reverse-dependency edge the invalidation walk in
// InvalidateDependents follows backwards.
func (s *Session) directDependencyHashes(fs *fileState, hashes map[string]Digest) []Digest {
	var deps []Digest
	exports := fs.binder.ExportsByPath[normalizeFilePath(fs.path)]
	if exports == nil {
		return deps
	}
	seen := make(map[string]bool)
	add := func(specifier source.StringID) {
		spec, _ := s.Strs.Lookup(specifier)
		target := s.byPath[normalizeFilePath(spec)]
		if target == nil || seen[target.path] {
			return
		}
		seen[target.path] = true
		deps = append(deps, hashes[target.path])
	}
	for _, re := range exports.Reexports {
		add(re.Specifier)
	}
	for _, wc := range exports.WildcardReexports {
		add(wc.Specifier)
	}
	return deps
}

// InvalidateDependents computes the transitive set of files whose cached
// entry is no longer trustworthy once the files in changed have new content
// — every file that (directly or transitively) imports a changed file must
// be re-checked too, since its ModuleHash folded in the old content hash
// (spec §4.11 "reverse-dependency invalidation": changing a leaf module
// invalidates every module that imported it, not just the leaf itself).
func (s *Session) InvalidateDependents(changed []string) map[string]bool {
	dirty := make(map[string]bool, len(changed))
	for _, p := range changed {
		dirty[normalizeFilePath(p)] = true
	}

	// reverse edges: dependency path -> importers (built once per call; the
	// session itself doesn't keep a standing reverse-dependency index since
	// it is only needed for this one invalidation query).
	importers := make(map[string][]string)
	for _, fs := range s.files {
		exports := fs.binder.ExportsByPath[normalizeFilePath(fs.path)]
		if exports == nil {
			continue
		}
		record := func(specifier source.StringID) {
			spec, _ := s.Strs.Lookup(specifier)
			if target := s.byPath[normalizeFilePath(spec)]; target != nil {
				importers[target.path] = append(importers[target.path], fs.path)
			}
		}
		for _, re := range exports.Reexports {
			record(re.Specifier)
		}
		for _, wc := range exports.WildcardReexports {
			record(wc.Specifier)
		}
	}

	queue := make([]string, 0, len(changed))
	for p := range dirty {
		queue = append(queue, p)
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, importer := range importers[p] {
			key := normalizeFilePath(importer)
			if dirty[key] {
				continue
			}
			dirty[key] = true
			queue = append(queue, key)
		}
	}
	return dirty
}

func (s *Session) pathForSpan(sp source.Span) string {
	fs := s.byID[ast.FileID(sp.File)]
	if fs == nil {
		return ""
	}
	return fs.path
}
