package traverse

import (
	"path"
	"strings"
)

// Excluder decides which root-relative paths are left out of a scan.
// Patterns support:
//   - basename globs: *.tmp, Thumbs.db
//   - directory patterns: .git/, node_modules/ (prune the whole subtree)
//   - path globs: build/*, docs/*.pdf
//   - any-depth globs: **/cache/*, **/*.bak
//
// Relative paths always use "/" separators.
type Excluder struct {
	dirPatterns  []string
	filePatterns []string
}

// NewExcluder compiles patterns. Empty patterns are ignored.
func NewExcluder(patterns []string) *Excluder {
	e := &Excluder{}
	for _, p := range patterns {
		p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "/") {
			e.dirPatterns = append(e.dirPatterns, strings.TrimSuffix(p, "/"))
			continue
		}
		e.filePatterns = append(e.filePatterns, p)
	}
	return e
}

// Empty reports whether no pattern was configured
func (e *Excluder) Empty() bool {
	return e == nil || (len(e.dirPatterns) == 0 && len(e.filePatterns) == 0)
}

// ExcludeDir reports whether the directory at rel should be pruned
func (e *Excluder) ExcludeDir(rel string) bool {
	if e.Empty() {
		return false
	}
	for _, p := range e.dirPatterns {
		if matchPattern(p, rel) {
			return true
		}
	}
	return false
}

// ExcludeFile reports whether the file at rel should be dropped
func (e *Excluder) ExcludeFile(rel string) bool {
	if e.Empty() {
		return false
	}
	for _, p := range e.filePatterns {
		if matchPattern(p, rel) {
			return true
		}
	}
	return false
}

// matchPattern applies one pattern to a root-relative path. Patterns
// without "/" look at the base name only; patterns with "/" may match at
// any depth.
func matchPattern(p, rel string) bool {
	if suffix, ok := strings.CutPrefix(p, "**/"); ok {
		return match(suffix, rel) || matchAnyTail(suffix, rel)
	}
	if strings.Contains(p, "/") {
		return match(p, rel) || matchAnyTail(p, rel)
	}
	return match(p, path.Base(rel))
}

func match(pattern, name string) bool {
	ok, _ := path.Match(pattern, name)
	return ok
}

// matchAnyTail tries pattern against every "/"-aligned suffix of rel
func matchAnyTail(pattern, rel string) bool {
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' && match(pattern, rel[i+1:]) {
			return true
		}
	}
	return false
}
