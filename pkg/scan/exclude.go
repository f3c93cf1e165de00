package scan

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a relative path is excluded from a scan.
// Patterns support:
//   - Basename globs: *.tmp, .DS_Store
//   - Directory patterns: .git/, node_modules/ (the whole subtree)
//   - Path globs matched from the root: build/*, **/testdata/*.golden
type Matcher struct {
	patterns []string
}

// NewMatcher validates and compiles the given patterns
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(strings.TrimSuffix(p, "/")) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Empty reports whether the matcher has no patterns
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Match reports whether relPath is excluded. isDir marks directory entries.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m.Empty() {
		return false
	}

	base := path.Base(relPath)
	for _, pattern := range m.patterns {
		if dirPattern, ok := strings.CutSuffix(pattern, "/"); ok {
			// Subtrees are pruned when the directory itself is visited
			if isDir && matchPattern(dirPattern, relPath, base) {
				return true
			}
			continue
		}
		if matchPattern(pattern, relPath, base) {
			return true
		}
	}
	return false
}

// matchPattern applies patterns without a separator to the basename only
func matchPattern(pattern, relPath, base string) bool {
	if !strings.Contains(pattern, "/") {
		matched, _ := doublestar.Match(pattern, base)
		return matched
	}
	matched, _ := doublestar.Match(pattern, relPath)
	return matched
}
