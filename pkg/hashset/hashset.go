// Package hashset builds ordered path-to-digest maps from directory trees
// and listing files.
package hashset

import (
	"github.com/scolby33/foldercompare/internal/platform"
)

// HashSet maps relative paths to digests, remembering insertion order.
// A HashSet is not modified after construction.
type HashSet struct {
	// Root is the absolute root the relative paths hang off, used for display
	Root string
	// Algorithm names the digest algorithm, when known
	Algorithm string

	order   []string
	digests map[string]string
}

func newSet(root, algorithm string, capacity int) *HashSet {
	return &HashSet{
		Root:      root,
		Algorithm: algorithm,
		order:     make([]string, 0, capacity),
		digests:   make(map[string]string, capacity),
	}
}

// FromMap builds a set from a map; paths are inserted in sorted order
func FromMap(root string, digests map[string]string) *HashSet {
	s := newSet(root, "", len(digests))
	for _, p := range sortedKeys(digests) {
		s.put(p, digests[p])
	}
	return s
}

// put inserts or overwrites a digest. An overwrite keeps the path's
// original position.
func (s *HashSet) put(path, digest string) {
	if _, exists := s.digests[path]; !exists {
		s.order = append(s.order, path)
	}
	s.digests[path] = digest
}

// Get returns the digest stored for path
func (s *HashSet) Get(path string) (string, bool) {
	d, ok := s.digests[path]
	return d, ok
}

// Len returns the number of paths in the set
func (s *HashSet) Len() int {
	return len(s.order)
}

// Paths returns the paths in insertion order
func (s *HashSet) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// DisplayPath returns the full native path for a relative path
func (s *HashSet) DisplayPath(rel string) string {
	return platform.DisplayPath(s.Root, rel)
}

// DigestLen returns the length of the first digest, or 0 for an empty set
func (s *HashSet) DigestLen() int {
	if len(s.order) == 0 {
		return 0
	}
	return len(s.digests[s.order[0]])
}

// Equal reports whether both sets hold the same paths, digests and order
func (s *HashSet) Equal(other *HashSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, p := range s.order {
		if other.order[i] != p || other.digests[p] != s.digests[p] {
			return false
		}
	}
	return true
}
