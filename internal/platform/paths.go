package platform

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans a native path, preserving UNC prefixes on Windows
func NormalizePath(p string) string {
	normalized := filepath.Clean(p)

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(p, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(p string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(p, "\\\\") || strings.HasPrefix(p, "//")
}

// IsAbsolute checks if a path is absolute
func IsAbsolute(p string) bool {
	if IsUNCPath(p) {
		return true
	}
	return filepath.IsAbs(p)
}

// ToRelative converts a native relative path into the slash-separated,
// cleaned form used as a comparison key
func ToRelative(p string) string {
	cleaned := path.Clean(filepath.ToSlash(p))
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// RelativeTo returns target relative to root as a comparison key.
// ok is false when target is not inside root.
func RelativeTo(root, target string) (rel string, ok bool) {
	r, err := filepath.Rel(NormalizePath(root), NormalizePath(target))
	if err != nil {
		return "", false
	}
	rel = ToRelative(r)
	if rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// CommonRoot returns the deepest directory containing every file in paths.
// All paths must be absolute. An empty input has no common root.
func CommonRoot(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	common := splitDir(filepath.Dir(NormalizePath(paths[0])))
	for _, p := range paths[1:] {
		dir := splitDir(filepath.Dir(NormalizePath(p)))
		n := 0
		for n < len(common) && n < len(dir) && common[n] == dir[n] {
			n++
		}
		common = common[:n]
	}

	root := strings.Join(common, string(filepath.Separator))
	if root == "" || !strings.Contains(root, string(filepath.Separator)) && filepath.VolumeName(root) == root {
		// Only the filesystem root (or a bare volume) is shared
		return root + string(filepath.Separator)
	}
	return root
}

func splitDir(dir string) []string {
	return strings.Split(dir, string(filepath.Separator))
}

// DisplayPath joins a root and a comparison key into a native path
func DisplayPath(root, rel string) string {
	if root == "" {
		return filepath.FromSlash(rel)
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(p string) error {
	if p == "" {
		return &PathError{Path: p, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(p, char) && !IsUNCPath(p) {
				return &PathError{Path: p, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
