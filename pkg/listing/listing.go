// Package listing reads and writes the two-column digest listing format:
// one "<hex digest> <path>" line per file, no header.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/scolby33/foldercompare/pkg/models"
)

// maxLineSize bounds a single listing line
const maxLineSize = 1024 * 1024

// Line is one parsed listing line
type Line struct {
	Digest string
	Path   string
	Number int // 1-based line number in the source
}

// Reader parses listing lines one at a time
type Reader struct {
	scanner *bufio.Scanner
	source  string
	line    int
}

// NewReader creates a reader; source names the input in error messages
func NewReader(r io.Reader, source string) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner, source: source}
}

// Next returns the next non-blank line, or io.EOF at the end of input.
// Unparsable lines are returned as *models.MalformedListingError.
func (r *Reader) Next() (Line, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSuffix(r.scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return r.parse(text)
	}
	if err := r.scanner.Err(); err != nil {
		return Line{}, &models.IOError{Path: r.source, Err: err}
	}
	return Line{}, io.EOF
}

func (r *Reader) parse(text string) (Line, error) {
	digest, path, ok := strings.Cut(text, " ")
	if !ok {
		return Line{}, r.malformed("missing separator between digest and path")
	}
	if digest == "" {
		return Line{}, r.malformed("empty digest")
	}
	if !isHex(digest) {
		return Line{}, r.malformed(fmt.Sprintf("digest %q is not hexadecimal", digest))
	}
	if path == "" {
		return Line{}, r.malformed("empty path")
	}

	return Line{
		Digest: strings.ToLower(digest),
		Path:   path,
		Number: r.line,
	}, nil
}

func (r *Reader) malformed(reason string) error {
	return &models.MalformedListingError{Source: r.source, Line: r.line, Reason: reason}
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// Parse reads every line of r
func Parse(r io.Reader, source string) ([]Line, error) {
	reader := NewReader(r, source)
	var lines []Line
	for {
		line, err := reader.Next()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
}

// Writer writes listing lines
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a buffered listing writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one "<digest> <path>" line
func (w *Writer) Write(digest, path string) error {
	if digest == "" || strings.ContainsAny(path, "\r\n") {
		return fmt.Errorf("cannot write listing line for %q", path)
	}
	_, err := fmt.Fprintf(w.w, "%s %s\n", digest, path)
	return err
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	return w.w.Flush()
}
