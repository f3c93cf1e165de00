package output

import (
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// progressTemplate shows files hashed, bytes read and the current file
const progressTemplate = `{{string . "label"}} {{counters . }} files {{string . "bytes"}} {{etime . }} {{string . "file"}}`

// maxFileWidth bounds the current-file column
const maxFileWidth = 48

// getRefreshRate returns the progress refresh interval based on OS.
// Windows terminals have higher latency with ANSI sequences.
func getRefreshRate() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// ProgressBar renders hashing progress for one side of a comparison.
// It is safe for concurrent use by hashing workers.
type ProgressBar struct {
	bar *pb.ProgressBar

	mu       sync.Mutex
	fileRead map[string]int64 // bytes read so far per in-flight file
	bytes    int64
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// NewProgressBar starts a progress bar on w. total is the number of files
// to hash, or 0 when it is not known up front.
func NewProgressBar(w io.Writer, label string, total int) *ProgressBar {
	bar := pb.ProgressBarTemplate(progressTemplate).New(total)
	bar.SetWriter(w)
	bar.SetRefreshRate(getRefreshRate())
	bar.Set("label", label)
	bar.Set("bytes", formatBytes(0))
	bar.Start()

	return &ProgressBar{
		bar:      bar,
		fileRead: make(map[string]int64),
	}
}

// SetTotal updates the number of files once it is known
func (p *ProgressBar) SetTotal(total int) {
	p.bar.SetTotal(int64(total))
}

// FileStart marks a file as being hashed
func (p *ProgressBar) FileStart(path string, index int) {
	p.bar.Set("file", truncateLeft(path, maxFileWidth))
}

// FileDone counts a finished file
func (p *ProgressBar) FileDone(path string, index int) {
	p.mu.Lock()
	delete(p.fileRead, path)
	p.mu.Unlock()
	p.bar.Increment()
}

// HashProgress records cumulative bytes read for one file
func (p *ProgressBar) HashProgress(path string, current, total int64) {
	p.mu.Lock()
	p.bytes += current - p.fileRead[path]
	p.fileRead[path] = current
	bytes := p.bytes
	p.mu.Unlock()

	p.bar.Set("bytes", formatBytes(bytes))
}

// Files returns the number of files finished so far
func (p *ProgressBar) Files() int64 {
	return p.bar.Current()
}

// Bytes returns the number of bytes hashed so far
func (p *ProgressBar) Bytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytes
}

// Finish stops refreshing and draws the final state
func (p *ProgressBar) Finish() {
	p.bar.Set("file", "")
	p.bar.Finish()
}

// truncateLeft keeps the end of long paths, which is the informative part
func truncateLeft(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return "..." + string(r[len(r)-width+3:])
}
