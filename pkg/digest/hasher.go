package digest

import (
	"context"
	"encoding/hex"
	"io"
	"sync"
	"time"

	"github.com/scolby33/foldercompare/pkg/models"
	"github.com/scolby33/foldercompare/pkg/storage"
)

// ChunkSize is the read size used while streaming file contents
const ChunkSize = 64 * 1024

// ReaderWrapper wraps a file reader before hashing (e.g., for rate limiting)
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// ProgressFunc receives the bytes hashed so far for one file
type ProgressFunc func(path string, current, total int64)

// Hasher streams file contents through one digest algorithm.
// A Hasher is safe for concurrent use once configured.
type Hasher struct {
	algorithm      Algorithm
	bufferPool     *sync.Pool
	progressReport ProgressFunc  // Optional progress callback
	readerWrapper  ReaderWrapper // Optional reader wrapper (e.g., for rate limiting)
}

// New creates a hasher for the named algorithm
func New(name string) (*Hasher, error) {
	alg, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return &Hasher{
		algorithm: alg,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, ChunkSize)
				return &buf
			},
		},
	}, nil
}

// Algorithm returns the hasher's algorithm
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// SetProgressCallback sets a callback for progress reporting during hashing
func (h *Hasher) SetProgressCallback(callback ProgressFunc) {
	h.progressReport = callback
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (h *Hasher) SetReaderWrapper(wrapper ReaderWrapper) {
	h.readerWrapper = wrapper
}

// Hash digests r until EOF. Read failures are returned as *models.IOError.
func (h *Hasher) Hash(ctx context.Context, r io.Reader) (string, error) {
	return h.stream(ctx, r, "", -1)
}

// HashFile opens relPath on backend and digests its contents
func (h *Hasher) HashFile(ctx context.Context, backend storage.Backend, relPath string) (string, error) {
	var size int64 = -1
	if h.progressReport != nil {
		if info, err := backend.Stat(ctx, relPath); err == nil {
			size = info.Size
		}
	}

	reader, err := backend.Open(ctx, relPath)
	if err != nil {
		return "", &models.IOError{Path: relPath, Err: err}
	}
	defer reader.Close()

	if h.readerWrapper != nil {
		reader = h.readerWrapper(reader)
	}

	return h.stream(ctx, reader, relPath, size)
}

func (h *Hasher) stream(ctx context.Context, reader io.Reader, path string, size int64) (string, error) {
	hasher := h.algorithm.New()

	// Get buffer from pool
	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	// Progress throttling
	const (
		progressReportInterval = 50 * time.Millisecond
		progressReportBytes    = 4 * ChunkSize
	)
	var totalRead int64
	var lastReported int64
	lastReportTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			totalRead += int64(n)

			if h.progressReport != nil &&
				(totalRead-lastReported >= progressReportBytes || time.Since(lastReportTime) >= progressReportInterval) {
				h.progressReport(path, totalRead, size)
				lastReported = totalRead
				lastReportTime = time.Now()
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &models.IOError{Path: path, Err: err}
		}
	}

	if h.progressReport != nil && totalRead > lastReported {
		h.progressReport(path, totalRead, size)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Sum digests r with the named algorithm
func Sum(r io.Reader, name string) (string, error) {
	h, err := New(name)
	if err != nil {
		return "", err
	}
	return h.Hash(context.Background(), r)
}
