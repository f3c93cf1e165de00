package listing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/scolby33/foldercompare/pkg/s3store"
)

// Stdio is the location naming stdin for reads and stdout for writes
const Stdio = "-"

// Remote stores listings outside the local filesystem
type Remote interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
	Put(ctx context.Context, uri string, body io.Reader) error
}

// IsRemote reports whether location needs a Remote
func IsRemote(location string) bool {
	return s3store.IsURI(location)
}

// Open opens a listing for reading from "-", a local file or an s3:// URI
func Open(ctx context.Context, location string, remote Remote) (io.ReadCloser, error) {
	switch {
	case location == Stdio:
		return io.NopCloser(os.Stdin), nil
	case IsRemote(location):
		if remote == nil {
			return nil, fmt.Errorf("no remote store configured for %s", location)
		}
		return remote.Open(ctx, location)
	default:
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open listing: %w", err)
		}
		return f, nil
	}
}

// Create opens a listing for writing to "-", a local file or an s3:// URI.
// Remote listings are buffered and uploaded on Close.
func Create(ctx context.Context, location string, remote Remote) (io.WriteCloser, error) {
	switch {
	case location == Stdio:
		return nopWriteCloser{os.Stdout}, nil
	case IsRemote(location):
		if remote == nil {
			return nil, fmt.Errorf("no remote store configured for %s", location)
		}
		return &remoteWriter{ctx: ctx, uri: location, remote: remote}, nil
	default:
		f, err := os.Create(location)
		if err != nil {
			return nil, fmt.Errorf("failed to create listing: %w", err)
		}
		return f, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type remoteWriter struct {
	ctx    context.Context
	uri    string
	remote Remote
	buf    bytes.Buffer
	closed bool
}

func (w *remoteWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write to closed listing %s", w.uri)
	}
	return w.buf.Write(p)
}

func (w *remoteWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.remote.Put(w.ctx, w.uri, &w.buf)
}
