package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket stores objects in memory, keyed by bucket/key
type fakeBucket struct {
	objects map[string][]byte
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (f *fakeBucket) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeBucket) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(input.Bucket)+"/"+aws.ToString(input.Key)] = data
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestStorePutOpen(t *testing.T) {
	bucket := newFakeBucket()
	store := NewWithClients(bucket, bucket)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s3://listings/run/left.txt", bytes.NewBufferString("abc /x\n")))
	assert.Equal(t, []byte("abc /x\n"), bucket.objects["listings/run/left.txt"])

	rc, err := store.Open(ctx, "s3://listings/run/left.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "abc /x\n", string(data))

	_, err = store.Open(ctx, "s3://listings/missing.txt")
	assert.ErrorContains(t, err, "NoSuchKey")
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{name: "simple", uri: "s3://bucket/file.txt", bucket: "bucket", key: "file.txt"},
		{name: "nested key", uri: "s3://bucket/a/b/c.txt", bucket: "bucket", key: "a/b/c.txt"},
		{name: "missing scheme", uri: "bucket/file.txt", wantErr: true},
		{name: "missing bucket", uri: "s3:///file.txt", wantErr: true},
		{name: "missing key", uri: "s3://bucket", wantErr: true},
		{name: "prefix only", uri: "s3://bucket/dir/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}
