package imagestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func pngUpload(t *testing.T, filename string) Upload {
	t.Helper()

	upload, err := NewUpload(filename, int64(len(pngBytes)), bytes.NewReader(pngBytes))
	require.NoError(t, err)
	return upload
}

func TestNewUpload(t *testing.T) {
	upload := pngUpload(t, "laptop.png")

	assert.Equal(t, "image/png", upload.ContentType)
	assert.Equal(t, int64(len(pngBytes)), upload.Size)

	// Body must be rewound after sniffing
	data, err := io.ReadAll(upload.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestNewUpload_RejectsNonImages(t *testing.T) {
	body := strings.NewReader("just some text")

	_, err := NewUpload("notes.txt", int64(body.Len()), body)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNewUpload_DetectsByContent(t *testing.T) {
	tiff := append([]byte("II*\x00"), bytes.Repeat([]byte{0}, 16)...)

	upload, err := NewUpload("scan", int64(len(tiff)), bytes.NewReader(tiff))
	require.NoError(t, err)
	assert.Equal(t, "image/tiff", upload.ContentType)
	assert.True(t, strings.HasSuffix(objectName(upload), ".tiff"))
}

func TestNewUpload_RejectsSVG(t *testing.T) {
	body := strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)

	_, err := NewUpload("logo.svg", int64(body.Len()), body)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestObjectName(t *testing.T) {
	assert.True(t, strings.HasSuffix(objectName(Upload{Filename: "Photo.JPG"}), ".jpg"))
	assert.True(t, strings.HasSuffix(objectName(Upload{Filename: "blob", ContentType: "image/png"}), ".png"))
	assert.NotEqual(t, objectName(Upload{Filename: "a.png"}), objectName(Upload{Filename: "a.png"}))
}

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	store, err := NewLocalStore(dir, "/uploads", zerolog.Nop())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), pngUpload(t, "laptop.png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestLocalStore_CancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads", zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, pngUpload(t, "laptop.png"))
	assert.ErrorIs(t, err, context.Canceled)
}

// fakePutter captures PutObject calls.
type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	putter := &fakePutter{}
	store := newS3Store(putter, "product-images", "eu-west-1", "products/", zerolog.Nop())

	ref, err := store.Save(context.Background(), pngUpload(t, "laptop.png"))
	require.NoError(t, err)

	require.NotNil(t, putter.input)
	assert.Equal(t, "product-images", *putter.input.Bucket)
	assert.True(t, strings.HasPrefix(*putter.input.Key, "products/"))
	assert.Equal(t, "image/png", *putter.input.ContentType)
	assert.Equal(t, int64(len(pngBytes)), *putter.input.ContentLength)
	assert.Equal(t, pngBytes, putter.body)
	assert.Equal(t, "https://product-images.s3.eu-west-1.amazonaws.com/"+*putter.input.Key, ref)
}

func TestS3Store_SaveError(t *testing.T) {
	store := newS3Store(&fakePutter{err: errors.New("access denied")}, "product-images", "eu-west-1", "products/", zerolog.Nop())

	_, err := store.Save(context.Background(), pngUpload(t, "laptop.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

// mockStore is a Store whose behaviour is supplied by the test.
type mockStore struct {
	saveFunc func(ctx context.Context, upload Upload) (string, error)
}

func (m *mockStore) Save(ctx context.Context, upload Upload) (string, error) {
	return m.saveFunc(ctx, upload)
}

func TestFallbackStore_PrimarySuccess(t *testing.T) {
	primary := &mockStore{saveFunc: func(ctx context.Context, upload Upload) (string, error) {
		return "https://bucket/laptop.png", nil
	}}
	secondary := &mockStore{saveFunc: func(ctx context.Context, upload Upload) (string, error) {
		t.Error("secondary store should not be called when primary succeeds")
		return "", errors.New("should not be called")
	}}

	ref, err := NewFallbackStore(primary, secondary, zerolog.Nop()).Save(context.Background(), pngUpload(t, "laptop.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://bucket/laptop.png", ref)
}

func TestFallbackStore_PrimaryFailsFallsBack(t *testing.T) {
	primary := &mockStore{saveFunc: func(ctx context.Context, upload Upload) (string, error) {
		// Consume part of the body like a failed upload would
		_, _ = io.CopyN(io.Discard, upload.Body, 4)
		return "", errors.New("S3 connection failed")
	}}
	secondary := &mockStore{saveFunc: func(ctx context.Context, upload Upload) (string, error) {
		data, err := io.ReadAll(upload.Body)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, data, "body must be rewound before fallback")
		return "/uploads/laptop.png", nil
	}}

	ref, err := NewFallbackStore(primary, secondary, zerolog.Nop()).Save(context.Background(), pngUpload(t, "laptop.png"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/laptop.png", ref)
}

func TestFallbackStore_NoPrimary(t *testing.T) {
	called := false
	secondary := &mockStore{saveFunc: func(ctx context.Context, upload Upload) (string, error) {
		called = true
		return "/uploads/laptop.png", nil
	}}

	_, err := NewFallbackStore(nil, secondary, zerolog.Nop()).Save(context.Background(), pngUpload(t, "laptop.png"))
	require.NoError(t, err)
	assert.True(t, called)
}
