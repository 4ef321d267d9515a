package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "r1/1700000000123_bolo.png", ObjectKey("r1", "bolo.png", now))
	assert.Equal(t, "r1/1700000000123_evil.png", ObjectKey("r1", "../../evil.png", now))
	assert.Equal(t, "r1/1700000000123_c.png", ObjectKey("r1", `a\b\c.png`, now))
	assert.Equal(t, "r1/1700000000123_my_photo.jpg", ObjectKey("r1", "my photo.jpg", now))
	assert.Equal(t, "r1/1700000000123_file", ObjectKey("r1", "", now))
}

func TestLocalUploadAndRemove(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := l.Upload(ctx, BucketRecipePhotos, "r1/1_a.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/fotosReceitas/r1/1_a.png", url)

	data, err := os.ReadFile(filepath.Join(root, BucketRecipePhotos, "r1", "1_a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, l.Remove(ctx, BucketRecipePhotos, "r1/1_a.png"))
	_, err = os.Stat(filepath.Join(root, BucketRecipePhotos, "r1", "1_a.png"))
	assert.True(t, os.IsNotExist(err))

	// removing a missing object is not an error
	assert.NoError(t, l.Remove(ctx, BucketRecipePhotos, "r1/1_a.png"))
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "http://x")
	require.NoError(t, err)

	_, err = l.Upload(context.Background(), BucketProfilePhotos, "../../etc/passwd", []byte("x"), "text/plain")
	assert.Error(t, err)
}

type flakyStorage struct {
	*Local
	removeErr error
	removed   []string
}

func (f *flakyStorage) Remove(ctx context.Context, bucket, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, key)
	return f.Local.Remove(ctx, bucket, key)
}

func newFlaky(t *testing.T) *flakyStorage {
	l, err := NewLocal(t.TempDir(), "http://x")
	require.NoError(t, err)
	return &flakyStorage{Local: l}
}

func TestTrackerRollbackRemovesUploads(t *testing.T) {
	store := newFlaky(t)
	ctx := context.Background()

	tr := NewTracker(store)
	url, err := tr.Upload(ctx, BucketRecipePhotos, "r/1_a", []byte("a"), "")
	require.NoError(t, err)
	assert.Equal(t, "http://x/fotosReceitas/r/1_a", url)
	_, err = tr.Upload(ctx, BucketRecipePhotos, "r/2_b", []byte("b"), "")
	require.NoError(t, err)

	tr.Rollback(ctx)
	assert.Equal(t, []string{"r/1_a", "r/2_b"}, store.removed)

	// second rollback has nothing left to do
	tr.Rollback(ctx)
	assert.Len(t, store.removed, 2)
}

func TestTrackerCommitKeepsUploads(t *testing.T) {
	store := newFlaky(t)
	ctx := context.Background()

	tr := NewTracker(store)
	_, err := tr.Upload(ctx, BucketRecipePhotos, "r/1_a", []byte("a"), "")
	require.NoError(t, err)
	tr.Commit()
	tr.Rollback(ctx)

	assert.Empty(t, store.removed)
}

func TestTrackerRollbackSwallowsRemoveErrors(t *testing.T) {
	store := newFlaky(t)
	ctx := context.Background()

	tr := NewTracker(store)
	_, err := tr.Upload(ctx, BucketProfilePhotos, "u/1_a", []byte("a"), "")
	require.NoError(t, err)

	store.removeErr = errors.New("s3 unavailable")
	assert.NotPanics(t, func() { tr.Rollback(ctx) })
}
