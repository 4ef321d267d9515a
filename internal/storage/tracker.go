package storage

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/metrics"
)

type uploaded struct {
	bucket string
	key    string
}

// Tracker records the objects uploaded during one workflow so they can be
// removed if the workflow fails. Use it as:
//
//	tr := storage.NewTracker(store)
//	defer tr.Rollback(ctx)
//	... tr.Upload(...) ...
//	tr.Commit()
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	store     Storage
	objects   []uploaded
	committed bool
}

func NewTracker(store Storage) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	url, err := t.store.Upload(ctx, bucket, key, data, contentType)
	if err != nil {
		metrics.StorageUploadsTotal.WithLabelValues(bucket, "error").Inc()
		return "", err
	}
	metrics.StorageUploadsTotal.WithLabelValues(bucket, "ok").Inc()
	t.objects = append(t.objects, uploaded{bucket: bucket, key: key})
	return url, nil
}

// Commit keeps every uploaded object; a later Rollback is a no-op.
func (t *Tracker) Commit() {
	t.committed = true
}

// Rollback removes every uploaded object unless Commit was called. Each
// removal is attempted once; failures are logged and never returned.
func (t *Tracker) Rollback(ctx context.Context) {
	if t.committed || len(t.objects) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, o := range t.objects {
		if err := t.store.Remove(ctx, o.bucket, o.key); err != nil {
			metrics.StorageCompensationsTotal.WithLabelValues(o.bucket, "error").Inc()
			slog.Error("failed to remove uploaded object",
				"action", "storage_compensation",
				"bucket", o.bucket,
				"key", o.key,
				"error", err,
			)
			continue
		}
		metrics.StorageCompensationsTotal.WithLabelValues(o.bucket, "ok").Inc()
	}
	t.objects = nil
}
