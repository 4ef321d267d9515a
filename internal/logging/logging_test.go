package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewPGHandler(db)
	defer h.Stop()

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("failed to remove uploaded object",
		"action", "storage_compensation",
		"user_id", "u-1",
		"error", "s3 unavailable",
		"bucket", "fotosReceitas",
	)
	h.Flush()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "req-1", row.RequestID)
	assert.Equal(t, "storage_compensation", row.Action)
	assert.Equal(t, "s3 unavailable", row.Error)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, "fotosReceitas", extra["bucket"])
}

func TestPurgeBefore(t *testing.T) {
	db := testutil.NewDB(t)
	old := models.SystemLog{Timestamp: time.Now().AddDate(0, 0, -40), Level: "ERROR"}
	fresh := models.SystemLog{Timestamp: time.Now(), Level: "ERROR"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	deleted, err := PurgeBefore(db, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	m := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(m).With("service", "ecodicas")

	logger.Info("hello")
	logger.Error("boom")

	assert.Contains(t, info.String(), "hello")
	assert.Contains(t, info.String(), "boom")
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), `"service":"ecodicas"`)
}


type failingHandler struct {
	slog.Handler
	err error
}

func (f failingHandler) Handle(context.Context, slog.Record) error { return f.err }

func TestMultiHandlerKeepsWritingAfterSinkFailure(t *testing.T) {
	var out bytes.Buffer
	dbDown := errors.New("db down")
	m := NewMultiHandler(
		failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil), err: dbDown},
		slog.NewJSONHandler(&out, nil),
	)

	record := slog.NewRecord(time.Now(), slog.LevelError, "failed to list dicas", 0)
	err := m.Handle(context.Background(), record)

	assert.ErrorIs(t, err, dbDown)
	assert.Contains(t, out.String(), "failed to list dicas")
}

func TestMultiHandlerEmptyGroupIsNoop(t *testing.T) {
	m := NewMultiHandler(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	assert.Same(t, m, m.WithGroup(""))
}
