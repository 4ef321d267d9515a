package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/passwordreset"
	"github.com/google/uuid"
)

var ErrInjected = errors.New("injected failure")

// FakeStorage keeps objects in memory. FailUploadAfter makes every upload
// after the first N fail; FailRemove makes every removal fail.
type FakeStorage struct {
	mu              sync.Mutex
	Objects         map[string][]byte
	Removed         []string
	FailUploadAfter int
	FailRemove      bool
	uploads         int
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: make(map[string][]byte), FailUploadAfter: -1}
}

func (f *FakeStorage) Upload(_ context.Context, bucket, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUploadAfter >= 0 && f.uploads >= f.FailUploadAfter {
		return "", ErrInjected
	}
	f.uploads++
	f.Objects[bucket+"/"+key] = data
	return f.PublicURL(bucket, key), nil
}

func (f *FakeStorage) Remove(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRemove {
		return ErrInjected
	}
	delete(f.Objects, bucket+"/"+key)
	f.Removed = append(f.Removed, bucket+"/"+key)
	return nil
}

func (f *FakeStorage) PublicURL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}

func (f *FakeStorage) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Objects)
}

// FakeResetStore is an in-memory single-use token ledger.
type FakeResetStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func NewFakeResetStore() *FakeResetStore {
	return &FakeResetStore{tokens: make(map[string]uuid.UUID)}
}

func (f *FakeResetStore) Save(_ context.Context, jti string, userID uuid.UUID, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[jti]; ok {
		return errors.New("reset token already issued")
	}
	f.tokens[jti] = userID
	return nil
}

func (f *FakeResetStore) Consume(_ context.Context, jti string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[jti]
	if !ok {
		return uuid.Nil, passwordreset.ErrTokenNotFound
	}
	delete(f.tokens, jti)
	return id, nil
}

type SentReset struct {
	To   string
	Name string
	Link string
}

// FakeMailer records password reset requests.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []SentReset
	Err  error
}

func (f *FakeMailer) SendPasswordReset(_ context.Context, to, name, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, SentReset{To: to, Name: name, Link: link})
	return nil
}
