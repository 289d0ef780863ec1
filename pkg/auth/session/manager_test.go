package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	ctx := context.Background()
	userID := uuid.New()
	accessID := "access-123"
	token, err := manager.Generate(ctx, accessID, userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stored := store.data[store.AccessSessionKey(accessID)]; stored != userID.String()+":"+token {
		t.Fatalf("unexpected stored session %q", stored)
	}

	if _, _, _, err := manager.Rotate(ctx, accessID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	newAccessID, newToken, gotUser, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if gotUser != userID {
		t.Fatalf("rotation lost the user binding: %s", gotUser)
	}
	if _, exists := store.data[store.AccessSessionKey(accessID)]; exists {
		t.Fatalf("old access key left behind")
	}
	if stored := store.data[store.AccessSessionKey(newAccessID)]; stored != userID.String()+":"+newToken {
		t.Fatalf("expected new token stored, got %q", stored)
	}
}

func TestRotateUnknownSession(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, _, _, err := manager.Rotate(context.Background(), "missing", "token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token, got %v", err)
	}
}

func TestRevokeAndHasSession(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "a1", uuid.New()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	ok, err := manager.HasSession(ctx, "a1")
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, "a1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, "a1")
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, " "); err == nil {
		t.Fatal("blank access id should be rejected")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, _, ok := decode("no-separator"); ok {
		t.Fatal("expected malformed value to be rejected")
	}
	if _, _, ok := decode("not-a-uuid:token"); ok {
		t.Fatal("expected invalid uuid to be rejected")
	}
}
