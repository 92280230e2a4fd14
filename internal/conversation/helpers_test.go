package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"goodwish-chatbot/internal/model"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeTransport struct {
	mu        sync.Mutex
	data      map[string][]model.Turn
	saves     int
	deletes   int
	failSave  bool
	failLoad  bool
	failClear bool
	touches   map[string]time.Duration
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{data: make(map[string][]model.Turn)}
}

func (f *fakeTransport) Load(ctx context.Context, sessionID string) ([]model.Turn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLoad {
		return nil, errors.New("connection refused")
	}
	return append([]model.Turn(nil), f.data[sessionID]...), nil
}

func (f *fakeTransport) Save(ctx context.Context, sessionID string, turns []model.Turn, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("connection refused")
	}
	f.saves++
	f.data[sessionID] = append([]model.Turn(nil), turns...)
	return nil
}

func (f *fakeTransport) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touches == nil {
		f.touches = make(map[string]time.Duration)
	}
	f.touches[sessionID] = ttl
	return nil
}

func (f *fakeTransport) touched(sessionID string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ttl, ok := f.touches[sessionID]
	return ttl, ok
}

func (f *fakeTransport) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClear {
		return errors.New("connection refused")
	}
	f.deletes++
	delete(f.data, sessionID)
	return nil
}

func (f *fakeTransport) stored(sessionID string) ([]model.Turn, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.data[sessionID]
	return t, ok
}

func appendPair(t *testing.T, s *HistoryStore, sessionID, q, a string) {
	t.Helper()
	if err := s.AppendPair(context.Background(), sessionID, model.UserTurn(q, false), model.AssistantTurn(a)); err != nil {
		t.Fatalf("AppendPair(%q): %v", q, err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
