package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/log"
)

func newTestRepo(t *testing.T) (*implRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "", log.NewNop()).(*implRepository), mr
}

func TestRedisRepository_SaveLoadDelete(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	turns := []model.Turn{model.UserTurn("hello", false), model.AssistantTurn("Hello!")}
	if err := repo.Save(ctx, "s1", turns, 30*time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if ttl := mr.TTL(defaultKeyPrefix + "s1"); ttl != 30*time.Minute {
		t.Errorf("expected 30m ttl, got %v", ttl)
	}

	got, err := repo.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != turns[0] || got[1] != turns[1] {
		t.Errorf("unexpected turns: %+v", got)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}

	got, err = repo.Load(ctx, "s1")
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty history after delete, got %v, %v", got, err)
	}
}

func TestRedisRepository_ExpiredKeyIsEmpty(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "s1", []model.Turn{model.UserTurn("q", false), model.AssistantTurn("a")}, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	got, err := repo.Load(ctx, "s1")
	if err != nil || len(got) != 0 {
		t.Errorf("expected expired session to load empty, got %v, %v", got, err)
	}
}

func TestRedisRepository_CorruptPayloadLoadsEmpty(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Set(defaultKeyPrefix+"s1", "not-json")

	got, err := repo.Load(context.Background(), "s1")
	if err != nil || len(got) != 0 {
		t.Errorf("expected corrupt payload to load empty, got %v, %v", got, err)
	}
}

func TestRedisRepository_Unavailable(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	if _, err := repo.Load(context.Background(), "s1"); err == nil {
		t.Errorf("expected error when redis is down")
	}
	if err := repo.Save(context.Background(), "s1", nil, time.Minute); err == nil {
		t.Errorf("expected error when redis is down")
	}
}

func TestRedisRepository_EmptySessionID(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Load(context.Background(), ""); err == nil {
		t.Errorf("expected error for empty session id")
	}
}

func TestRedisRepository_TouchExtendsTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "s1", []model.Turn{model.UserTurn("q", false), model.AssistantTurn("a")}, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(50 * time.Second)
	if err := repo.Touch(ctx, "s1", time.Minute); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	mr.FastForward(50 * time.Second)

	got, err := repo.Load(ctx, "s1")
	if err != nil || len(got) != 2 {
		t.Errorf("expected touched session to survive, got %v, %v", got, err)
	}

	if err := repo.Touch(ctx, "missing", time.Minute); err != nil {
		t.Errorf("Touch of unknown session: %v", err)
	}
	if mr.Exists(defaultKeyPrefix + "missing") {
		t.Errorf("Touch must not create a key")
	}
}
