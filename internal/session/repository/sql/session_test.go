package sql

import (
	"context"
	"fmt"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/log"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T, now time.Time) (*implRepository, *gorm.DB) {
	db := openTestDB(t)
	repo := New(db, log.NewNop()).(*implRepository)
	repo.now = func() time.Time { return now }
	return repo, db
}

func TestSQLRepository_SaveLoadOverwriteDelete(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo, _ := newTestRepo(t, now)
	ctx := context.Background()

	first := []model.Turn{model.UserTurn("hello", false), model.AssistantTurn("Hello!")}
	if err := repo.Save(ctx, "s1", first, 30*time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := append(first, model.UserTurn("price?", false), model.AssistantTurn("Contact sales."))
	if err := repo.Save(ctx, "s1", second, 30*time.Minute); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	got, err := repo.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 4 || got[2].Content != "price?" {
		t.Errorf("expected overwritten history, got %+v", got)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "unknown"); err != nil {
		t.Errorf("deleting unknown session should be a no-op, got %v", err)
	}
	got, err = repo.Load(ctx, "s1")
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty history after delete, got %v, %v", got, err)
	}
}

func TestSQLRepository_ExpiredRowsAreInvisible(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo, db := newTestRepo(t, now)
	ctx := context.Background()

	if err := repo.Save(ctx, "s1", []model.Turn{model.UserTurn("q", false), model.AssistantTurn("a")}, 30*time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	repo.now = func() time.Time { return now.Add(31 * time.Minute) }
	got, err := repo.Load(ctx, "s1")
	if err != nil || len(got) != 0 {
		t.Errorf("expected expired session to load empty, got %v, %v", got, err)
	}

	n, err := DeleteExpired(ctx, db, now.Add(31*time.Minute))
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired row removed, got %d", n)
	}
}

func TestSQLRepository_CorruptPayloadLoadsEmpty(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo, db := newTestRepo(t, now)

	row := Session{SessionKey: "s1", SessionData: "{broken", ExpireDate: now.Add(time.Hour)}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.Load(context.Background(), "s1")
	if err != nil || len(got) != 0 {
		t.Errorf("expected corrupt payload to load empty, got %v, %v", got, err)
	}
}

func TestSQLRepository_TouchExtendsExpiry(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo, db := newTestRepo(t, start)
	ctx := context.Background()

	if err := repo.Save(ctx, "s1", []model.Turn{model.UserTurn("q", false), model.AssistantTurn("a")}, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	repo.now = func() time.Time { return start.Add(50 * time.Second) }
	if err := repo.Touch(ctx, "s1", time.Minute); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	repo.now = func() time.Time { return start.Add(100 * time.Second) }
	got, err := repo.Load(ctx, "s1")
	if err != nil || len(got) != 2 {
		t.Errorf("expected touched session to survive, got %v, %v", got, err)
	}

	if err := repo.Touch(ctx, "missing", time.Minute); err != nil {
		t.Errorf("Touch of unknown session: %v", err)
	}
	var count int64
	db.Model(&Session{}).Count(&count)
	if count != 1 {
		t.Errorf("Touch must not create rows, got %d", count)
	}
}
