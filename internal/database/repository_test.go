package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Terence890/Nebula-Stream/models"
)

// setupTestDB creates a migrated sqlite database in a temp dir.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	db, err := NewDB(Config{DatabasePath: filepath.Join(tmpDir, "test.db")})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedAccount(t *testing.T, db *DB, id, email string) *models.Account {
	t.Helper()
	now := time.Now().UTC()
	account := &models.Account{
		ID:               id,
		Email:            email,
		PasswordHash:     "$2a$10$hashedpassword",
		SubscriptionPlan: models.DefaultSubscriptionPlan,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.Accounts.Create(account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func seedProfile(t *testing.T, db *DB, id, accountID string) *models.Profile {
	t.Helper()
	p := &models.Profile{ID: id, AccountID: accountID, Name: "Main", CreatedAt: time.Now().UTC()}
	if err := db.Profiles.Create(p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	seedAccount(t, db, "acc-1", "viewer@example.com")

	got, err := db.Accounts.GetByEmail("  VIEWER@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got == nil || got.ID != "acc-1" {
		t.Fatalf("expected acc-1, got %+v", got)
	}
	if got.SubscriptionPlan != "free" {
		t.Errorf("expected free plan, got %q", got.SubscriptionPlan)
	}

	missing, err := db.Accounts.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	seedAccount(t, db, "acc-1", "viewer@example.com")

	now := time.Now()
	err := db.Accounts.Create(&models.Account{ID: "acc-2", Email: "viewer@example.com", PasswordHash: "x", SubscriptionPlan: "free", CreatedAt: now, UpdatedAt: now})
	if err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	seedAccount(t, db, "acc-1", "viewer@example.com")

	now := time.Now().UTC()
	live := &models.Session{ID: "s-live", AccountID: "acc-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := &models.Session{ID: "s-stale", AccountID: "acc-1", CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []*models.Session{live, stale} {
		if err := db.Sessions.Create(s); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	removed, err := db.Sessions.DeleteExpired(now)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 expired session removed, got %d", removed)
	}

	got, err := db.Sessions.Get("s-live")
	if err != nil || got == nil {
		t.Fatalf("expected live session, got %v %v", got, err)
	}
	if got.AccountID != "acc-1" {
		t.Errorf("unexpected account id %q", got.AccountID)
	}

	if err := db.Sessions.Delete("s-live"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := db.Sessions.Get("s-live"); got != nil {
		t.Fatal("expected session to be gone")
	}
}

func TestProfileRepository_ListByAccount(t *testing.T) {
	db := setupTestDB(t)
	seedAccount(t, db, "acc-1", "a@example.com")
	seedAccount(t, db, "acc-2", "b@example.com")

	base := time.Now().UTC()
	for i, name := range []string{"Main", "Kids"} {
		p := &models.Profile{ID: name, AccountID: "acc-1", Name: name, IsKids: name == "Kids", CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := db.Profiles.Create(p); err != nil {
			t.Fatalf("create profile: %v", err)
		}
	}
	seedProfile(t, db, "other", "acc-2")

	profiles, err := db.Profiles.ListByAccount("acc-1")
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Name != "Main" || profiles[1].Name != "Kids" {
		t.Errorf("unexpected order: %q, %q", profiles[0].Name, profiles[1].Name)
	}
	if !profiles[1].IsKids {
		t.Error("expected kids flag to round-trip")
	}

	empty, err := db.Profiles.ListByAccount("acc-unknown")
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestWatchlistRepository_AddListRemove(t *testing.T) {
	db := setupTestDB(t)
	seedAccount(t, db, "acc-1", "a@example.com")
	seedProfile(t, db, "p-1", "acc-1")

	item := &models.WatchlistItem{ID: "w-1", ProfileID: "p-1", TMDBID: 550, MediaType: "movie", AddedAt: time.Now()}
	if err := db.Watchlist.Add(item); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	dup := &models.WatchlistItem{ID: "w-2", ProfileID: "p-1", TMDBID: 550, MediaType: "movie", AddedAt: time.Now()}
	if err := db.Watchlist.Add(dup); err != ErrConflict {
		t.Fatalf("expected ErrConflict for duplicate, got %v", err)
	}

	items, err := db.Watchlist.List("p-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].TMDBID != 550 {
		t.Fatalf("unexpected items: %+v", items)
	}

	removed, err := db.Watchlist.Remove("p-1", 550)
	if err != nil || !removed {
		t.Fatalf("expected removal, got %v %v", removed, err)
	}
	removed, err = db.Watchlist.Remove("p-1", 550)
	if err != nil || removed {
		t.Fatalf("expected second removal to report false, got %v %v", removed, err)
	}
}

func TestWatchHistoryRepository_UpsertKeepsOneRowPerTitle(t *testing.T) {
	db := setupTestDB(t)
	seedAccount(t, db, "acc-1", "a@example.com")
	seedProfile(t, db, "p-1", "acc-1")

	base := time.Now().UTC()
	entries := []models.WatchHistoryItem{
		{ID: "h-1", ProfileID: "p-1", TMDBID: 1, MediaType: "movie", Position: 10, Duration: 100, LastWatched: base},
		{ID: "h-2", ProfileID: "p-1", TMDBID: 2, MediaType: "tv", Position: 5, Duration: 50, LastWatched: base.Add(time.Minute)},
		{ID: "h-3", ProfileID: "p-1", TMDBID: 1, MediaType: "movie", Position: 60, Duration: 100, LastWatched: base.Add(2 * time.Minute)},
	}
	for i := range entries {
		if err := db.WatchHistory.Upsert(&entries[i]); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	items, err := db.WatchHistory.List("p-1", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
	if items[0].TMDBID != 1 || items[0].Position != 60 {
		t.Errorf("expected most recent title 1 at position 60, got %+v", items[0])
	}
	if items[0].ID != "h-1" {
		t.Errorf("expected upsert to keep original row id, got %q", items[0].ID)
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	if got := pg.Rebind("SELECT * FROM t WHERE a = ? AND b = ?"); got != "SELECT * FROM t WHERE a = $1 AND b = $2" {
		t.Fatalf("unexpected rebind: %s", got)
	}
	lite := &DB{driver: DriverSQLite}
	if got := lite.Rebind("a = ?"); got != "a = ?" {
		t.Fatalf("sqlite query should be unchanged, got %s", got)
	}
}
