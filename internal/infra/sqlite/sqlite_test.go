package sqlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/recircle-app/recircle/internal/domain"
	"github.com/recircle-app/recircle/internal/infra/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func account(email, username string) domain.Account {
	return domain.Account{
		Email:     email,
		Username:  username,
		Role:      "customer",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Accounts
// ═══════════════════════════════════════════════════════════════════════════

func TestCreateAndGetAccount(t *testing.T) {
	db := testDB(t)

	if err := db.CreateUser(account("ana@example.com", "ana"), "hash-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := db.GetAccount("ana@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Username != "ana" || a.Role != "customer" {
		t.Errorf("account = %+v", a)
	}

	hash, err := db.PasswordHash("ana@example.com")
	if err != nil || hash != "hash-1" {
		t.Errorf("hash = %q err = %v", hash, err)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	db := testDB(t)
	if err := db.CreateUser(account("ana@example.com", "ana"), "h"); err != nil {
		t.Fatal(err)
	}
	err := db.CreateUser(account("ana@example.com", "other"), "h")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestGetAccountMissing(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetAccount("ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := db.PasswordHash("ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Store
// ═══════════════════════════════════════════════════════════════════════════

func TestProgressRoundTrip(t *testing.T) {
	db := testDB(t)
	if err := db.CreateUser(account("ana@example.com", "ana"), "h"); err != nil {
		t.Fatal(err)
	}

	p := domain.UserProgress{
		XP:                  145,
		Level:               1,
		LoginStreak:         3,
		LongestStreak:       5,
		LastLoginDate:       1700000000000,
		TotalReports:        2,
		TotalVisits:         4,
		TotalRecyclingTypes: map[string]int{"glass": 2, "plastic": 1},
		ActivityLog: []domain.ActivityRecord{
			{Kind: domain.KindLogin, XPGained: 10, Timestamp: 1700000000000, Details: "Login streak: 3 days"},
		},
		WeeklyActivity: []int{0, 10, 0, 0, 0, 0, 0},
		MonthlyXP:      make([]int, 12),
	}
	if err := db.PutProgress("ana@example.com", p); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := db.GetProgress("ana@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.XP != 145 || got.LoginStreak != 3 || got.LastLoginDate != 1700000000000 {
		t.Errorf("scalars = %+v", got)
	}
	if got.TotalRecyclingTypes["glass"] != 2 {
		t.Errorf("materials = %+v", got.TotalRecyclingTypes)
	}
	if len(got.ActivityLog) != 1 || got.ActivityLog[0].Kind != domain.KindLogin {
		t.Errorf("log = %+v", got.ActivityLog)
	}
}

func TestPutProgressUnknownUser(t *testing.T) {
	db := testDB(t)
	err := db.PutProgress("ghost@example.com", domain.UserProgress{XP: 10})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestScanProgressStableOrder(t *testing.T) {
	db := testDB(t)
	for _, email := range []string{"carol@example.com", "ana@example.com", "bob@example.com"} {
		if err := db.CreateUser(account(email, email[:3]), "h"); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := db.ScanProgress()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	want := []string{"ana@example.com", "bob@example.com", "carol@example.com"}
	for i, e := range entries {
		if e.Email != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, e.Email, want[i])
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Report Store
// ═══════════════════════════════════════════════════════════════════════════

func TestReportLifecycle(t *testing.T) {
	db := testDB(t)

	id, err := db.AppendReport(domain.Report{
		LocationID:   "loc-1",
		LocationName: "EcoPoint Nord",
		Message:      "Container full",
		UserEmail:    "ana@example.com",
		UserName:     "ana",
		Timestamp:    1700000000000,
		Latitude:     59.43,
		Longitude:    24.75,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatal("empty report id")
	}

	all, err := db.ListReports()
	if err != nil || len(all) != 1 {
		t.Fatalf("list = %d err = %v", len(all), err)
	}
	if all[0].ID != id || all[0].Message != "Container full" || all[0].Latitude != 59.43 {
		t.Errorf("report = %+v", all[0])
	}

	byUser, err := db.ListReportsByUser("ana@example.com")
	if err != nil || len(byUser) != 1 {
		t.Fatalf("by user = %d err = %v", len(byUser), err)
	}
	if other, _ := db.ListReportsByUser("bob@example.com"); len(other) != 0 {
		t.Errorf("bob's reports = %d, want 0", len(other))
	}

	if err := db.RemoveReport(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := db.RemoveReport(id); !errors.Is(err, domain.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestListReportsOldestFirst(t *testing.T) {
	db := testDB(t)
	for i, ts := range []int64{3000, 1000, 2000} {
		_, err := db.AppendReport(domain.Report{
			LocationName: "EcoPoint",
			Message:      "note",
			UserEmail:    "ana@example.com",
			UserName:     "ana",
			Timestamp:    ts,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	all, err := db.ListReports()
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp < all[i-1].Timestamp {
			t.Fatalf("reports out of order: %v", all)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Location Store
// ═══════════════════════════════════════════════════════════════════════════

func TestLocationUpsert(t *testing.T) {
	db := testDB(t)

	id, err := db.AddLocation(domain.Location{Name: "EcoPoint Nord", Latitude: 59.43})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Same ID again updates in place
	if _, err := db.AddLocation(domain.Location{ID: id, Name: "EcoPoint Nord (renamed)"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	loc, err := db.GetLocation(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loc.Name != "EcoPoint Nord (renamed)" {
		t.Errorf("name = %q", loc.Name)
	}

	all, err := db.ListLocations()
	if err != nil || len(all) != 1 {
		t.Fatalf("list = %d err = %v", len(all), err)
	}

	if _, err := db.GetLocation("missing"); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Persistence
// ═══════════════════════════════════════════════════════════════════════════

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()

	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.CreateUser(account("ana@example.com", "ana"), "h"); err != nil {
		t.Fatal(err)
	}
	if err := db.PutProgress("ana@example.com", domain.UserProgress{XP: 77}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := sqlite.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()

	p, err := db2.GetProgress("ana@example.com")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if p.XP != 77 {
		t.Errorf("xp = %d, want 77", p.XP)
	}
}
