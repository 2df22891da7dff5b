package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
	"github.com/lawnchairsociety/dungeonbuilder/internal/export"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testLayout(t *testing.T, seed int64) *export.Layout {
	t.Helper()
	cfg := dungeon.DefaultConfig()
	cfg.MinWidth, cfg.MaxWidth = 25, 35
	cfg.MinHeight, cfg.MaxHeight = 20, 30
	d, err := dungeon.Generate(cfg, dungeon.NewRand(seed))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	return export.FromDungeon(d, seed)
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "archive.db")

	s, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM dungeons").Scan(&count); err != nil {
		t.Errorf("Failed to query dungeons table: %v", err)
	}
	if _, ok := s.Dialect().(*SQLiteDialect); !ok {
		t.Errorf("Dialect() = %T, want *SQLiteDialect", s.Dialect())
	}
}

func TestOpenRunsMigrationsTwice(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	for i := 0; i < 2; i++ {
		s, err := OpenSQLite(dbPath)
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestOpenInvalidConfig(t *testing.T) {
	tests := []Config{
		{Driver: "mysql"},
		{Driver: "sqlite"},
		{Driver: "postgres"},
	}
	for _, cfg := range tests {
		if _, err := Open(cfg); err == nil {
			t.Errorf("Open(%+v) succeeded, want error", cfg)
		}
	}
}

func TestSaveAndGetLayout(t *testing.T) {
	s := setupTestStore(t)
	l := testLayout(t, 1)

	id, err := s.SaveLayout(l)
	if err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveLayout id = %d, want positive", id)
	}

	got, err := s.GetLayout(id)
	if err != nil {
		t.Fatalf("GetLayout failed: %v", err)
	}
	if got.Fingerprint != l.Fingerprint || got.Seed != l.Seed {
		t.Errorf("GetLayout = seed %d fingerprint %s", got.Seed, got.Fingerprint)
	}
	for i := range l.Rows {
		if got.Rows[i] != l.Rows[i] {
			t.Fatalf("row %d = %q, want %q", i, got.Rows[i], l.Rows[i])
		}
	}
}

func TestSaveLayoutDuplicate(t *testing.T) {
	s := setupTestStore(t)
	l := testLayout(t, 2)

	first, err := s.SaveLayout(l)
	if err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}

	second, err := s.SaveLayout(l)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second SaveLayout error = %v, want ErrDuplicate", err)
	}
	if second != first {
		t.Errorf("duplicate id = %d, want existing %d", second, first)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestSaveLayoutRejectsTampered(t *testing.T) {
	s := setupTestStore(t)
	l := testLayout(t, 3)
	l.Fingerprint = "0000"

	if _, err := s.SaveLayout(l); !errors.Is(err, export.ErrFingerprintMismatch) {
		t.Errorf("SaveLayout error = %v, want ErrFingerprintMismatch", err)
	}
}

func TestSaveLayoutFillsFingerprint(t *testing.T) {
	s := setupTestStore(t)
	l := testLayout(t, 4)
	want := l.Fingerprint
	l.Fingerprint = ""

	id, err := s.SaveLayout(l)
	if err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}
	found, err := s.FindByFingerprint(want)
	if err != nil {
		t.Fatalf("FindByFingerprint failed: %v", err)
	}
	if found != id {
		t.Errorf("FindByFingerprint = %d, want %d", found, id)
	}
}

func TestFindByFingerprintNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.FindByFingerprint("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByFingerprint error = %v, want ErrNotFound", err)
	}
}

func TestGetLayoutNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetLayout(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLayout error = %v, want ErrNotFound", err)
	}
}

func TestListLayouts(t *testing.T) {
	s := setupTestStore(t)

	var ids []int64
	for seed := int64(10); seed < 13; seed++ {
		l := testLayout(t, seed)
		id, err := s.SaveLayout(l)
		if err != nil {
			t.Fatalf("SaveLayout(%d) failed: %v", seed, err)
		}
		ids = append(ids, id)
	}

	all, err := s.ListLayouts(0)
	if err != nil {
		t.Fatalf("ListLayouts failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListLayouts(0) returned %d, want 3", len(all))
	}
	if all[0].ID != ids[2] || all[0].Seed != 12 {
		t.Errorf("newest = %+v, want id %d seed 12", all[0], ids[2])
	}
	for _, sm := range all {
		if sm.FloorCells <= 0 || sm.Components <= 0 {
			t.Errorf("summary %d has no floor: %+v", sm.ID, sm)
		}
		if sm.CreatedAt.IsZero() {
			t.Errorf("summary %d has zero CreatedAt", sm.ID)
		}
	}

	limited, err := s.ListLayouts(2)
	if err != nil {
		t.Fatalf("ListLayouts(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListLayouts(2) returned %d", len(limited))
	}
}

func TestDeleteLayout(t *testing.T) {
	s := setupTestStore(t)
	id, err := s.SaveLayout(testLayout(t, 20))
	if err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}

	if err := s.DeleteLayout(id); err != nil {
		t.Fatalf("DeleteLayout failed: %v", err)
	}
	if _, err := s.GetLayout(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLayout after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteLayout(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteLayout error = %v, want ErrNotFound", err)
	}
}
