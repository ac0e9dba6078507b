package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lmdiaz/escena/internal/migration"
)

func createCatalog(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	s, err := Open(dbPath, migration.Catalog)
	if err != nil {
		t.Fatalf("Open(%s) error: %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func insertArtist(t *testing.T, s *Store, artistID, name string) {
	t.Helper()
	err := s.Push([]Statement{{
		SQL:  "INSERT INTO artists (artist_id, artist_name, saved_albums, total_albums, last_updated) VALUES (?, ?, ?, ?, ?)",
		Args: []any{artistID, name, 1, 1, time.Now()},
	}}, false)
	if err != nil {
		t.Fatalf("inserting artist %q: %v", artistID, err)
	}
}

func TestPushCommitsBatch(t *testing.T) {
	s := createCatalog(t)

	insertArtist(t, s, "ar1", "first")
	insertArtist(t, s, "ar2", "second")

	n, err := s.Count("artists")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 artists, got %d", n)
	}
}

func TestPushConstraintAborts(t *testing.T) {
	s := createCatalog(t)
	insertArtist(t, s, "ar1", "first")

	err := s.Push([]Statement{
		{SQL: "INSERT INTO genres (artist_id, genre, last_updated) VALUES (?, ?, ?)", Args: []any{"ar1", "tango", time.Now()}},
		{SQL: "INSERT INTO artists (artist_id) VALUES (?)", Args: []any{"ar1"}}, // duplicate key
	}, false)
	if err == nil {
		t.Fatal("Push with duplicate key should error without bypass")
	}
	if !IsConstraint(err) {
		t.Errorf("expected constraint error, got: %v", err)
	}

	// The whole batch must have rolled back, including the genre row.
	n, err := s.Count("genres")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected rollback to drop genre row, found %d rows", n)
	}
}

func TestPushConstraintBypassed(t *testing.T) {
	s := createCatalog(t)
	insertArtist(t, s, "ar1", "first")

	err := s.Push([]Statement{
		{SQL: "INSERT INTO artists (artist_id) VALUES (?)", Args: []any{"ar1"}},
		{SQL: "INSERT INTO genres (artist_id, genre, last_updated) VALUES (?, ?, ?)", Args: []any{"ar1", "tango", time.Now()}},
	}, true)
	if err != nil {
		t.Fatalf("Push with bypass: %v", err)
	}

	n, err := s.Count("genres")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected genre row past the bypassed statement, found %d rows", n)
	}
}

func TestDeleteArtistCascades(t *testing.T) {
	s := createCatalog(t)
	now := time.Now()

	insertArtist(t, s, "ar1", "first")
	err := s.Push([]Statement{
		{SQL: "INSERT INTO albums (artist_id, album_id, last_updated) VALUES (?, ?, ?)", Args: []any{"ar1", "al1", now}},
		{SQL: "INSERT INTO tracks (artist_id, album_id, track_id, last_updated) VALUES (?, ?, ?, ?)", Args: []any{"ar1", "al1", "tr1", now}},
		{SQL: "INSERT INTO genres (artist_id, genre, last_updated) VALUES (?, ?, ?)", Args: []any{"ar1", "tango", now}},
		{SQL: "INSERT INTO related (artist_id, other_artist_id, relationship, last_updated) VALUES (?, ?, ?, ?)", Args: []any{"ar1", "ar9", "related", now}},
		{SQL: "INSERT INTO listeners (artist_id, city, country, listeners, last_updated) VALUES (?, ?, ?, ?, ?)", Args: []any{"ar1", "Rosario", "Argentina", 1000, now}},
	}, false)
	if err != nil {
		t.Fatalf("seeding rows: %v", err)
	}

	if err := s.DeleteArtist("ar1"); err != nil {
		t.Fatalf("DeleteArtist: %v", err)
	}

	for _, table := range CatalogTables {
		n, err := s.Count(table)
		if err != nil {
			t.Fatalf("Count(%s): %v", table, err)
		}
		if n != 0 {
			t.Errorf("Expected %s empty after cascade, found %d rows", table, n)
		}
	}
}

func TestToFrameAndGroupBy(t *testing.T) {
	s := createCatalog(t)
	now := time.Now()

	seed := []Statement{
		{SQL: "INSERT INTO tracks (artist_id, album_id, track_id, tempo, energy, last_updated) VALUES (?, ?, ?, ?, ?, ?)", Args: []any{"ar1", "al1", "tr1", 120.0, 0.5, now}},
		{SQL: "INSERT INTO tracks (artist_id, album_id, track_id, tempo, energy, last_updated) VALUES (?, ?, ?, ?, ?, ?)", Args: []any{"ar1", "al1", "tr2", 90.0, nil, now}},
		{SQL: "INSERT INTO tracks (artist_id, album_id, track_id, tempo, energy, last_updated) VALUES (?, ?, ?, ?, ?, ?)", Args: []any{"ar1", "al2", "tr3", 100.0, 0.9, now}},
	}
	if err := s.Push(seed, false); err != nil {
		t.Fatalf("seeding tracks: %v", err)
	}

	f, err := s.ToFrame("SELECT album_id, tempo, energy FROM tracks")
	if err != nil {
		t.Fatalf("ToFrame: %v", err)
	}
	if f.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", f.Len())
	}

	clean, err := f.DropNull()
	if err != nil {
		t.Fatalf("DropNull: %v", err)
	}
	if clean.Len() != 2 {
		t.Errorf("Expected 2 rows after DropNull, got %d", clean.Len())
	}

	groups, err := clean.GroupBy("album_id")
	if err != nil {
		t.Fatalf("GroupBy: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected 2 album groups, got %d", len(groups))
	}

	tempos, err := groups[0].Frame.Float("tempo")
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if len(tempos) != 1 || tempos[0] != 120.0 {
		t.Errorf("Expected [120], got %v", tempos)
	}
}

func TestBulkAppendModes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analytics.db")
	s, err := Open(dbPath, migration.Analytics())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	f, err := NewFrame(
		[]string{"artist_id", "album_id", "track_id", "gpc_x", "gpc_y", "last_updated"},
		[][]any{{"ar1", "al1", "tr1", 0.12, -1.4, time.Now()}},
	)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	if err := s.BulkAppend("track_projection", f, ModeFail); err != nil {
		t.Fatalf("BulkAppend(ModeFail) on empty table: %v", err)
	}
	if err := s.BulkAppend("track_projection", f, ModeFail); err == nil {
		t.Error("BulkAppend(ModeFail) on populated table should error")
	}

	if err := s.BulkAppend("track_projection", f, ModeReplace); err != nil {
		t.Fatalf("BulkAppend(ModeReplace): %v", err)
	}
	n, err := s.Count("track_projection")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 row after replace, got %d", n)
	}
}
