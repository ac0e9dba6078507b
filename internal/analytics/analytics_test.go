package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lmdiaz/escena/internal/migration"
	"github.com/lmdiaz/escena/internal/store"
)

func createStores(t *testing.T) (*store.Store, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	catalog, err := store.Open(filepath.Join(dir, "catalog.db"), migration.Catalog)
	if err != nil {
		t.Fatalf("opening catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })

	derived, err := store.Open(filepath.Join(dir, "analytics.db"), migration.Analytics())
	if err != nil {
		t.Fatalf("opening analytics store: %v", err)
	}
	t.Cleanup(func() { derived.Close() })
	return catalog, derived
}

// insertTrack writes one track row. A nil tempo stands for a track
// without an analysis record, which leaves every feature column null.
func insertTrack(t *testing.T, s *store.Store, artistID, albumID, trackID string, key, mode, tempo any) {
	t.Helper()
	sql := `INSERT INTO tracks (artist_id, album_id, track_id, key, mode, tempo,
		loudness, duration_ms, danceability, energy, valence, speechiness,
		acousticness, instrumentalness, liveness, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, -6.0, 200000, 0.5, 0.6, 0.4, 0.1, 0.2, 0.0, 0.15, ?)`
	if tempo == nil {
		sql = `INSERT INTO tracks (artist_id, album_id, track_id, key, mode, tempo, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	}
	err := s.Push([]store.Statement{{
		SQL:  sql,
		Args: []any{artistID, albumID, trackID, key, mode, tempo, time.Now()},
	}}, false)
	if err != nil {
		t.Fatalf("inserting track %s: %v", trackID, err)
	}
}

func insertArtist(t *testing.T, s *store.Store, artistID string, savedAlbums int) {
	t.Helper()
	err := s.Push([]store.Statement{{
		SQL:  "INSERT INTO artists (artist_id, artist_name, saved_albums, last_updated) VALUES (?, ?, ?, ?)",
		Args: []any{artistID, artistID, savedAlbums, time.Now()},
	}}, false)
	if err != nil {
		t.Fatalf("inserting artist %s: %v", artistID, err)
	}
}

func floatCell(t *testing.T, s *store.Store, query string, args ...any) float64 {
	t.Helper()
	f, err := s.ToFrame(query, args...)
	if err != nil {
		t.Fatalf("querying %q: %v", query, err)
	}
	if f.Len() != 1 {
		t.Fatalf("Expected 1 row from %q, got %d", query, f.Len())
	}
	vals, err := f.Float(f.Columns()[0])
	if err != nil {
		t.Fatalf("reading cell: %v", err)
	}
	return vals[0]
}

func TestCreateEntrySummarizesArtistAndAlbums(t *testing.T) {
	catalog, derived := createStores(t)
	insertTrack(t, catalog, "ar1", "al1", "tr1", 2, 1, 120)
	insertTrack(t, catalog, "ar1", "al1", "tr2", 2, 1, 100)
	insertTrack(t, catalog, "ar1", "al2", "tr3", 0, 0, 80)
	// No feature record; must not contribute.
	insertTrack(t, catalog, "ar1", "al2", "tr4", nil, nil, nil)

	s := New(catalog, derived)
	if err := s.CreateEntry("ar1"); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if got := floatCell(t, derived, "SELECT key_count_d_mayor FROM artist_summary WHERE artist_id = ?", "ar1"); got != 2 {
		t.Errorf("key_count_d_mayor = %v, want 2", got)
	}
	if got := floatCell(t, derived, "SELECT key_count_c_minor FROM artist_summary WHERE artist_id = ?", "ar1"); got != 1 {
		t.Errorf("key_count_c_minor = %v, want 1", got)
	}
	if got := floatCell(t, derived, "SELECT tempo_count FROM artist_summary WHERE artist_id = ?", "ar1"); got != 3 {
		t.Errorf("tempo_count = %v, want 3", got)
	}
	if got := floatCell(t, derived, "SELECT tempo_mean FROM artist_summary WHERE artist_id = ?", "ar1"); got != 100 {
		t.Errorf("tempo_mean = %v, want 100", got)
	}

	albums, err := derived.Count("album_summary")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if albums != 2 {
		t.Errorf("Expected 2 album summaries, got %d", albums)
	}
	if got := floatCell(t, derived, "SELECT tempo_median FROM album_summary WHERE album_id = ?", "al1"); got != 110 {
		t.Errorf("album tempo_median = %v, want 110", got)
	}
}

func TestCreateEntrySkipsFeaturelessArtist(t *testing.T) {
	catalog, derived := createStores(t)
	insertTrack(t, catalog, "ar1", "al1", "tr1", nil, nil, nil)

	s := New(catalog, derived)
	if err := s.CreateEntry("ar1"); err != nil {
		t.Fatalf("CreateEntry should skip, not fail: %v", err)
	}
	n, err := derived.Count("artist_summary")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no summary rows, got %d", n)
	}
}

func TestBatchCreateHonorsSavedAlbumsAndExisting(t *testing.T) {
	catalog, derived := createStores(t)
	insertArtist(t, catalog, "ar1", 1)
	insertArtist(t, catalog, "ar2", 0) // never saved, never summarized
	insertTrack(t, catalog, "ar1", "al1", "tr1", 2, 1, 120)
	insertTrack(t, catalog, "ar2", "al2", "tr2", 0, 1, 90)

	s := New(catalog, derived)
	if err := s.BatchCreate(); err != nil {
		t.Fatalf("BatchCreate: %v", err)
	}
	n, _ := derived.Count("artist_summary")
	if n != 1 {
		t.Fatalf("Expected 1 artist summary, got %d", n)
	}

	// A second run must not duplicate rows.
	if err := s.BatchCreate(); err != nil {
		t.Fatalf("BatchCreate (repeat): %v", err)
	}
	n, _ = derived.Count("artist_summary")
	if n != 1 {
		t.Errorf("Expected 1 artist summary after repeat, got %d", n)
	}
}

func TestProjectTracksReplacesPointsAppendsMetadata(t *testing.T) {
	catalog, derived := createStores(t)
	insertTrack(t, catalog, "ar1", "al1", "tr1", 2, 1, 120)
	insertTrack(t, catalog, "ar1", "al1", "tr2", 4, 1, 100)
	insertTrack(t, catalog, "ar1", "al2", "tr3", 0, 0, 80)
	// Absent analysis leaves the metric columns null; the projection
	// must drop the row.
	insertTrack(t, catalog, "ar1", "al2", "tr4", nil, nil, nil)

	s := New(catalog, derived)
	if err := s.ProjectTracks(); err != nil {
		t.Fatalf("ProjectTracks: %v", err)
	}
	if err := s.ProjectTracks(); err != nil {
		t.Fatalf("ProjectTracks (repeat): %v", err)
	}

	points, _ := derived.Count("track_projection")
	if points != 3 {
		t.Errorf("Expected 3 projected tracks, got %d", points)
	}
	runs, _ := derived.Count("projection_metadata")
	if runs != 2 {
		t.Errorf("Expected 2 metadata rows, got %d", runs)
	}
}
