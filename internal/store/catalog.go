package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Typed helpers over the catalog schema. These are the lookups the
// orchestrator and the export builders need; bulk writes go through
// Push.

func (s *Store) HasArtist(artistID string) (bool, error) {
	return s.exists("SELECT artist_id FROM artists WHERE artist_id = ?", artistID)
}

func (s *Store) HasAlbum(albumID string) (bool, error) {
	return s.exists("SELECT album_id FROM albums WHERE album_id = ?", albumID)
}

func (s *Store) exists(query string, args ...any) (bool, error) {
	var id string
	err := s.db.QueryRow(query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}
	return true, nil
}

func (s *Store) ArtistIDs() ([]string, error) {
	return s.stringColumn("SELECT artist_id FROM artists")
}

// ArtistIDsWithSavedAlbums lists the artists that have at least one
// album of a tracked type, the population the summary job covers.
func (s *Store) ArtistIDsWithSavedAlbums() ([]string, error) {
	return s.stringColumn("SELECT artist_id FROM artists WHERE saved_albums > 0")
}

func (s *Store) stringColumn(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) ArtistName(artistID string) (string, error) {
	var name string
	err := s.db.QueryRow("SELECT artist_name FROM artists WHERE artist_id = ?", artistID).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("getting artist name for %q: %w", artistID, err)
	}
	return name, nil
}

func (s *Store) AlbumName(albumID string) (string, error) {
	var name string
	err := s.db.QueryRow("SELECT album_name FROM albums WHERE album_id = ?", albumID).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("getting album name for %q: %w", albumID, err)
	}
	return name, nil
}

// TotalAlbums returns the provider-reported album total stored with
// the artist row, used to gate the differential album update.
func (s *Store) TotalAlbums(artistID string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT total_albums FROM artists WHERE artist_id = ?", artistID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("getting total_albums for %q: %w", artistID, err)
	}
	return n, nil
}

func (s *Store) ArtistLastUpdated(artistID string) (time.Time, error) {
	var t sql.NullTime
	err := s.db.QueryRow("SELECT last_updated FROM artists WHERE artist_id = ?", artistID).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last_updated for %q: %w", artistID, err)
	}
	return t.Time, nil
}

// CatalogTables lists the six catalog tables in write order.
var CatalogTables = []string{"artists", "albums", "tracks", "genres", "related", "listeners"}

// DeleteArtist removes every row for an artist across the catalog, in
// one committed batch.
func (s *Store) DeleteArtist(artistID string) error {
	stmts := make([]Statement, 0, len(CatalogTables))
	for _, table := range CatalogTables {
		stmts = append(stmts, Statement{
			SQL:  fmt.Sprintf("DELETE FROM %s WHERE artist_id = ?", table),
			Args: []any{artistID},
		})
	}
	return s.Push(stmts, false)
}

// Count returns the number of rows in a table.
func (s *Store) Count(table string) (int, error) {
	var n int
	err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// RepresentedArtists counts the distinct artists that own at least one
// track row.
func (s *Store) RepresentedArtists() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(DISTINCT artist_id) FROM tracks").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting represented artists: %w", err)
	}
	return n, nil
}
