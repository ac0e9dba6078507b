package store

// Helpers over the analytics schema. Summary rows are append-only per
// id; the caller checks these before regenerating.

func (s *Store) HasArtistSummary(artistID string) (bool, error) {
	return s.exists("SELECT artist_id FROM artist_summary WHERE artist_id = ?", artistID)
}

func (s *Store) HasAlbumSummary(albumID string) (bool, error) {
	return s.exists("SELECT album_id FROM album_summary WHERE album_id = ?", albumID)
}
