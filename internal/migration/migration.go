// Package migration holds the DDL for the two stores. The catalog
// schema mirrors the provider's nesting flattened to foreign-key
// joins; the analytics schema is wholly derived and disposable.
package migration

import (
	"fmt"
	"strings"
)

// Catalog is the schema for the raw catalog store.
const Catalog = `
CREATE TABLE IF NOT EXISTS artists (
  artist_id TEXT PRIMARY KEY,
  artist_name TEXT,
  bio TEXT,
  popularity INTEGER,
  followers INTEGER,
  saved_albums INTEGER,
  total_albums INTEGER,
  spotify_url TEXT,
  img_640 TEXT,
  img_320 TEXT,
  img_60 TEXT,
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS albums (
  artist_id TEXT,
  album_id TEXT PRIMARY KEY,
  album_name TEXT,
  album_group TEXT,
  album_type TEXT,
  release_date TEXT,
  release_date_precision TEXT,
  total_tracks INTEGER,
  spotify_url TEXT,
  img_640 TEXT,
  img_320 TEXT,
  img_60 TEXT,
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS tracks (
  artist_id TEXT,
  album_id TEXT,
  track_id TEXT PRIMARY KEY,
  track_name TEXT,
  disc_number INTEGER,
  track_number INTEGER,
  explicit INTEGER,
  duration_ms REAL,
  key INTEGER,
  mode INTEGER,
  time_signature INTEGER,
  tempo REAL,
  danceability REAL,
  energy REAL,
  valence REAL,
  loudness REAL,
  speechiness REAL,
  acousticness REAL,
  instrumentalness REAL,
  liveness REAL,
  spotify_url TEXT,
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS genres (
  artist_id TEXT,
  genre TEXT,
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS related (
  artist_id TEXT,
  other_artist_id TEXT,
  relationship TEXT,
  last_updated DATETIME,
  PRIMARY KEY (artist_id, other_artist_id, relationship)
);

CREATE TABLE IF NOT EXISTS listeners (
  artist_id TEXT,
  city TEXT,
  country TEXT,
  listeners INTEGER,
  last_updated DATETIME
);
`

// Ordered vocabulary for the analytics schema. Summary rows carry the
// key/mode crosstab first, then an eight-statistic block per metric in
// Measures + Features order.
var (
	Measures = []string{"loudness", "duration_ms", "tempo"}
	Features = []string{"danceability", "energy", "valence", "speechiness", "acousticness", "instrumentalness", "liveness"}
	Tonality = []string{"c", "db", "d", "eb", "e", "f", "gb", "g", "ab", "a", "bb", "b"}
	Modes    = []string{"minor", "mayor"}

	summaryStats = []string{"count", "mean", "std", "min", "1q", "median", "3q", "max"}
)

// TonalityLabels are the display names for the twelve tonal keys, in
// chromatic order matching the provider's key encoding (0 = C).
var TonalityLabels = []string{"C", "C#Db", "D", "D#Eb", "E", "F", "F#Gb", "G", "G#Ab", "A", "A#Bb", "B"}

// SummaryColumns returns the ordered derived-column names of a summary
// row, between the id column(s) and last_updated.
func SummaryColumns() []string {
	var cols []string
	for _, mode := range Modes {
		for _, key := range Tonality {
			cols = append(cols, fmt.Sprintf("key_count_%s_%s", key, mode))
		}
	}
	for _, metric := range append(append([]string{}, Measures...), Features...) {
		name := metric
		if name == "duration_ms" {
			name = "duration"
		}
		for _, stat := range summaryStats {
			cols = append(cols, fmt.Sprintf("%s_%s", name, stat))
		}
	}
	return cols
}

// Analytics returns the schema for the derived store.
func Analytics() string {
	derived := func() string {
		var b strings.Builder
		for _, col := range SummaryColumns() {
			fmt.Fprintf(&b, "  \"%s\" REAL,\n", col)
		}
		return b.String()
	}()

	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS artist_summary (
  artist_id TEXT,
%s  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS album_summary (
  artist_id TEXT,
  album_id TEXT,
%s  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS track_projection (
  artist_id TEXT,
  album_id TEXT,
  track_id TEXT,
  gpc_x REAL,
  gpc_y REAL,
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS projection_metadata (
  var_x REAL,
  var_y REAL,
  last_updated DATETIME
);
`, derived, derived)
}
