// Package spotify is the client for the metadata and audio-feature
// provider. Payload types mirror the provider's nesting; optional
// nested records are pointers so absence survives the dump round-trip.
package spotify

type Image struct {
	URL string `json:"url"`
}

type Followers struct {
	Total int `json:"total"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Popularity   int          `json:"popularity"`
	Followers    Followers    `json:"followers"`
	Images       []Image      `json:"images"`
	Genres       []string     `json:"genres"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// ArtistRef is the short artist object embedded in album and track
// payloads.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Features is one track's audio analysis. Any track may lack it
// entirely; a missing record is a nil *Features, never a zero value.
type Features struct {
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
	TimeSignature    int     `json:"time_signature"`
	Tempo            float64 `json:"tempo"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
}

type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DiscNumber   int          `json:"disc_number"`
	TrackNumber  int          `json:"track_number"`
	Explicit     bool         `json:"explicit"`
	DurationMS   int          `json:"duration_ms"`
	Artists      []ArtistRef  `json:"artists"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Features     *Features    `json:"features,omitempty"`
}

type TrackPage struct {
	Items []Track `json:"items"`
	Total int     `json:"total"`
}

type Album struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	AlbumGroup           string       `json:"album_group"`
	AlbumType            string       `json:"album_type"`
	ReleaseDate          string       `json:"release_date"`
	ReleaseDatePrecision string       `json:"release_date_precision"`
	TotalTracks          int          `json:"total_tracks"`
	Images               []Image      `json:"images"`
	Artists              []ArtistRef  `json:"artists"`
	ExternalURLs         ExternalURLs `json:"external_urls"`
	Tracks               *TrackPage   `json:"tracks,omitempty"`
}

type AlbumPage struct {
	Items []Album `json:"items"`
	Total int     `json:"total"`
}

type RelatedArtists struct {
	Artists []ArtistRef `json:"artists"`
}

// Listener is one row of the artist's top listener cities.
type Listener struct {
	City      string `json:"city"`
	Country   string `json:"country"`
	Listeners int    `json:"listeners"`
}

// ArtistData is everything one ingestion run needs for an artist. It
// is also the failure-dump payload, so it carries the entity id.
type ArtistData struct {
	ArtistID  string         `json:"artist_id"`
	Artist    Artist         `json:"artist"`
	Bio       string         `json:"bio"`
	Listeners []Listener     `json:"listeners"`
	Albums    AlbumPage      `json:"albums"`
	Related   RelatedArtists `json:"related"`
}
