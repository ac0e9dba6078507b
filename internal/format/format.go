// Package format turns nested provider payloads into flat rows
// matching the catalog's column layouts.
package format

import (
	"errors"
	"strings"
	"time"

	"github.com/lmdiaz/escena/internal/spotify"
)

// ErrNoArtistID is returned when a Formatter is constructed without an
// entity id. Formatting must fail loudly rather than produce rows with
// a wrong key.
var ErrNoArtistID = errors.New("format: artist id not set")

// imageSlots is the fixed number of image-URL columns on artist and
// album rows.
const imageSlots = 3

// maxListeners caps listener-geography rows per artist.
const maxListeners = 5

// Relationship tags for related-artist edges, by discovery context.
const (
	RelRelated   = "related"
	RelCoAuthors = "co-authors"
	RelAppearsOn = "appears-on"
)

// Row is one fixed-arity table row.
type Row []any

// Formatter produces rows for a single entity. The timestamp is
// captured once at construction so every row of one invocation shares
// it.
type Formatter struct {
	artistID string
	now      time.Time
}

func New(artistID string) (*Formatter, error) {
	if artistID == "" {
		return nil, ErrNoArtistID
	}
	return &Formatter{artistID: artistID, now: time.Now()}, nil
}

// Artist builds the single artists-table row.
func (f *Formatter) Artist(a spotify.Artist, albums spotify.AlbumPage, bio string) Row {
	row := Row{
		f.artistID,
		cleanStr(a.Name),
		bio,
		a.Popularity,
		a.Followers.Total,
		len(albums.Items),
		albums.Total,
		a.ExternalURLs.Spotify,
	}
	row = append(row, imageURLs(a.Images)...)
	return append(row, f.now)
}

// Albums builds one row per album.
func (f *Formatter) Albums(albums spotify.AlbumPage) []Row {
	rows := make([]Row, 0, len(albums.Items))
	for _, album := range albums.Items {
		row := Row{
			f.artistID,
			album.ID,
			album.Name,
			album.AlbumGroup,
			album.AlbumType,
			album.ReleaseDate,
			album.ReleaseDatePrecision,
			album.TotalTracks,
			album.ExternalURLs.Spotify,
		}
		row = append(row, imageURLs(album.Images)...)
		rows = append(rows, append(row, f.now))
	}
	return rows
}

// Tracks builds one row per track across every album. A track with no
// feature record still yields a full-arity row with twelve nulls.
func (f *Formatter) Tracks(albums spotify.AlbumPage) []Row {
	var rows []Row
	for _, album := range albums.Items {
		if album.Tracks == nil {
			continue
		}
		for _, track := range album.Tracks.Items {
			row := Row{
				f.artistID,
				album.ID,
				track.ID,
				track.Name,
				track.DiscNumber,
				track.TrackNumber,
				track.Explicit,
				track.DurationMS,
			}
			if ft := track.Features; ft != nil {
				row = append(row,
					ft.Key, ft.Mode, ft.TimeSignature, ft.Tempo,
					ft.Danceability, ft.Energy, ft.Valence, ft.Loudness,
					ft.Speechiness, ft.Acousticness, ft.Instrumentalness, ft.Liveness,
				)
			} else {
				row = append(row, make(Row, 12)...)
			}
			row = append(row, track.ExternalURLs.Spotify, f.now)
			rows = append(rows, row)
		}
	}
	return rows
}

// Genres builds one row per genre label.
func (f *Formatter) Genres(a spotify.Artist) []Row {
	rows := make([]Row, 0, len(a.Genres))
	for _, genre := range a.Genres {
		rows = append(rows, Row{f.artistID, cleanStr(genre), f.now})
	}
	return rows
}

// Related builds one edge per co-occurring artist, tagged with its
// discovery context. Self references are dropped; the same pair may
// appear under different tags.
func (f *Formatter) Related(albums spotify.AlbumPage, related spotify.RelatedArtists) []Row {
	edges := func(refs []spotify.ArtistRef, relationship string) []Row {
		var out []Row
		for _, ref := range refs {
			if ref.ID == f.artistID {
				continue
			}
			out = append(out, Row{f.artistID, ref.ID, relationship, f.now})
		}
		return out
	}

	rows := edges(related.Artists, RelRelated)
	for _, album := range albums.Items {
		rows = append(rows, edges(album.Artists, RelCoAuthors)...)
		if album.Tracks == nil {
			continue
		}
		for _, track := range album.Tracks.Items {
			rows = append(rows, edges(track.Artists, RelAppearsOn)...)
		}
	}
	return rows
}

// Listeners builds at most five top-listener-city rows.
func (f *Formatter) Listeners(listeners []spotify.Listener) []Row {
	if len(listeners) > maxListeners {
		listeners = listeners[:maxListeners]
	}
	rows := make([]Row, 0, len(listeners))
	for _, l := range listeners {
		rows = append(rows, Row{f.artistID, l.City, l.Country, l.Listeners, f.now})
	}
	return rows
}

// imageURLs normalizes a variable-length image list to exactly three
// slots, null-filled.
func imageURLs(images []spotify.Image) Row {
	row := make(Row, imageSlots)
	for i := 0; i < imageSlots && i < len(images); i++ {
		row[i] = images[i].URL
	}
	return row
}

// cleanStr is a light sanitization for display strings stored in the
// catalog. Not an injection guard; writes are parameterized.
func cleanStr(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("(", "-", ")", "-", "'", " ").Replace(s)
}
