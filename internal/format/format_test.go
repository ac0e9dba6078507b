package format

import (
	"testing"

	"github.com/lmdiaz/escena/internal/spotify"
)

const (
	artistCols = 12
	albumCols  = 13
	trackCols  = 22
)

func TestNewRequiresArtistID(t *testing.T) {
	if _, err := New(""); err != ErrNoArtistID {
		t.Errorf("New(\"\") error = %v, want ErrNoArtistID", err)
	}
	if _, err := New("ar1"); err != nil {
		t.Errorf("New(\"ar1\") error: %v", err)
	}
}

func TestArtistRowPadsImages(t *testing.T) {
	f, _ := New("ar1")
	a := spotify.Artist{
		Name:       " La Renga ",
		Popularity: 60,
		Followers:  spotify.Followers{Total: 1000},
		Images:     []spotify.Image{{URL: "http://img/640"}},
	}

	row := f.Artist(a, spotify.AlbumPage{Total: 4}, "bio")
	if len(row) != artistCols {
		t.Fatalf("Artist row has %d columns, want %d", len(row), artistCols)
	}
	if row[1] != "la renga" {
		t.Errorf("Expected sanitized name %q, got %v", "la renga", row[1])
	}
	if row[8] != "http://img/640" {
		t.Errorf("Expected first image slot filled, got %v", row[8])
	}
	if row[9] != nil || row[10] != nil {
		t.Errorf("Expected null padding for missing images, got %v, %v", row[9], row[10])
	}
}

func TestTracksNullFeatures(t *testing.T) {
	f, _ := New("ar1")
	albums := spotify.AlbumPage{Items: []spotify.Album{{
		ID: "al1",
		Tracks: &spotify.TrackPage{Items: []spotify.Track{
			{ID: "tr1", Features: &spotify.Features{Key: 5, Mode: 1, Tempo: 120}},
			{ID: "tr2"}, // no analysis available
		}},
	}}}

	rows := f.Tracks(albums)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 track rows, got %d", len(rows))
	}
	for _, row := range rows {
		if len(row) != trackCols {
			t.Fatalf("Track row has %d columns, want %d", len(row), trackCols)
		}
	}

	if rows[0][8] != 5 {
		t.Errorf("Expected key 5, got %v", rows[0][8])
	}
	for i := 8; i < 20; i++ {
		if rows[1][i] != nil {
			t.Errorf("Expected null feature column %d, got %v", i, rows[1][i])
		}
	}
}

func TestAlbumRowArity(t *testing.T) {
	f, _ := New("ar1")
	rows := f.Albums(spotify.AlbumPage{Items: []spotify.Album{{ID: "al1", Name: "disco"}}})
	if len(rows) != 1 || len(rows[0]) != albumCols {
		t.Fatalf("Expected 1 row with %d columns, got %d rows (arity %d)", albumCols, len(rows), len(rows[0]))
	}
}

func TestRelatedDropsSelfAndTagsContext(t *testing.T) {
	f, _ := New("ar1")
	albums := spotify.AlbumPage{Items: []spotify.Album{{
		ID:      "al1",
		Artists: []spotify.ArtistRef{{ID: "ar1"}, {ID: "ar2"}},
		Tracks: &spotify.TrackPage{Items: []spotify.Track{
			{ID: "tr1", Artists: []spotify.ArtistRef{{ID: "ar3"}}},
		}},
	}}}
	related := spotify.RelatedArtists{Artists: []spotify.ArtistRef{{ID: "ar2"}, {ID: "ar1"}}}

	rows := f.Related(albums, related)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(rows))
	}

	want := map[string]string{
		RelRelated:   "ar2",
		RelCoAuthors: "ar2",
		RelAppearsOn: "ar3",
	}
	for _, row := range rows {
		relationship := row[2].(string)
		if row[0] != "ar1" {
			t.Errorf("Edge owner = %v, want ar1", row[0])
		}
		if other, ok := want[relationship]; !ok || row[1] != other {
			t.Errorf("Unexpected edge (%v, %v)", row[1], relationship)
		}
	}
}

func TestTimestampStableAcrossOneInvocation(t *testing.T) {
	f, _ := New("ar1")
	a := spotify.Artist{Genres: []string{"tango", "folclore"}}

	rows := f.Genres(a)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 genre rows, got %d", len(rows))
	}
	if rows[0][2] != rows[1][2] {
		t.Errorf("Timestamps differ within one invocation: %v vs %v", rows[0][2], rows[1][2])
	}
}

func TestListenersCapped(t *testing.T) {
	f, _ := New("ar1")
	listeners := make([]spotify.Listener, 7)
	for i := range listeners {
		listeners[i] = spotify.Listener{City: "city", Country: "ar", Listeners: i}
	}

	rows := f.Listeners(listeners)
	if len(rows) != 5 {
		t.Errorf("Expected 5 listener rows, got %d", len(rows))
	}
}
