package dump

import (
	"testing"

	"github.com/lmdiaz/escena/internal/spotify"
)

func TestDirRoundTrip(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	data := &spotify.ArtistData{
		ArtistID: "ar1",
		Artist:   spotify.Artist{ID: "ar1", Name: "prueba"},
		Bio:      "una bio",
		Albums: spotify.AlbumPage{Total: 1, Items: []spotify.Album{{
			ID: "al1",
			Tracks: &spotify.TrackPage{Items: []spotify.Track{
				{ID: "tr1", Features: &spotify.Features{Tempo: 120}},
				{ID: "tr2"},
			}},
		}}},
	}

	if err := d.Save(data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ids, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != "ar1" {
		t.Fatalf("List = %v, want [ar1]", ids)
	}

	loaded, err := d.Load("ar1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Artist.Name != "prueba" || loaded.Bio != "una bio" {
		t.Errorf("Loaded dump lost fields: %+v", loaded)
	}
	tracks := loaded.Albums.Items[0].Tracks.Items
	if tracks[0].Features == nil || tracks[0].Features.Tempo != 120 {
		t.Errorf("Feature record lost in round trip: %+v", tracks[0].Features)
	}
	if tracks[1].Features != nil {
		t.Errorf("Absent features should stay nil, got %+v", tracks[1].Features)
	}

	if err := d.Remove("ar1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ids, _ = d.List()
	if len(ids) != 0 {
		t.Errorf("Expected empty queue after Remove, got %v", ids)
	}
}

func TestSaveRequiresID(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if err := d.Save(&spotify.ArtistData{}); err == nil {
		t.Error("Save without artist id should error")
	}
}
