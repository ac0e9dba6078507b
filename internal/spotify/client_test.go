package spotify

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/time/rate"
)

func newTestClient(serverURL string) *Client {
	c := New("", "")
	c.SetBaseURL(serverURL, serverURL+"/token")
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestAlbumsPaginatesAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists/ar1/albums" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("offset") {
		case "0":
			fmt.Fprint(w, `{"total": 22, "items": [
				{"id": "al1", "album_type": "album"},
				{"id": "al2", "album_type": "compilation"}
			]}`)
		case "20":
			fmt.Fprint(w, `{"total": 22, "items": [
				{"id": "al3", "album_type": "single"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	page, err := c.Albums("ar1", DefaultAlbumTypes, false)
	if err != nil {
		t.Fatalf("Albums: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("Expected 2 albums after type filter, got %d", len(page.Items))
	}
	if page.Items[0].ID != "al1" || page.Items[1].ID != "al3" {
		t.Errorf("Unexpected album ids: %v, %v", page.Items[0].ID, page.Items[1].ID)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"id": "ar1", "name": "prueba"}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	a, err := c.Artist("ar1")
	if err != nil {
		t.Fatalf("Artist after retry: %v", err)
	}
	if a.Name != "prueba" {
		t.Errorf("Expected name %q, got %q", "prueba", a.Name)
	}
	if calls.Load() < 2 {
		t.Errorf("Expected at least 2 attempts, got %d", calls.Load())
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad id", http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.Artist("nope"); err == nil {
		t.Fatal("Expected error on 400")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected exactly 1 attempt on 400, got %d", calls.Load())
	}
}

func TestAboutMissingProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	bio, listeners, err := c.About("ar1")
	if err != nil {
		t.Fatalf("About on missing profile page: %v", err)
	}
	if bio != "" || listeners != nil {
		t.Errorf("Expected empty profile, got bio %q, listeners %v", bio, listeners)
	}
}

func TestTracksSkipsMissingFollowupPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "0" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"total": 60, "items": [{"id": "tr1", "name": "uno"}]}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	page, err := c.Tracks("al1", false)
	if err != nil {
		t.Fatalf("Tracks with missing follow-up page: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "tr1" {
		t.Errorf("Expected only the first page's track, got %+v", page.Items)
	}
}

func TestTrackFeaturesAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	f, err := c.TrackFeatures("tr1")
	if err != nil {
		t.Fatalf("TrackFeatures on missing analysis: %v", err)
	}
	if f != nil {
		t.Errorf("Expected nil features, got %+v", f)
	}
}
