package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com/api/token"

	albumPageSize = 20
	trackPageSize = 50
)

// DefaultAlbumTypes are the album classifications an ingestion run
// keeps; compilations are filtered out client-side because the
// provider's type parameter accepts only one value at a time.
var DefaultAlbumTypes = []string{"album", "single"}

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	baseURL      string
	authURL      string
	clientID     string
	clientSecret string

	token       string
	tokenExpiry time.Time

	Verbose bool
}

func New(clientID, clientSecret string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(1*time.Second), 1),
		baseURL:      defaultBaseURL,
		authURL:      defaultAuthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// SetBaseURL overrides the API endpoints. Used by tests.
func (c *Client) SetBaseURL(base, auth string) {
	c.baseURL = base
	c.authURL = auth
}

// apiError is a non-2xx provider response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.Status, e.Body)
}

func isNotFound(err error) bool {
	aerr, ok := err.(*apiError)
	return ok && aerr.Status == http.StatusNotFound
}

func (c *Client) ensureToken() error {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}
	if c.clientID == "" {
		return nil // unauthenticated endpoint (tests)
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &apiError{Status: resp.StatusCode, Body: string(body)}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("decoding token: %w", err)
	}
	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return nil
}

// get fetches one API path into v, rate-limited, with a bounded retry
// on transport errors and 5xx responses. Exhausted retries surface the
// last error; there is no silent empty result.
func (c *Client) get(path string, params url.Values, v any) error {
	c.limiter.Wait(context.Background())

	if err := c.ensureToken(); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequest(http.MethodGet, u, nil)
			if err != nil {
				return err
			}
			if c.token != "" {
				req.Header.Set("Authorization", "Bearer "+c.token)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				return &apiError{Status: resp.StatusCode, Body: string(body)}
			}
			return json.NewDecoder(resp.Body).Decode(v)
		},
		retry.RetryIf(func(err error) bool {
			if aerr, ok := err.(*apiError); ok {
				if aerr.Status/100 == 5 {
					fmt.Printf("provider errored, retrying: %v\n", aerr)
					return true
				}
				return false
			}
			return true // transport error
		}),
		// Callers inspect the status of the final attempt, so the
		// aggregate attempt list must not mask it.
		retry.LastErrorOnly(true),
	)
}

func (c *Client) Artist(artistID string) (Artist, error) {
	if c.Verbose {
		fmt.Printf("getting artist %s\n", artistID)
	}
	var a Artist
	if err := c.get("/artists/"+artistID, nil, &a); err != nil {
		return Artist{}, fmt.Errorf("getting artist %q: %w", artistID, err)
	}
	return a, nil
}

// Albums fetches every album of the given types for an artist,
// paginating until the reported total is covered. When withTracks is
// set, each album is filled with its full track listing. A 404 on a
// follow-up page is skipped, matching the provider's habit of
// advertising more pages than it serves.
func (c *Client) Albums(artistID string, types []string, withTracks bool) (AlbumPage, error) {
	if c.Verbose {
		fmt.Printf("getting albums for %s\n", artistID)
	}

	var page AlbumPage
	if err := c.get("/artists/"+artistID+"/albums", pageParams(albumPageSize, 0), &page); err != nil {
		return AlbumPage{}, fmt.Errorf("getting albums for %q: %w", artistID, err)
	}
	albums := filterAlbums(page.Items, types)

	for offset := albumPageSize; offset < page.Total; offset += albumPageSize {
		var more AlbumPage
		err := c.get("/artists/"+artistID+"/albums", pageParams(albumPageSize, offset), &more)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return AlbumPage{}, fmt.Errorf("getting albums for %q (offset %d): %w", artistID, offset, err)
		}
		albums = append(albums, filterAlbums(more.Items, types)...)
	}

	if withTracks {
		for i := range albums {
			tracks, err := c.Tracks(albums[i].ID, true)
			if err != nil {
				return AlbumPage{}, err
			}
			albums[i].Tracks = &tracks
		}
	}

	return AlbumPage{Items: albums, Total: page.Total}, nil
}

// Tracks fetches an album's full track listing, optionally attaching
// each track's audio-feature record.
func (c *Client) Tracks(albumID string, withFeatures bool) (TrackPage, error) {
	if c.Verbose {
		fmt.Printf("getting tracks for %s\n", albumID)
	}

	var page TrackPage
	if err := c.get("/albums/"+albumID+"/tracks", pageParams(trackPageSize, 0), &page); err != nil {
		return TrackPage{}, fmt.Errorf("getting tracks for %q: %w", albumID, err)
	}
	tracks := page.Items

	for offset := trackPageSize; offset < page.Total; offset += trackPageSize {
		var more TrackPage
		err := c.get("/albums/"+albumID+"/tracks", pageParams(trackPageSize, offset), &more)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return TrackPage{}, fmt.Errorf("getting tracks for %q (offset %d): %w", albumID, offset, err)
		}
		tracks = append(tracks, more.Items...)
	}

	if withFeatures {
		for i := range tracks {
			features, err := c.TrackFeatures(tracks[i].ID)
			if err != nil {
				return TrackPage{}, err
			}
			tracks[i].Features = features
		}
	}

	return TrackPage{Items: tracks, Total: page.Total}, nil
}

// TrackFeatures fetches one track's audio analysis. A track without
// analysis yields nil, not an error.
func (c *Client) TrackFeatures(trackID string) (*Features, error) {
	if c.Verbose {
		fmt.Printf("getting track features for %s\n", trackID)
	}
	var f Features
	err := c.get("/audio-features/"+trackID, nil, &f)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting features for %q: %w", trackID, err)
	}
	return &f, nil
}

func (c *Client) Related(artistID string) (RelatedArtists, error) {
	if c.Verbose {
		fmt.Printf("getting related artists for %s\n", artistID)
	}
	var r RelatedArtists
	if err := c.get("/artists/"+artistID+"/related-artists", nil, &r); err != nil {
		return RelatedArtists{}, fmt.Errorf("getting related artists for %q: %w", artistID, err)
	}
	return r, nil
}

// About fetches the artist's profile extras: bio text and top listener
// cities. The provider does not always serve these; a 404 yields an
// empty profile rather than an error.
func (c *Client) About(artistID string) (bio string, listeners []Listener, err error) {
	if c.Verbose {
		fmt.Printf("getting artist profile for %s\n", artistID)
	}
	var about struct {
		Bio       string     `json:"bio"`
		Listeners []Listener `json:"listeners"`
	}
	err = c.get("/artists/"+artistID+"/about", nil, &about)
	if isNotFound(err) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("getting profile for %q: %w", artistID, err)
	}
	return about.Bio, about.Listeners, nil
}

// All fetches everything an ingestion run needs for one artist.
func (c *Client) All(artistID string) (*ArtistData, error) {
	artist, err := c.Artist(artistID)
	if err != nil {
		return nil, err
	}
	bio, listeners, err := c.About(artistID)
	if err != nil {
		return nil, err
	}
	albums, err := c.Albums(artistID, DefaultAlbumTypes, true)
	if err != nil {
		return nil, err
	}
	related, err := c.Related(artistID)
	if err != nil {
		return nil, err
	}
	return &ArtistData{
		ArtistID:  artistID,
		Artist:    artist,
		Bio:       bio,
		Listeners: listeners,
		Albums:    albums,
		Related:   related,
	}, nil
}

func pageParams(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}

func filterAlbums(albums []Album, types []string) []Album {
	if len(types) == 0 {
		return albums
	}
	var out []Album
	for _, a := range albums {
		for _, t := range types {
			if a.AlbumType == t {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
