// Package ingest drives the per-artist pipeline: fetch, format, write
// across the six catalog tables, with dump-and-retry on write failure.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/lmdiaz/escena/internal/dump"
	"github.com/lmdiaz/escena/internal/format"
	"github.com/lmdiaz/escena/internal/spotify"
	"github.com/lmdiaz/escena/internal/store"
)

// Provider supplies the full nested payload for one artist.
type Provider interface {
	All(artistID string) (*spotify.ArtistData, error)
}

// Options control failure handling during creates.
type Options struct {
	// CacheOnError saves the raw payload to the dump queue when a
	// write fails, so Retry can re-attempt without re-fetching.
	CacheOnError bool
	// ContinueOnError swallows recoverable storage errors so a batch
	// can move on to the next entity.
	ContinueOnError bool
}

type Ingestor struct {
	catalog  *store.Store
	provider Provider
	dumps    dump.Queue

	Verbose bool
}

func New(catalog *store.Store, provider Provider, dumps dump.Queue) *Ingestor {
	return &Ingestor{catalog: catalog, provider: provider, dumps: dumps}
}

// Create fetches and writes a complete entry for an artist. Existence
// is not checked here; batch callers skip known ids first.
func (g *Ingestor) Create(artistID string, opts Options) error {
	data, err := g.provider.All(artistID)
	if err != nil {
		return fmt.Errorf("fetching %q: %w", artistID, err)
	}
	return g.createFrom(data, opts)
}

// createFrom runs the format+write half of Create from an already
// fetched payload. Retry uses it to skip the fetch.
func (g *Ingestor) createFrom(data *spotify.ArtistData, opts Options) error {
	f, err := format.New(data.ArtistID)
	if err != nil {
		return err
	}

	steps := []struct {
		table  string
		rows   []format.Row
		bypass bool
	}{
		{"artists", []format.Row{f.Artist(data.Artist, data.Albums, data.Bio)}, false},
		{"albums", f.Albums(data.Albums), false},
		{"tracks", f.Tracks(data.Albums), false},
		{"genres", f.Genres(data.Artist), false},
		// Duplicate edges may be formed from different sources;
		// detecting them beforehand would be slow.
		{"related", f.Related(data.Albums, data.Related), true},
		{"listeners", f.Listeners(data.Listeners), false},
	}

	for _, step := range steps {
		if g.Verbose {
			fmt.Printf("creating %s entries for %s\n", step.table, data.ArtistID)
		}
		if err := g.catalog.Push(insertInto(step.table, step.rows), step.bypass); err != nil {
			return g.handleWriteError(data, step.table, err, opts)
		}
	}
	return nil
}

func (g *Ingestor) handleWriteError(data *spotify.ArtistData, table string, err error, opts Options) error {
	if opts.CacheOnError {
		if derr := g.dumps.Save(data); derr != nil {
			return fmt.Errorf("writing %s for %q: %v (saving dump: %w)", table, data.ArtistID, err, derr)
		}
	}
	if opts.ContinueOnError && store.IsStorage(err) {
		fmt.Printf("skipping %s: %v\n", data.ArtistID, err)
		return nil
	}
	return fmt.Errorf("writing %s for %q: %w", table, data.ArtistID, err)
}

// BatchCreate creates entries for every id not yet in the catalog.
func (g *Ingestor) BatchCreate(artistIDs []string, opts Options) error {
	bar := progressbar.Default(int64(len(artistIDs)), "ingesting")
	for _, artistID := range artistIDs {
		exists, err := g.catalog.HasArtist(artistID)
		if err != nil {
			return err
		}
		if exists {
			bar.Add(1)
			continue
		}
		if err := g.Create(artistID, opts); err != nil {
			return err
		}
		bar.Add(1)
	}
	return nil
}

// Retry re-attempts every dumped entry from its cached payload:
// partial rows are cascaded away, the write path re-runs without
// fetching, and the dump is removed on success.
func (g *Ingestor) Retry() error {
	ids, err := g.dumps.List()
	if err != nil {
		return err
	}

	for _, artistID := range ids {
		data, err := g.dumps.Load(artistID)
		if err != nil {
			return err
		}
		if err := g.catalog.DeleteArtist(artistID); err != nil {
			return fmt.Errorf("clearing partial rows for %q: %w", artistID, err)
		}
		if err := g.createFrom(data, Options{}); err != nil {
			fmt.Printf("retry for %s failed again: %v\n", artistID, err)
			continue
		}
		if err := g.dumps.Remove(artistID); err != nil {
			return err
		}
		fmt.Printf("retried %s\n", artistID)
	}
	return nil
}

// Delete removes an artist across all six tables.
func (g *Ingestor) Delete(artistID string) error {
	if g.Verbose {
		fmt.Printf("deleting entries for %s\n", artistID)
	}
	return g.catalog.DeleteArtist(artistID)
}

// Update re-fetches an artist. Artist, genres, related and listener
// rows are delete-then-recreate; albums and tracks take a differential
// path so unchanged albums keep their rows.
func (g *Ingestor) Update(artistID string) error {
	priorTotal, err := g.catalog.TotalAlbums(artistID)
	if err != nil {
		return fmt.Errorf("reading stored album total for %q: %w", artistID, err)
	}

	data, err := g.provider.All(artistID)
	if err != nil {
		return fmt.Errorf("fetching %q: %w", artistID, err)
	}
	f, err := format.New(artistID)
	if err != nil {
		return err
	}

	if g.Verbose {
		fmt.Printf("updating artist entry for %s\n", artistID)
	}
	err = g.catalog.Push(append(
		deleteFrom("artists", artistID),
		insertInto("artists", []format.Row{f.Artist(data.Artist, data.Albums, data.Bio)})...,
	), false)
	if err != nil {
		return err
	}

	if priorTotal != data.Albums.Total {
		if err := g.insertNewAlbums(f, data.Albums); err != nil {
			return err
		}
	}

	if g.Verbose {
		fmt.Printf("updating genre, related and listener entries for %s\n", artistID)
	}
	err = g.catalog.Push(append(
		deleteFrom("genres", artistID),
		insertInto("genres", f.Genres(data.Artist))...,
	), false)
	if err != nil {
		return err
	}
	err = g.catalog.Push(append(
		deleteFrom("related", artistID),
		insertInto("related", f.Related(data.Albums, data.Related))...,
	), true)
	if err != nil {
		return err
	}
	return g.catalog.Push(append(
		deleteFrom("listeners", artistID),
		insertInto("listeners", f.Listeners(data.Listeners))...,
	), false)
}

// insertNewAlbums writes only the albums (and their tracks) whose id
// is not yet stored.
func (g *Ingestor) insertNewAlbums(f *format.Formatter, albums spotify.AlbumPage) error {
	fresh := spotify.AlbumPage{Total: albums.Total}
	for _, album := range albums.Items {
		exists, err := g.catalog.HasAlbum(album.ID)
		if err != nil {
			return err
		}
		if !exists {
			fresh.Items = append(fresh.Items, album)
		}
	}
	if len(fresh.Items) == 0 {
		return nil
	}

	if err := g.catalog.Push(insertInto("albums", f.Albums(fresh)), false); err != nil {
		return err
	}
	return g.catalog.Push(insertInto("tracks", f.Tracks(fresh)), false)
}

// BatchUpdate updates only the entities whose stored timestamp is
// older than the threshold.
func (g *Ingestor) BatchUpdate(artistIDs []string, olderThan time.Duration) error {
	bar := progressbar.Default(int64(len(artistIDs)), "updating")
	for _, artistID := range artistIDs {
		lastUpdated, err := g.catalog.ArtistLastUpdated(artistID)
		if err != nil {
			return err
		}
		if time.Since(lastUpdated) > olderThan {
			if err := g.Update(artistID); err != nil {
				return err
			}
		}
		bar.Add(1)
	}
	return nil
}

// UpdateAll runs BatchUpdate over every stored artist.
func (g *Ingestor) UpdateAll(olderThan time.Duration) error {
	artistIDs, err := g.catalog.ArtistIDs()
	if err != nil {
		return err
	}
	return g.BatchUpdate(artistIDs, olderThan)
}

func insertInto(table string, rows []format.Row) []store.Statement {
	stmts := make([]store.Statement, 0, len(rows))
	for _, row := range rows {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(row)), ", ")
		stmts = append(stmts, store.Statement{
			SQL:  fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, placeholders),
			Args: row,
		})
	}
	return stmts
}

func deleteFrom(table string, artistID string) []store.Statement {
	return []store.Statement{{
		SQL:  fmt.Sprintf("DELETE FROM %s WHERE artist_id = ?", table),
		Args: []any{artistID},
	}}
}
