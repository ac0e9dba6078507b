// Package analytics derives the second store from the first: per-id
// summary rows and the global track projection.
package analytics

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/lmdiaz/escena/internal/migration"
	"github.com/lmdiaz/escena/internal/stats"
	"github.com/lmdiaz/escena/internal/store"
)

// Summarizer reads feature-complete tracks out of the catalog and
// writes derived rows into the analytics store.
type Summarizer struct {
	catalog   *store.Store
	analytics *store.Store

	Verbose bool
}

func New(catalog, analytics *store.Store) *Summarizer {
	return &Summarizer{catalog: catalog, analytics: analytics}
}

// metricColumns is the stored order of the ten summarized metrics.
func metricColumns() []string {
	return append(append([]string{}, migration.Measures...), migration.Features...)
}

func trackQuery(artistID string) (string, []any) {
	cols := append([]string{"album_id", "key", "mode"}, metricColumns()...)
	return fmt.Sprintf("SELECT %s FROM tracks WHERE artist_id = ?", strings.Join(cols, ", ")),
		[]any{artistID}
}

// CreateEntry summarizes one artist: a single artist_summary row over
// all its feature-complete tracks, plus one album_summary row per
// album. An artist with no feature-complete tracks is skipped with a
// warning, not an error.
func (s *Summarizer) CreateEntry(artistID string) error {
	query, args := trackQuery(artistID)
	frame, err := s.catalog.ToFrame(query, args...)
	if err != nil {
		return fmt.Errorf("reading tracks for %q: %w", artistID, err)
	}
	clean, err := frame.DropNull()
	if err != nil {
		return err
	}
	if clean.Len() == 0 {
		fmt.Fprintf(os.Stderr, "no analyzable tracks for %s, skipping summary\n", artistID)
		return nil
	}

	if s.Verbose {
		fmt.Printf("summarizing %d tracks for %s\n", clean.Len(), artistID)
	}
	now := time.Now()

	values, err := summaryValues(clean)
	if err != nil {
		return err
	}
	stmts := []store.Statement{summaryInsert("artist_summary", append([]any{artistID}, values...), now)}

	groups, err := clean.GroupBy("album_id")
	if err != nil {
		return err
	}
	for _, g := range groups {
		values, err := summaryValues(g.Frame)
		if err != nil {
			return err
		}
		stmts = append(stmts, summaryInsert("album_summary", append([]any{artistID, g.Key}, values...), now))
	}

	if err := s.analytics.Push(stmts, false); err != nil {
		return fmt.Errorf("writing summaries for %q: %w", artistID, err)
	}
	return nil
}

// BatchCreate summarizes every artist with saved albums that has no
// summary row yet.
func (s *Summarizer) BatchCreate() error {
	artistIDs, err := s.catalog.ArtistIDsWithSavedAlbums()
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(artistIDs)), "summarizing")
	for _, artistID := range artistIDs {
		exists, err := s.analytics.HasArtistSummary(artistID)
		if err != nil {
			return err
		}
		if !exists {
			if err := s.CreateEntry(artistID); err != nil {
				return err
			}
		}
		bar.Add(1)
	}
	return nil
}

// ProjectTracks reduces every feature-complete track in the catalog to
// two dimensions and replaces the stored projection. Axis metadata is
// appended, keeping the history of prior runs.
func (s *Summarizer) ProjectTracks() error {
	cols := append([]string{"artist_id", "album_id", "track_id"}, metricColumns()...)
	frame, err := s.catalog.ToFrame(
		fmt.Sprintf("SELECT %s FROM tracks", strings.Join(cols, ", ")))
	if err != nil {
		return fmt.Errorf("reading tracks: %w", err)
	}
	clean, err := frame.DropNull()
	if err != nil {
		return err
	}

	matrix := make([][]float64, clean.Len())
	for _, metric := range metricColumns() {
		col, err := clean.Float(metric)
		if err != nil {
			return err
		}
		for i, v := range col {
			matrix[i] = append(matrix[i], v)
		}
	}

	p, err := stats.Project(matrix)
	if err != nil {
		return fmt.Errorf("projecting %d tracks: %w", clean.Len(), err)
	}
	if s.Verbose {
		fmt.Printf("projected %d tracks, explained variance %v/%v\n", clean.Len(), p.VarX, p.VarY)
	}

	now := time.Now()
	rows := make([][]any, clean.Len())
	for i := 0; i < clean.Len(); i++ {
		row := clean.Row(i)
		rows[i] = []any{row[0], row[1], row[2], p.X[i], p.Y[i], now}
	}
	out, err := store.NewFrame(
		[]string{"artist_id", "album_id", "track_id", "gpc_x", "gpc_y", "last_updated"}, rows)
	if err != nil {
		return err
	}
	if err := s.analytics.BulkAppend("track_projection", out, store.ModeReplace); err != nil {
		return err
	}

	return s.analytics.Push([]store.Statement{{
		SQL:  "INSERT INTO projection_metadata (var_x, var_y, last_updated) VALUES (?, ?, ?)",
		Args: []any{p.VarX, p.VarY, now},
	}}, false)
}

// summaryValues computes the derived cells of one summary row: the
// key/mode crosstab, then eight stats per metric.
func summaryValues(f *store.Frame) ([]any, error) {
	keys, err := f.Float("key")
	if err != nil {
		return nil, err
	}
	modes, err := f.Float("mode")
	if err != nil {
		return nil, err
	}

	counts := make([]int, len(migration.Modes)*len(migration.Tonality))
	for i := range keys {
		key, mode := int(keys[i]), int(modes[i])
		if key < 0 || key >= len(migration.Tonality) || mode < 0 || mode >= len(migration.Modes) {
			continue
		}
		counts[mode*len(migration.Tonality)+key]++
	}

	var values []any
	for _, c := range counts {
		values = append(values, c)
	}
	for _, metric := range metricColumns() {
		col, err := f.Float(metric)
		if err != nil {
			return nil, err
		}
		summary, _ := stats.Describe(col)
		for _, v := range summary.Values() {
			values = append(values, v)
		}
	}
	return values, nil
}

func summaryInsert(table string, row []any, now time.Time) store.Statement {
	row = append(row, now)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(row)), ", ")
	return store.Statement{
		SQL:  fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, placeholders),
		Args: row,
	}
}
