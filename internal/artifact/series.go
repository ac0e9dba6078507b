package artifact

import (
	"fmt"
	"time"

	"github.com/lmdiaz/escena/internal/migration"
	"github.com/lmdiaz/escena/internal/stats"
)

// Default windows of the time-series artifacts.
var (
	releaseStart  = time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	releaseEnd    = time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)
	tonalityStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	tonalityEnd   = time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)
)

// tonalityColors is a diverging palette, one color per chromatic key.
var tonalityColors = []string{
	"#00429d", "#3761ab", "#5681b9", "#73a2c6", "#93c4d2", "#b9e5dd",
	"#ffd3bf", "#ffa59e", "#f4777f", "#dd4c65", "#be214d", "#93003a",
}

// ReleaseSeries is the monthly album and single release counts.
type ReleaseSeries struct {
	Albumes []int    `json:"albumes"`
	Singles []int    `json:"singles"`
	Labels  []string `json:"labels"`
}

// FridaySeries is the monthly fraction of releases landing on a
// Friday.
type FridaySeries struct {
	Releases []float64 `json:"releases"`
	Labels   []string  `json:"labels"`
}

// TonalitySeries is the yearly cross-key distribution of track keys.
type TonalitySeries struct {
	Labels []string             `json:"labels"`
	Keys   map[string]KeySeries `json:"keys"`
}

type KeySeries struct {
	Color string    `json:"color"`
	Hist  []float64 `json:"hist"`
}

// BuildReleaseSeries writes releaseSeries.json, counting
// day-precision releases per month by album type.
func (b *Builder) BuildReleaseSeries() error {
	buckets := stats.Buckets(releaseStart, releaseEnd, stats.Monthly)

	albums, err := b.releaseDates("album")
	if err != nil {
		return err
	}
	singles, err := b.releaseDates("single")
	if err != nil {
		return err
	}

	return b.save("", "releaseSeries", ReleaseSeries{
		Albumes: stats.CountSeries(albums, buckets, stats.Monthly),
		Singles: stats.CountSeries(singles, buckets, stats.Monthly),
		Labels:  stats.Labels(buckets, stats.Monthly),
	})
}

// BuildFridaySeries writes fridaySeries.json.
func (b *Builder) BuildFridaySeries() error {
	buckets := stats.Buckets(releaseStart, releaseEnd, stats.Monthly)
	dates, err := b.releaseDates("")
	if err != nil {
		return err
	}

	return b.save("", "fridaySeries", FridaySeries{
		Releases: stats.RatioSeries(dates, buckets, stats.Monthly,
			func(d time.Time) bool { return d.Weekday() == time.Friday }),
		Labels: stats.Labels(buckets, stats.Monthly),
	})
}

// BuildTonalitySeries writes tonalitySeries.json: per key, a yearly
// share series normalized across all twelve keys.
func (b *Builder) BuildTonalitySeries() error {
	buckets := stats.Buckets(tonalityStart, tonalityEnd, stats.Yearly)

	counts := make([][]int, len(migration.Tonality))
	for key := range migration.Tonality {
		dates, err := b.keyReleaseDates(key)
		if err != nil {
			return err
		}
		counts[key] = stats.CountSeries(dates, buckets, stats.Yearly)
	}

	// Normalize each year across keys; a keyless year stays zero.
	hists := make([][]float64, len(counts))
	for key := range hists {
		hists[key] = make([]float64, len(buckets))
	}
	for i := range buckets {
		total := 0
		for key := range counts {
			total += counts[key][i]
		}
		if total == 0 {
			continue
		}
		for key := range counts {
			hists[key][i] = stats.Round(float64(counts[key][i])/float64(total), 4)
		}
	}

	data := TonalitySeries{
		Labels: stats.Labels(buckets, stats.Yearly),
		Keys:   map[string]KeySeries{},
	}
	for key, name := range migration.TonalityLabels {
		data.Keys[name] = KeySeries{Color: tonalityColors[key], Hist: hists[key]}
	}
	return b.save("", "tonalitySeries", data)
}

// releaseDates reads day-precision album release dates, optionally
// filtered by album type.
func (b *Builder) releaseDates(albumType string) ([]time.Time, error) {
	query := "SELECT release_date FROM albums WHERE release_date_precision = 'day'"
	var args []any
	if albumType != "" {
		query += " AND album_type = ?"
		args = append(args, albumType)
	}
	rows, err := b.catalog.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return parseDates(rows)
}

// keyReleaseDates reads the release dates of every track in the given
// key, through the album join.
func (b *Builder) keyReleaseDates(key int) ([]time.Time, error) {
	rows, err := b.catalog.Query(`
		SELECT albums.release_date
		FROM tracks INNER JOIN albums ON tracks.album_id = albums.album_id
		WHERE tracks.key = ? AND albums.release_date_precision = 'day'`, key)
	if err != nil {
		return nil, err
	}
	return parseDates(rows)
}

func parseDates(rows [][]any) ([]time.Time, error) {
	var dates []time.Time
	for _, row := range rows {
		s, ok := row[0].(string)
		if !ok {
			continue
		}
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("bad release date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
