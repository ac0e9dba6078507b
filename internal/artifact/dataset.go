package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/lmdiaz/escena/internal/migration"
	"github.com/lmdiaz/escena/internal/store"
)

// Dataset is one artist's full chart payload.
type Dataset struct {
	ArtistID        string         `json:"artist_id"`
	ArtistName      string         `json:"artist_name"`
	FeaturesSummary [][]float64    `json:"features_summary"`
	MeasuresSummary [][]float64    `json:"measures_summary"`
	KeyCounts       [][]int        `json:"key_counts"`
	Albums          []AlbumDataset `json:"albums"`
}

type AlbumDataset struct {
	AlbumID         string       `json:"album_id"`
	AlbumName       string       `json:"album_name"`
	FeaturesSummary [][]float64  `json:"features_summary"`
	MeasuresSummary [][]float64  `json:"measures_summary"`
	KeyCounts       [][]int      `json:"key_counts"`
	Tracks          []TrackPoint `json:"tracks"`
}

// TrackPoint is one scatter point: the projection plus the raw
// attributes the tooltip shows.
type TrackPoint struct {
	TrackID   string    `json:"track_id"`
	TrackName string    `json:"track_name"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Features  []float64 `json:"features"`
	Measures  []float64 `json:"measures"`
	Key       int       `json:"key"`
	Mode      int       `json:"mode"`
}

// measureOrder is the artifact-side metric order, distinct from the
// stored column order.
var measureOrder = []string{"tempo", "loudness", "duration"}

// statOrder is the artifact-side layout of one eight-stat block.
var statOrder = []string{"min", "1q", "median", "3q", "max", "mean", "std", "count"}

// BuildDatasets writes one dataset file per stored artist.
func (b *Builder) BuildDatasets() error {
	artistIDs, err := b.catalog.ArtistIDs()
	if err != nil {
		return err
	}
	for _, artistID := range artistIDs {
		if err := b.BuildDataset(artistID); err != nil {
			return err
		}
	}
	return nil
}

// BuildDataset writes <outDir>/dataset/<artist_id>.json. An artist
// with no summary row is skipped with a warning.
func (b *Builder) BuildDataset(artistID string) error {
	summary, err := b.analytics.ToFrame("SELECT * FROM artist_summary WHERE artist_id = ?", artistID)
	if err != nil {
		return err
	}
	if summary.Len() == 0 {
		fmt.Fprintf(os.Stderr, "skipping %s: no artist summary\n", artistID)
		return nil
	}

	name, err := b.catalog.ArtistName(artistID)
	if err != nil {
		return err
	}
	albums, err := b.buildAlbums(artistID)
	if err != nil {
		return err
	}

	data := Dataset{
		ArtistID:        artistID,
		ArtistName:      name,
		FeaturesSummary: featureBlocks(summary),
		MeasuresSummary: measureBlocks(summary),
		KeyCounts:       keyCounts(summary),
		Albums:          albums,
	}
	return b.save(DatasetDir, artistID, data)
}

// BuildIndex scans the generated dataset files and writes the
// id-to-name index artistas.json.
func (b *Builder) BuildIndex() error {
	files, err := filepath.Glob(filepath.Join(b.outDir, DatasetDir, "*.json"))
	if err != nil {
		return err
	}

	index := map[string]string{}
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		var data struct {
			ArtistName string `json:"artist_name"`
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("decoding %s: %w", file, err)
		}
		artistID := strings.TrimSuffix(filepath.Base(file), ".json")
		index[artistID] = data.ArtistName
	}
	return b.save("", "artistas", index)
}

func (b *Builder) buildAlbums(artistID string) ([]AlbumDataset, error) {
	rows, err := b.analytics.ToFrame("SELECT * FROM album_summary WHERE artist_id = ?", artistID)
	if err != nil {
		return nil, err
	}

	var albums []AlbumDataset
	groups, err := rows.GroupBy("album_id")
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		albumID, _ := g.Key.(string)
		name, err := b.catalog.AlbumName(albumID)
		if err != nil {
			return nil, err
		}
		tracks, err := b.buildTracks(albumID)
		if err != nil {
			return nil, err
		}
		albums = append(albums, AlbumDataset{
			AlbumID:         albumID,
			AlbumName:       name,
			FeaturesSummary: featureBlocks(g.Frame),
			MeasuresSummary: measureBlocks(g.Frame),
			KeyCounts:       keyCounts(g.Frame),
			Tracks:          tracks,
		})
	}
	return albums, nil
}

func (b *Builder) buildTracks(albumID string) ([]TrackPoint, error) {
	points, err := b.analytics.ToFrame(
		"SELECT track_id, gpc_x, gpc_y FROM track_projection WHERE album_id = ?", albumID)
	if err != nil {
		return nil, err
	}

	var tracks []TrackPoint
	for i := 0; i < points.Len(); i++ {
		trackID, _ := points.Row(i)[0].(string)
		track, err := b.catalog.ToFrame("SELECT * FROM tracks WHERE track_id = ?", trackID)
		if err != nil {
			return nil, err
		}
		if track.Len() == 0 {
			return nil, fmt.Errorf("projected track %q missing from catalog", trackID)
		}

		var features []float64
		for _, col := range migration.Features {
			features = append(features, cell(track, col))
		}
		name, _ := track.Row(0)[columnIndex(track, "track_name")].(string)
		tracks = append(tracks, TrackPoint{
			TrackID:   trackID,
			TrackName: name,
			X:         cell(points, "gpc_x", i),
			Y:         cell(points, "gpc_y", i),
			Features:  features,
			Measures:  []float64{cell(track, "tempo"), cell(track, "loudness"), cell(track, "duration_ms")},
			Key:       int(cell(track, "key")),
			Mode:      int(cell(track, "mode")),
		})
	}
	return tracks, nil
}

// featureBlocks reads the per-feature stat blocks out of a one-row
// summary frame, reordered for the charts.
func featureBlocks(f *store.Frame) [][]float64 {
	var blocks [][]float64
	for _, feature := range migration.Features {
		blocks = append(blocks, statBlock(f, feature))
	}
	return blocks
}

func measureBlocks(f *store.Frame) [][]float64 {
	var blocks [][]float64
	for _, measure := range measureOrder {
		blocks = append(blocks, statBlock(f, measure))
	}
	return blocks
}

func statBlock(f *store.Frame, metric string) []float64 {
	block := make([]float64, 0, len(statOrder))
	for _, stat := range statOrder {
		block = append(block, cell(f, fmt.Sprintf("%s_%s", metric, stat)))
	}
	return block
}

// keyCounts reads the key/mode crosstab in circle-of-fifths order,
// minor row first.
func keyCounts(f *store.Frame) [][]int {
	rows := make([][]int, 0, len(migration.Modes))
	for _, mode := range migration.Modes {
		row := make([]int, 0, len(migration.Tonality))
		for i := 0; i < len(migration.Tonality); i++ {
			key := migration.Tonality[(5+7*i)%len(migration.Tonality)]
			row = append(row, int(cell(f, fmt.Sprintf("key_count_%s_%s", key, mode))))
		}
		rows = append(rows, row)
	}
	return rows
}

// cell reads one numeric cell, defaulting the row to 0. Missing or
// null cells read as 0.
func cell(f *store.Frame, col string, row ...int) float64 {
	i := 0
	if len(row) > 0 {
		i = row[0]
	}
	v, err := f.Value(i, col)
	if err != nil || v == nil {
		return 0
	}
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	default:
		return 0
	}
}

func columnIndex(f *store.Frame, col string) int {
	for i, c := range f.Columns() {
		if c == col {
			return i
		}
	}
	return -1
}
