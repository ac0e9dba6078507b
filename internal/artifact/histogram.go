package artifact

import (
	"fmt"

	"github.com/lmdiaz/escena/internal/migration"
	"github.com/lmdiaz/escena/internal/stats"
)

// HistogramDir is the subdirectory holding per-attribute histogram
// files.
const HistogramDir = "histograms"

// YearHistogram is one year's layer of an attribute histogram.
type YearHistogram struct {
	Hist        []int     `json:"hist"`
	HistDensity []float64 `json:"hist_density"`
	Color       string    `json:"color"`
	Hidden      bool      `json:"hidden"`
}

// AttributeHistogram is the multi-year histogram of one track
// attribute. Data is keyed by release year.
type AttributeHistogram struct {
	Labels []any                 `json:"labels"`
	Data   map[int]YearHistogram `json:"data"`
}

// Chart layering defaults: four years, first and last visible.
var (
	yearColors = []string{"#0000ff", "#ff00ff", "#ffff00", "#ff0000"}
	yearHidden = []bool{false, true, true, false}
)

type histConfig struct {
	attribute string
	startYear int
	stopYear  int
	edges     []float64
	labels    []any
	colors    []string
	hidden    []bool
	// reorderCounts permutes categorical bins for display.
	reorderCounts bool
}

func histConfigs() []histConfig {
	var configs []histConfig
	for _, feature := range migration.Features {
		configs = append(configs, histConfig{
			attribute: feature,
			startYear: 2018, stopYear: 2022,
			edges: stats.EvenEdges(0, 1, 20),
		})
	}

	configs = append(configs, histConfig{
		attribute: "loudness",
		startYear: 2018, stopYear: 2022,
		edges: stats.EvenEdges(-36, 6, 42),
	})

	durationEdges := stats.EvenEdges(0, 600000, 120)
	durationLabels := make([]any, len(durationEdges))
	for i, e := range durationEdges {
		durationLabels[i] = fmt.Sprintf("%ds", int(e/1000))
	}
	configs = append(configs, histConfig{
		attribute: "duration_ms",
		startYear: 2013, stopYear: 2022,
		edges:  durationEdges,
		labels: durationLabels,
		colors: []string{"#0000ff", "#ff00ff", "#ffff00", "#ff0000", "#0000ff", "#ff00ff", "#ffff00", "#ff0000", "#ff0000"},
		hidden: []bool{false, true, true, true, true, true, true, true, false},
	})

	configs = append(configs, histConfig{
		attribute: "tempo",
		startYear: 2018, stopYear: 2022,
		edges: stats.EvenEdges(40, 220, 36),
	})

	keyLabels := make([]any, 0, len(migration.TonalityLabels))
	for _, key := range circleOfFifths(migration.TonalityLabels) {
		keyLabels = append(keyLabels, key)
	}
	configs = append(configs, histConfig{
		attribute: "key",
		startYear: 2018, stopYear: 2022,
		edges:         stats.EvenEdges(0, 12, 12),
		labels:        keyLabels,
		reorderCounts: true,
	})
	return configs
}

// BuildHistograms writes one multi-year histogram file per track
// attribute.
func (b *Builder) BuildHistograms() error {
	for _, hc := range histConfigs() {
		if err := b.buildHistogram(hc); err != nil {
			return fmt.Errorf("building %s histogram: %w", hc.attribute, err)
		}
	}
	return nil
}

func (b *Builder) buildHistogram(hc histConfig) error {
	colors, hidden := hc.colors, hc.hidden
	if colors == nil {
		colors = yearColors
	}
	if hidden == nil {
		hidden = yearHidden
	}

	data := AttributeHistogram{
		Labels: hc.labels,
		Data:   map[int]YearHistogram{},
	}

	usedEdges := hc.edges
	for year := hc.startYear; year < hc.stopYear; year++ {
		values, err := b.yearValues(hc.attribute, year)
		if err != nil {
			return err
		}
		edges := hc.edges
		if edges == nil {
			// No configured bins; fit the year's sample.
			edges = stats.AutoEdges(values, 0)
			usedEdges = edges
		}
		counts := stats.Histogram(values, edges)
		density := stats.Density(counts)
		if hc.reorderCounts {
			counts = reorderInts(counts)
			density = reorderFloats(density)
		}
		data.Data[year] = YearHistogram{
			Hist:        counts,
			HistDensity: density,
			Color:       colors[(year-hc.startYear)%len(colors)],
			Hidden:      hidden[(year-hc.startYear)%len(hidden)],
		}
	}
	if data.Labels == nil {
		for _, e := range usedEdges {
			data.Labels = append(data.Labels, e)
		}
	}
	return b.save(HistogramDir, hc.attribute, data)
}

// yearValues reads one attribute from every track released in the
// given year. Release dates are text, so the year bound is a plain
// string comparison, which also admits year-precision dates.
func (b *Builder) yearValues(attribute string, year int) ([]float64, error) {
	frame, err := b.catalog.ToFrame(fmt.Sprintf(`
		SELECT tracks.%s AS value
		FROM tracks LEFT JOIN albums ON tracks.album_id = albums.album_id
		WHERE albums.release_date >= ? AND albums.release_date < ?`, attribute),
		fmt.Sprint(year), fmt.Sprint(year+1))
	if err != nil {
		return nil, err
	}
	return frame.Float("value")
}

// circleOfFifths reorders the chromatic key vocabulary for display.
func circleOfFifths(chromatic []string) []string {
	out := make([]string, len(chromatic))
	for i := range chromatic {
		out[i] = chromatic[(5+7*i)%len(chromatic)]
	}
	return out
}

func reorderInts(chromatic []int) []int {
	out := make([]int, len(chromatic))
	for i := range chromatic {
		out[i] = chromatic[(5+7*i)%len(chromatic)]
	}
	return out
}

func reorderFloats(chromatic []float64) []float64 {
	out := make([]float64, len(chromatic))
	for i := range chromatic {
		out[i] = chromatic[(5+7*i)%len(chromatic)]
	}
	return out
}
