package artifact

import (
	"math"

	"github.com/lmdiaz/escena/internal/stats"
)

// followerColors shades one color band per decade of followers.
var followerColors = []string{
	"#f42d3c", "#e22735", "#d0212d", "#bf1b26", "#ae161f",
	"#9d1018", "#8d0912", "#7d040a", "#6d0000",
}

// FollowersDist is the log-scale follower-count histogram.
type FollowersDist struct {
	Labels []float64     `json:"labels"`
	Data   FollowersData `json:"data"`
}

type FollowersData struct {
	Hist        []int     `json:"hist"`
	HistDensity []float64 `json:"hist_density"`
	Color       []string  `json:"color"`
}

// BuildFollowersDist writes followersDist.json, binning artist
// follower counts on a near-logarithmic scale up to ten million.
func (b *Builder) BuildFollowersDist() error {
	edges := followerEdges()

	frame, err := b.catalog.ToFrame("SELECT followers FROM artists")
	if err != nil {
		return err
	}
	values, err := frame.Float("followers")
	if err != nil {
		return err
	}

	counts := stats.Histogram(values, edges)
	return b.save("", "followersDist", FollowersDist{
		Labels: edges,
		Data: FollowersData{
			Hist:        counts,
			HistDensity: stats.Density(counts),
			Color:       followerBinColors(edges),
		},
	})
}

// followerEdges samples ten bins per decade up to just past ten
// million followers.
func followerEdges() []float64 {
	return stats.LogEdges(10, 7.3)
}

// followerBinColors assigns each bin the color of its decade.
func followerBinColors(edges []float64) []string {
	colors := make([]string, 0, len(edges)-1)
	band := 0
	for _, e := range edges[:len(edges)-1] {
		for band+1 < len(followerColors) && e >= math.Pow(10, float64(band+1)) {
			band++
		}
		colors = append(colors, followerColors[band])
	}
	return colors
}
