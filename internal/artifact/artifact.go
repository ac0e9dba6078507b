// Package artifact renders the derived stores into the JSON files the
// chart frontend consumes.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/lmdiaz/escena/internal/store"
)

// DatasetDir is the subdirectory, under the output dir, holding the
// per-artist dataset files.
const DatasetDir = "dataset"

// Builder writes chart artifacts from the two stores into an output
// directory.
type Builder struct {
	catalog   *store.Store
	analytics *store.Store
	outDir    string

	Verbose bool
}

func New(catalog, analytics *store.Store, outDir string) *Builder {
	return &Builder{catalog: catalog, analytics: analytics, outDir: outDir}
}

// Names lists every artifact job, in build order.
func Names() []string {
	return []string{
		"datasets", "index", "histograms",
		"releaseSeries", "fridaySeries", "tonalitySeries",
		"genresDist", "followersDist",
	}
}

// Build runs one artifact job by name.
func (b *Builder) Build(name string) error {
	switch name {
	case "datasets":
		return b.BuildDatasets()
	case "index":
		return b.BuildIndex()
	case "histograms":
		return b.BuildHistograms()
	case "releaseSeries":
		return b.BuildReleaseSeries()
	case "fridaySeries":
		return b.BuildFridaySeries()
	case "tonalitySeries":
		return b.BuildTonalitySeries()
	case "genresDist":
		return b.BuildGenresDist()
	case "followersDist":
		return b.BuildFollowersDist()
	default:
		return fmt.Errorf("unknown artifact %q", name)
	}
}

// save writes v as indented JSON to <outDir>/<subdir>/<name>.json.
func (b *Builder) save(subdir, name string, v any) error {
	dir := filepath.Join(b.outDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(dir, name+".json")
	if b.Verbose {
		fmt.Printf("writing %s\n", path)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
