package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/llehouerou/starchart/internal/chart"
	"github.com/llehouerou/starchart/internal/classify"
)

// LoadFile reads chart inputs from a JSON export. The kind defaults to tags.
func LoadFile(path string) (chart.Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chart.Inputs{}, err
	}
	return Decode(data)
}

// Decode parses chart inputs from JSON.
func Decode(data []byte) (chart.Inputs, error) {
	var in chart.Inputs
	if err := json.Unmarshal(data, &in); err != nil {
		return chart.Inputs{}, fmt.Errorf("parse inputs: %w", err)
	}
	kind, err := classify.ParseSource(string(in.Kind))
	if err != nil {
		return chart.Inputs{}, err
	}
	in.Kind = kind
	return in, nil
}

// FileFetcher serves inputs from one JSON file per listener, named
// <listener>.json inside dir.
type FileFetcher struct {
	dir string
}

// NewFileFetcher creates a FileFetcher reading from dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{dir: dir}
}

var _ chart.Fetcher = (*FileFetcher)(nil)

// Fetch loads <dir>/<listener>.json.
func (f *FileFetcher) Fetch(_ context.Context, listener string) (chart.Inputs, error) {
	if listener == "" || filepath.Base(listener) != listener {
		return chart.Inputs{}, fmt.Errorf("invalid listener name %q", listener)
	}
	in, err := LoadFile(filepath.Join(f.dir, listener+".json"))
	if err != nil {
		return chart.Inputs{}, err
	}
	if in.Listener == "" {
		in.Listener = listener
	}
	return in, nil
}

// Listeners returns the listener names of the input files in dir, sorted.
func (f *FileFetcher) Listeners() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, strings.TrimSuffix(filepath.Base(p), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// FetcherFunc adapts a function to chart.Fetcher.
type FetcherFunc func(ctx context.Context, listener string) (chart.Inputs, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, listener string) (chart.Inputs, error) {
	return f(ctx, listener)
}

// Static returns a fetcher that always serves in.
func Static(in chart.Inputs) FetcherFunc {
	return func(_ context.Context, listener string) (chart.Inputs, error) {
		if in.Listener == "" {
			in.Listener = listener
		}
		return in, nil
	}
}
