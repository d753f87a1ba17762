//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/llehouerou/starchart/internal/guard"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpChartCompute,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpChartCompute,
			err:      errors.New("taxonomy missing"),
			expected: "Failed to compute chart: taxonomy missing",
		},
		{
			name:     "fetch operation",
			op:       OpInputsFetch,
			err:      errors.New("network error"),
			expected: "Failed to fetch listening data: network error",
		},
		{
			name:     "insufficient data uses guidance",
			op:       OpChartCompute,
			err:      &guard.Error{Stage: guard.StageRaw, Artists: 3, Tracks: 2},
			expected: "Not enough listening history yet (3 artists, 2 tracks). Keep listening and try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpChartRefresh,
			context:  "alice",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpChartRefresh,
			context:  "alice",
			err:      errors.New("rate limited"),
			expected: "Failed to refresh chart 'alice': rate limited",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpChartRefresh,
			context:  "",
			err:      errors.New("rate limited"),
			expected: "Failed to refresh chart: rate limited",
		},
		{
			name:     "taxonomy load with path context",
			op:       OpTaxonomyLoad,
			context:  "/etc/starchart/genres.toml",
			err:      errors.New("file not found"),
			expected: "Failed to load genre taxonomy '/etc/starchart/genres.toml': file not found",
		},
		{
			name:     "insufficient data with context",
			op:       OpChartRefresh,
			context:  "bob",
			err:      fmt.Errorf("compute: %w", &guard.Error{Stage: guard.StageGrouped, Artists: 8, Genres: 2}),
			expected: "bob: Your 8 artists only cover 2 genres. Try exploring a little more widely.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestInsufficient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"raw", &guard.Error{Stage: guard.StageRaw, Artists: 1, Tracks: 4}, "(1 artists, 4 tracks)"},
		{"aggregated", &guard.Error{Stage: guard.StageAggregated, Artists: 4}, "Only 4 distinct artists"},
		{"grouped", &guard.Error{Stage: guard.StageGrouped, Artists: 9, Genres: 1}, "only cover 1 genres"},
		{"assigned", &guard.Error{Stage: guard.StageAssigned, Artists: 6, Genres: 3}, "could not fill"},
		{"unknown stage", &guard.Error{Stage: guard.Stage(7)}, "Not enough listening data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Insufficient(tt.err)
			if !strings.Contains(result, tt.contains) {
				t.Errorf("Insufficient(%v) = %q, want it to contain %q", tt.err, result, tt.contains)
			}
		})
	}

	if got := Insufficient(errors.New("other")); got != "" {
		t.Errorf("Insufficient(other) = %q, want empty", got)
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpChartCompute, OpChartRefresh, OpChartLoad, OpChartList, OpChartDelete,
		OpInputsLoad, OpInputsFetch,
		OpTaxonomyLoad, OpPositionsLoad,
		OpLastfmAuth,
		OpMetricsServe,
		OpConfigLoad, OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			result := Format(op, testErr)
			expected := "Failed to " + string(op) + ": test error"
			if result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
