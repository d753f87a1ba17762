// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/starchart/internal/guard"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Chart operations
	OpChartCompute Op = "compute chart"
	OpChartRefresh Op = "refresh chart"
	OpChartLoad    Op = "load chart"
	OpChartList    Op = "list charts"
	OpChartDelete  Op = "delete chart"

	// Input operations
	OpInputsLoad  Op = "load listening data"
	OpInputsFetch Op = "fetch listening data"

	// Table operations
	OpTaxonomyLoad  Op = "load genre taxonomy"
	OpPositionsLoad Op = "load position table"

	// Last.fm
	OpLastfmAuth Op = "authenticate with Last.fm"

	// Metrics
	OpMetricsServe Op = "serve metrics"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	if msg := Insufficient(err); msg != "" {
		return msg
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	if msg := Insufficient(err); msg != "" {
		return fmt.Sprintf("%s: %s", context, msg)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Insufficient explains an insufficient-data error in listener terms, or
// returns "" for any other error.
func Insufficient(err error) string {
	var gerr *guard.Error
	if !errors.As(err, &gerr) {
		return ""
	}

	switch gerr.Stage {
	case guard.StageRaw:
		return fmt.Sprintf("Not enough listening history yet (%d artists, %d tracks). "+
			"Keep listening and try again later.", gerr.Artists, gerr.Tracks)
	case guard.StageAggregated:
		return fmt.Sprintf("Only %d distinct artists found. "+
			"A chart needs a few more artists to work with.", gerr.Artists)
	case guard.StageGrouped:
		return fmt.Sprintf("Your %d artists only cover %d genres. "+
			"Try exploring a little more widely.", gerr.Artists, gerr.Genres)
	case guard.StageAssigned:
		return fmt.Sprintf("Your %d artists across %d genres could not fill enough chart positions.",
			gerr.Artists, gerr.Genres)
	default:
		return "Not enough listening data to build a chart."
	}
}
