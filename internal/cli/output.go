package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// parseFormat validates a --format value
func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// OutputResult contains data to be output
type OutputResult struct {
	FetchedAt     time.Time   `json:"fetched_at"`
	Round         string      `json:"round"`
	Totals        bool        `json:"totals"`
	RoundsLoaded  int         `json:"rounds_loaded"`
	MissingRounds []string    `json:"missing_rounds,omitempty"`
	Rows          []views.Row `json:"rows"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as an aligned table
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	switch {
	case result.Round == team.TotalsRound:
		fmt.Fprintln(w, "Season totals")
	case result.Totals:
		fmt.Fprintf(w, "Season standings after round %s\n", result.Round)
	default:
		fmt.Fprintf(w, "Round %s\n", result.Round)
	}

	if len(result.Rows) == 0 {
		fmt.Fprintln(w, "No rankings found.")
		return nil
	}

	nameWidth, userWidth := len("Team"), len("User")
	for _, row := range result.Rows {
		nameWidth = max(nameWidth, utf8.RuneCountInString(row.Name))
		userWidth = max(userWidth, utf8.RuneCountInString(row.User))
	}

	fmt.Fprintf(w, "\n%4s  %s  %s  %6s\n", "#", pad("Team", nameWidth), pad("User", userWidth), "Points")
	for _, row := range result.Rows {
		marker := ""
		if verbose && row.Tier > 0 {
			marker = fmt.Sprintf("  (tier %d)", row.Tier)
		}
		fmt.Fprintf(w, "%4s  %s  %s  %6d%s\n", row.Position, pad(row.Name, nameWidth), pad(row.User, userWidth), row.Points, marker)
	}

	fmt.Fprintf(w, "\nTotal: %d teams, %d rounds loaded\n", len(result.Rows), result.RoundsLoaded)
	if len(result.MissingRounds) > 0 {
		fmt.Fprintf(w, "Missing rounds: %s\n", strings.Join(result.MissingRounds, ", "))
	}
	return nil
}

// pad right-pads s with spaces to width characters
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
