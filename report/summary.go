package report

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// WriteSummary renders a run summary as the plain-text report kept next to
// the curated corpus.
func WriteSummary(w io.Writer, summary RunSummary, at time.Time) error {
	var total int
	for _, count := range summary.ByStatus {
		total += count
	}

	if _, err := fmt.Fprintf(w, "Curation run %s\n", summary.RunID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Completed: %s\n", at.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Documents: %d\n\n", total)

	fmt.Fprintln(w, "Status:")
	for _, status := range sortedKeys(summary.ByStatus) {
		fmt.Fprintf(w, "  %-10s %d\n", status, summary.ByStatus[status])
	}

	if len(summary.ByLabel) > 0 {
		fmt.Fprintln(w, "\nCurated by label:")
		for _, lc := range summary.ByLabel {
			fmt.Fprintf(w, "  %s/%s  %d\n", lc.Period, lc.Genre, lc.Count)
		}
	}

	if len(summary.ByReason) > 0 {
		fmt.Fprintln(w, "\nRejections:")
		for _, reason := range sortedKeys(summary.ByReason) {
			fmt.Fprintf(w, "  %-15s %d\n", reason, summary.ByReason[reason])
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
