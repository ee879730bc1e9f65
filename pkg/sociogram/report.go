package sociogram

import (
	"fmt"
	"io"
	"strings"
)

// DefaultTopN is how many popular nodes the report lists.
const DefaultTopN = 5

// Report section headers. Downstream consumers parse these, so they must not
// change.
const (
	headerPopular  = "Popular students (most chosen):"
	headerIsolated = "Isolated students (no connections):"
	headerClusters = "Clusters in the class:"
)

// ReportFilename is the suggested name for a downloaded report.
const ReportFilename = "sociogram_report.txt"

// Report renders r as plain text. Lines are separated by "\n" and the text
// has no trailing newline. Every section header is present even when the
// section is empty:
//
//	Popular students (most chosen):
//	- C: chosen 2 times
//	- B: chosen 1 times
//
//	Isolated students (no connections):
//	- D
//
//	Clusters in the class:
//	- Cluster 1: A, B, C
//	- Cluster 2: D
func Report(r Result) string {
	return ReportTop(r, DefaultTopN)
}

// ReportTop is [Report] with a custom length for the popularity section.
// A top of zero or less lists every node.
func ReportTop(r Result, top int) string {
	if top <= 0 {
		top = -1
	}
	lines := []string{headerPopular}
	for _, p := range r.Top(top) {
		lines = append(lines, fmt.Sprintf("- %s: chosen %d times", p.Node, p.InDegree))
	}

	lines = append(lines, "\n"+headerIsolated)
	for _, id := range r.Isolated {
		lines = append(lines, "- "+id)
	}

	lines = append(lines, "\n"+headerClusters)
	for i, c := range r.Clusters {
		lines = append(lines, fmt.Sprintf("- Cluster %d: %s", i+1, strings.Join(c, ", ")))
	}

	return strings.Join(lines, "\n")
}

// WriteReport writes [Report] output to w.
func WriteReport(w io.Writer, r Result) error {
	_, err := io.WriteString(w, Report(r))
	return err
}
