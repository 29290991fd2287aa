package search

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExportJSON renders an entity as indented JSON.
func ExportJSON(e *Entity) (string, error) {
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling entity: %w", err)
	}
	return string(b), nil
}

// ExportMarkdown renders an entity as a shareable Markdown summary.
func ExportMarkdown(e *Entity) string {
	qualities := strings.Join(LabelBadges(e.PlaybackBadges), ", ")
	if qualities == "" {
		qualities = "None"
	}

	available := "No"
	if e.IsAvailable {
		available = "Yes"
	}

	rating := e.ContentAdvisory.CertificationValue
	if rating == "" {
		rating = "N/A"
	}
	board := e.ContentAdvisory.BoardName
	if board == "" {
		board = "N/A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%d)\n\n", e.Title, e.LatestYear)
	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "- **Video ID:** %d\n", e.VideoID)
	fmt.Fprintf(&b, "- **Type:** %s\n", e.TypeName)
	fmt.Fprintf(&b, "- **Runtime:** %s\n", FormatRuntime(e.RuntimeSec))
	fmt.Fprintf(&b, "- **Available:** %s\n", available)
	fmt.Fprintf(&b, "- **Release Date:** %s\n\n", FormatDate(e.AvailabilityStartTime))
	fmt.Fprintf(&b, "## Quality\n%s\n\n", qualities)
	b.WriteString("## Content Advisory\n")
	fmt.Fprintf(&b, "- **Rating:** %s\n", rating)
	fmt.Fprintf(&b, "- **Board:** %s\n", board)
	for _, r := range e.ContentAdvisory.Reasons {
		fmt.Fprintf(&b, "- %s\n", r.Text)
	}
	b.WriteString("\n## Tags\n")
	if len(e.TextEvidence) > 0 {
		b.WriteString(e.TextEvidence[0].Text)
	} else {
		b.WriteString("None")
	}
	b.WriteString("\n")
	return b.String()
}
