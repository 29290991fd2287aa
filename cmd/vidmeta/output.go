package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/okorban/vidmeta/internal/search"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

// renderEntity prints one title the way the stats and search commands show it.
func renderEntity(e *search.Entity) {
	header := e.Title
	if e.LatestYear > 0 {
		header = fmt.Sprintf("%s (%d)", e.Title, e.LatestYear)
	}
	fmt.Printf("\n%s\n", colorize(colorBold, header))

	printStatus("Video ID", "%d", e.VideoID)
	if e.TypeName != "" {
		printStatus("Type", "%s", e.TypeName)
	}
	if e.DisplayRuntimeSec > 0 {
		printStatus("Runtime", "%s", search.FormatRuntime(e.DisplayRuntimeSec))
	}
	if e.AvailabilityStartTime != "" {
		if search.IsFutureDate(e.AvailabilityStartTime) {
			printStatus("Coming", "%s", search.FormatDate(e.AvailabilityStartTime))
		} else {
			printStatus("Available since", "%s", search.FormatDate(e.AvailabilityStartTime))
		}
	}
	if e.ContentAdvisory.CertificationValue != "" {
		rating := e.ContentAdvisory.CertificationValue
		if e.ContentAdvisory.I18nReasonsText != "" {
			rating += " (" + e.ContentAdvisory.I18nReasonsText + ")"
		}
		printStatus("Rating", "%s", rating)
	}
	if badges := search.LabelBadges(e.PlaybackBadges); len(badges) > 0 {
		printStatus("Quality", "%s", strings.Join(badges, ", "))
	}
	if len(e.TaglineMessages) > 0 {
		printStatus("Tagline", "%s", e.TaglineMessages[0].Tagline)
	}
	for _, ev := range e.TextEvidence {
		if ev.Text != "" {
			printStatus("Tags", "%s", ev.Text)
			break
		}
	}
	if !e.IsPlayable {
		printWarning("not currently playable")
	}
}

func renderHistory(entries []search.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Println("No searches yet.")
		return
	}
	for _, h := range entries {
		title := h.Title
		if title == "" {
			title = "(unknown title)"
		}
		fmt.Printf("%s  %s\n", colorize(colorCyan, h.ID), title)
	}
}
