package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"jyu-rooms/i18n"
	"jyu-rooms/rooms"

	"golang.org/x/term"
)

const minCategoryWidth = 12

// TerminalWidth reports the width of f, or 0 when f is not a terminal.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// Text writes cards as a table. width, when positive, truncates the
// category column so rows fit the terminal.
func Text(w io.Writer, cards []Card, lang i18n.Lang, compact bool, width int) error {
	text := i18n.For(lang)
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, text.NoSpaces)
		return err
	}

	if compact {
		parts := make([]string, 0, len(cards))
		for _, card := range cards {
			parts = append(parts, fmt.Sprintf("%s %s", card.Label, statusMark(card.Availability)))
		}
		_, err := fmt.Fprintln(w, strings.Join(parts, " | "))
		return err
	}

	categoryWidth := 0
	if width > 0 {
		// label, status, capacity and area columns take roughly 48 cells.
		categoryWidth = width - 48
		if categoryWidth < minCategoryWidth {
			categoryWidth = minCategoryWidth
		}
	}

	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "ROOM\tSTATUS\tCAPACITY\tAREA\tCATEGORY")
	for _, card := range cards {
		label := card.Label
		if card.Name != "" {
			label += " (" + card.Name + ")"
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%dm²\t%s\n",
			label,
			statusMark(card.Availability),
			card.Capacity,
			card.Area,
			truncate(card.Category, categoryWidth),
		)
	}
	return writer.Flush()
}

func statusMark(a rooms.Availability) string {
	switch a {
	case rooms.Available:
		return "✓"
	case rooms.Unavailable:
		return "✗"
	}
	return "?"
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
