package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// PrintBanner writes a framed title card for the walkthrough.
func PrintBanner(w io.Writer, title, version string) {
	p := termenv.ColorProfile()

	lines := []string{
		"walkthrough " + strings.TrimSpace(version),
		title,
		"type ok / done / problem, or ask anything",
	}
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}

	border := "+" + strings.Repeat("-", width+2) + "+"
	rows := []string{border}
	for _, l := range lines {
		rows = append(rows, "| "+l+strings.Repeat(" ", width-len([]rune(l)))+" |")
	}
	rows = append(rows, border)

	fmt.Fprintln(w)
	for i, row := range rows {
		color := bannerColors[i%len(bannerColors)]
		fmt.Fprintln(w, termenv.String(row).Foreground(p.Color(color)))
	}
	fmt.Fprintln(w)
}
