package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` ___ __   ____ _  ___  `, "#818cf8"},
	{`/ __|\ \ / / _' |/ _ \ `, "#a78bfa"},
	{`\__ \ \ V / (_| | (_) |`, "#c084fc"},
	{`|___/  \_/ \__, |\___/ `, "#e879f9"},
	{`            __/ |      `, "#f472b6"},
	{`           |___/       `, "#fb7185"},
}

// PrintBanner writes the svgo banner and version to w using profile for colors.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  svgo "+version).Bold())
	fmt.Fprintln(w)
}

// Alarm paints text in the failure color (ANSI red).
func Alarm(p termenv.Profile, text string) string {
	return p.String(text).Foreground(p.Color("1")).String()
}
