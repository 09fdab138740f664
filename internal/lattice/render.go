package lattice

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4466"))
)

// Render draws the current buffer one row per line, "+" for up spins and
// "-" for down spins. Colour is applied only when the output supports it.
func Render(l *Lattice) string {
	var b strings.Builder
	up := upStyle.Render("+")
	down := downStyle.Render("-")
	for y := 0; y < l.n; y++ {
		for x := 0; x < l.n; x++ {
			if l.cur[y*l.n+x] < 0 {
				b.WriteString(down)
			} else {
				b.WriteString(up)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
