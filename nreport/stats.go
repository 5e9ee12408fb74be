package nreport

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muir/ntrack"
)

var statNameStyle = lipgloss.NewStyle().Width(32)

// Stats renders the non-zero startup stats, one per line
func Stats(s *ntrack.Stats) string {
	var b strings.Builder
	for _, st := range ntrack.AllStats() {
		var value string
		if st.IsTimer() {
			d := s.Duration(st)
			if d == 0 {
				continue
			}
			value = d.Round(time.Microsecond).String()
		} else {
			n := s.Count(st)
			if n == 0 {
				continue
			}
			value = fmt.Sprint(n)
		}
		b.WriteString(statNameStyle.Render(st.String()) + " " + value + "\n")
	}
	return b.String()
}
