package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(12)
	valueStyle   = lipgloss.NewStyle()
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
)

// field is one label/value line of a summary box.
type field struct {
	label string
	value any
}

// box renders a titled summary panel.
func box(title string, fields ...field) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString(valueStyle.Render(fmt.Sprint(f.value)))
	}
	return boxStyle.Render(b.String())
}
