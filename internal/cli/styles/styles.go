package styles

import (
	"charm.land/lipgloss/v2"

	"github.com/tracklite/tracklite/internal/config"
	"github.com/tracklite/tracklite/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Status:", "Priority:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Comments", "Activity"

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
)

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Title))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Accent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Success))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Error))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Warning))
}

// StatusBadge renders a colored status marker
func StatusBadge(status models.Status) string {
	switch status {
	case models.StatusDone:
		return SuccessStyle.Render(string(status))
	case models.StatusInProgress:
		return WarningStyle.Render(string(status))
	default:
		return SubtitleStyle.Render(string(status))
	}
}

// PriorityBadge renders a colored priority marker
func PriorityBadge(priority models.Priority) string {
	switch priority {
	case models.PriorityHigh:
		return ErrorStyle.Render(string(priority))
	case models.PriorityMedium:
		return WarningStyle.Render(string(priority))
	default:
		return SubtitleStyle.Render(string(priority))
	}
}

// LabelChip renders a label in its own color
func LabelChip(name, color string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Render("[" + name + "]")
}

func init() {
	// Commands normally call Init with the configured theme; tests and
	// early error paths get the default palette.
	Init(config.DefaultColorScheme())
}
