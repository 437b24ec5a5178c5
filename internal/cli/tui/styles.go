package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary = lipgloss.Color("#7C3AED") // purple
	Accent  = lipgloss.Color("#06B6D4") // cyan
	Success = lipgloss.Color("#10B981") // green
	Danger  = lipgloss.Color("#EF4444") // red
	Muted   = lipgloss.Color("#6B7280") // gray
	Text    = lipgloss.Color("#E5E7EB") // light gray

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			PaddingLeft(1).
			PaddingRight(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1).
			Width(columnWidth)

	FocusedColumnStyle = ColumnStyle.
				BorderForeground(Accent)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827")).
			Background(Accent)

	CarriedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Italic(true)

	DropSlotStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	DateStyle = lipgloss.NewStyle().
			Foreground(Muted)

	TrashStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Foreground(Muted).
			Padding(0, 1)

	TrashActiveStyle = TrashStyle.
				BorderForeground(Danger).
				Foreground(Danger)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Danger).
			Padding(0, 2)

	ToastStyle = lipgloss.NewStyle().
			Foreground(Success).
			PaddingLeft(1)

	ErrorToastStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true).
			PaddingLeft(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(1)
)
