// Package tui provides the interactive terminal form for custseg.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles, errors
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - section headers
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - focused control
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - prediction
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorLabel     = lipgloss.Color("#a8dadc") // Label color
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBgAlt     = lipgloss.Color("#2d3436") // Alt background
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// Sidebar styles
var (
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder).
			Padding(1, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Background(ColorBg).
				Padding(0, 1).
				MarginBottom(1)

	ControlLabelStyle = lipgloss.NewStyle().
				Foreground(ColorLabel)

	ControlLabelFocusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent)

	ControlValueStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				PaddingLeft(2)

	ControlValueFocusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Background(ColorBgAlt).
				PaddingLeft(2)

	ScrollHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// Main area styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	ExpanderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	ReviewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBgAlt).
			Padding(0, 2)

	ButtonFocusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBg).
				Background(ColorAccent).
				Padding(0, 2)
)

// Result styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(0, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ErrorDetailStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorPrimary).
				PaddingLeft(1)

	StaleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// Content area style
var ContentStyle = lipgloss.NewStyle().
	Padding(1, 2)
