package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/todo/internal/models"
)

// Color constants for the todo TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // active borders, selected card
	ColorAccentBright = "#A78BFA" // headers, focused field

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"

	// Priority Colors
	ColorPriorityLow    = "#87CEEB" // skyblue
	ColorPriorityNormal = "#FFA500" // orange
	ColorPriorityHigh   = "#FF6347" // tomato
	ColorCompleted      = "#C0C0C0" // silver
)

// PriorityColor returns the card colour for p
func PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityLow:
		return lipgloss.Color(ColorPriorityLow)
	case models.PriorityHigh:
		return lipgloss.Color(ColorPriorityHigh)
	default:
		return lipgloss.Color(ColorPriorityNormal)
	}
}

// cardColor is silver for completed tasks, the priority colour otherwise
func cardColor(t models.Task) lipgloss.Color {
	if t.Completed {
		return lipgloss.Color(ColorCompleted)
	}
	return PriorityColor(t.Priority)
}
