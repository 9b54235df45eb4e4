// Package ui holds the terminal styling used by the tastemaker CLI.
//
// A [Palette] names five [lipgloss] styles (title, success, error, warning, help) and renders recommendation
// lists, pipeline progress lines and playlist summaries with them. [Default] returns the shared palette.
package ui
