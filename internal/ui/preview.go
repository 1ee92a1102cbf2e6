package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// NewPreviewRenderer creates the glamour renderer used for prompt previews.
// style is a glamour standard style name or "auto", which picks dark or light
// from the terminal background. GLAMOUR_STYLE overrides both.
func NewPreviewRenderer(style string, wordWrap int) (*glamour.TermRenderer, error) {
	if env := os.Getenv("GLAMOUR_STYLE"); env != "" {
		style = env
	}
	if wordWrap <= 0 {
		wordWrap = 80
	}

	style = strings.ToLower(strings.TrimSpace(style))
	if style != "" && style != "auto" {
		opts := []glamour.TermRendererOption{
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		}
		if style == "notty" || style == "ascii" {
			opts = append(opts, glamour.WithColorProfile(termenv.Ascii))
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create preview renderer: %w", err)
		}
		return r, nil
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch {
	case profile != termenv.TrueColor && profile != termenv.ANSI256:
		styleOption = glamour.WithAutoStyle()
	case lipgloss.HasDarkBackground():
		styleOption = glamour.WithStandardStyle("dark")
	default:
		styleOption = glamour.WithStandardStyle("light")
	}

	r, err := glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create preview renderer: %w", err)
	}
	return r, nil
}
