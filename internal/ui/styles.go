package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette colours, set by applyTheme
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
)

// Component styles, rebuilt whenever the palette changes
var (
	StyleTitle        lipgloss.Style
	StyleSubtitle     lipgloss.Style
	StyleText         lipgloss.Style
	StyleTextMuted    lipgloss.Style
	StyleTextDim      lipgloss.Style
	StyleFocused      lipgloss.Style
	StyleUnselected   lipgloss.Style
	StyleKindActive   lipgloss.Style
	StyleKind         lipgloss.Style
	StyleSuccess      lipgloss.Style
	StyleWarning      lipgloss.Style
	StyleError        lipgloss.Style
	StyleInfo         lipgloss.Style
	StyleModal        lipgloss.Style
	StyleMetadata     lipgloss.Style
	StyleFormLabel    lipgloss.Style
	StyleFormHelp     lipgloss.Style
	StyleContent      lipgloss.Style
	StyleScroll       lipgloss.Style
	StyleScrollActive lipgloss.Style
)

func init() {
	applyTheme(true)
}

// initializeColors picks the palette for a preview style: "dark" and "light"
// force one, anything else follows the terminal background
func initializeColors(style string) {
	if env := os.Getenv("GLAMOUR_STYLE"); env != "" {
		style = env
	}
	switch strings.ToLower(style) {
	case "dark":
		applyTheme(true)
	case "light":
		applyTheme(false)
	default:
		applyTheme(lipgloss.HasDarkBackground())
	}
}

func applyTheme(dark bool) {
	if dark {
		ColorPrimary = lipgloss.Color("205")
		ColorSecondary = lipgloss.Color("33")
		ColorAccent = lipgloss.Color("214")

		ColorSuccess = lipgloss.Color("10")
		ColorWarning = lipgloss.Color("11")
		ColorError = lipgloss.Color("9")
		ColorInfo = lipgloss.Color("12")

		ColorText = lipgloss.Color("252")
		ColorTextMuted = lipgloss.Color("244")
		ColorTextDim = lipgloss.Color("240")
		ColorBorder = lipgloss.Color("238")
		ColorSurface = lipgloss.Color("236")
	} else {
		ColorPrimary = lipgloss.Color("125")
		ColorSecondary = lipgloss.Color("24")
		ColorAccent = lipgloss.Color("130")

		ColorSuccess = lipgloss.Color("22")
		ColorWarning = lipgloss.Color("136")
		ColorError = lipgloss.Color("160")
		ColorInfo = lipgloss.Color("24")

		ColorText = lipgloss.Color("232")
		ColorTextMuted = lipgloss.Color("240")
		ColorTextDim = lipgloss.Color("244")
		ColorBorder = lipgloss.Color("248")
		ColorSurface = lipgloss.Color("254")
	}
	buildStyles()
}

func buildStyles() {
	StyleTitle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Padding(0, 1)
	StyleSubtitle = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Padding(0, 1)
	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorSecondary).
		Bold(true).
		Padding(0, 1)
	StyleUnselected = lipgloss.NewStyle().Foreground(ColorTextMuted).Padding(0, 1)

	StyleKindActive = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)
	StyleKind = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorSurface).
		Padding(0, 2).
		MarginRight(1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Padding(0, 1)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true).Padding(0, 1)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true).Padding(0, 1)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true).Padding(0, 1)

	StyleModal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	StyleMetadata = lipgloss.NewStyle().Foreground(ColorTextDim).Padding(0, 1)
	StyleFormLabel = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleFormHelp = lipgloss.NewStyle().Foreground(ColorTextDim).Italic(true).Padding(0, 3)

	StyleContent = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	StyleScroll = lipgloss.NewStyle().Foreground(ColorTextDim).Align(lipgloss.Center)
	StyleScrollActive = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Align(lipgloss.Center)
}

func CreateHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

func CreateMetadata(text string) string {
	return StyleMetadata.Render(text)
}

// CreateContextualHelp renders the essential keys on one row, and the
// additional rows only when expanded
func CreateContextualHelp(essential []string, additional []string, showExpanded bool, width int) string {
	firstRow := essential
	if len(additional) > 0 && !showExpanded {
		firstRow = append(append([]string{}, essential...), "Ctrl+g for more")
	}

	lines := []string{truncate(strings.Join(firstRow, " • "), width)}
	if showExpanded {
		for _, row := range additional {
			lines = append(lines, truncate(row, width))
		}
	}
	return StyleTextDim.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if width > 7 && len(s) > width-4 {
		return s[:width-7] + "..."
	}
	return s
}

func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateKindTabs renders the prompt kind selector with active highlighted
func CreateKindTabs(labels []string, active int) string {
	tabs := make([]string, len(labels))
	for i, label := range labels {
		if i == active {
			tabs[i] = StyleKindActive.Render(label)
		} else {
			tabs[i] = StyleKind.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, tabs...)
}

func CenterModal(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

func CreateScrollIndicators(canScrollUp, canScrollDown bool) (string, string) {
	top := StyleScroll.Render("─────────")
	if canScrollUp {
		top = StyleScrollActive.Render("...")
	}
	bottom := StyleScroll.Render("─────────")
	if canScrollDown {
		bottom = StyleScrollActive.Render("...")
	}
	return top, bottom
}
