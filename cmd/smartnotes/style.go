package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/smartnotes/pkg/core"
)

// paletteHex maps the symbolic palette to terminal colors.
var paletteHex = map[core.Color]string{
	core.ColorRed:    "#EF4444",
	core.ColorOrange: "#F97316",
	core.ColorAmber:  "#F59E0B",
	core.ColorYellow: "#EAB308",
	core.ColorLime:   "#84CC16",
	core.ColorGreen:  "#22C55E",
	core.ColorCyan:   "#06B6D4",
	core.ColorBlue:   "#3B82F6",
	core.ColorIndigo: "#6366F1",
	core.ColorViolet: "#8B5CF6",
	core.ColorPink:   "#EC4899",
	core.ColorGray:   "#6B7280",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	pinStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(paletteHex[core.ColorAmber]))
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(paletteHex[core.ColorRed])).Bold(true)
)

func colorStyle(c core.Color) lipgloss.Style {
	hex, ok := paletteHex[c]
	if !ok {
		hex = paletteHex[core.ColorGray]
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// chip renders a category name in its color.
func chip(name string, c core.Color) string {
	return colorStyle(c).Render("[" + name + "]")
}

func categoryColors(categories []core.Category) map[string]core.Color {
	m := make(map[string]core.Color, len(categories))
	for _, c := range categories {
		m[c.Name] = c.Color
	}
	return m
}

func formatTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// renderNoteLine prints one note of a listing.
func renderNoteLine(w io.Writer, n core.Note, colors map[string]core.Color) {
	mark := " "
	if n.IsPinned {
		mark = pinStyle.Render("*")
	}
	chips := make([]string, 0, len(n.Categories))
	for _, name := range n.Categories {
		if name == core.SystemCategory {
			chips = append(chips, systemStyle.Render("["+name+"]"))
			continue
		}
		chips = append(chips, chip(name, colors[name]))
	}
	fmt.Fprintf(w, "%s %s  %s %s  %s\n",
		mark,
		dimStyle.Render(n.ID),
		titleStyle.Render(n.Title),
		strings.Join(chips, " "),
		dimStyle.Render(formatTime(n.UpdatedAt)),
	)
}

// renderNote prints the full note.
func renderNote(w io.Writer, n core.Note, categories []core.Category) {
	colors := categoryColors(categories)
	title := titleStyle.Render(n.Title)
	if n.IsPinned {
		title = pinStyle.Render("* ") + title
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("%s  by %s  updated %s", n.ID, n.Author, formatTime(n.UpdatedAt))))
	if len(n.Categories) > 0 {
		chips := make([]string, 0, len(n.Categories))
		for _, name := range n.Categories {
			chips = append(chips, chip(name, colors[name]))
		}
		fmt.Fprintln(w, strings.Join(chips, " "))
	}
	if n.Summary != "" {
		fmt.Fprintf(w, "\n%s %s\n", titleStyle.Render("Summary:"), n.Summary)
	}
	if n.Content != "" {
		fmt.Fprintf(w, "\n%s\n", n.Content)
	}
}

// renderCategoryLine prints one category of a listing with its count.
func renderCategoryLine(w io.Writer, c core.Category, count int) {
	mark := " "
	if c.IsPinned {
		mark = pinStyle.Render("*")
	}
	fmt.Fprintf(w, "%s %s  %s %s  %d\n", mark, dimStyle.Render(c.ID), chip(c.Name, c.Color), dimStyle.Render(string(c.Color)), count)
}
