package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, boss rooms
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// categoryStyles colors rooms by category in tables.
var categoryStyles = map[roomgraph.Category]lipgloss.Style{
	roomgraph.Entrance:   lipgloss.NewStyle().Foreground(colorGreen),
	roomgraph.Boss:       lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
	roomgraph.CorridorNS: lipgloss.NewStyle().Foreground(colorDim),
	roomgraph.CorridorEW: lipgloss.NewStyle().Foreground(colorDim),
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printStats prints build statistics on a single line.
func printStats(rooms, attempts int, cached bool) {
	parts := []string{fmt.Sprintf("%d rooms", rooms)}
	if attempts > 0 {
		parts = append(parts, fmt.Sprintf("%d attempts", attempts))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line + StyleDim.Render(" · ") + statusStyle.Render(status))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Room Table
// =============================================================================

// roomRows formats rooms as table rows: id, template, category, bounds,
// size, doorways (connected/total) and parent.
func roomRows(rooms []dungeon.Room) [][]string {
	rows := make([][]string, 0, len(rooms))
	for _, r := range rooms {
		parent := r.Parent
		if parent == "" {
			parent = "—"
		}
		rows = append(rows, []string{
			r.ID,
			r.TemplateID,
			r.Category.String(),
			r.Bounds.String(),
			strconv.Itoa(r.Bounds.Width()) + "×" + strconv.Itoa(r.Bounds.Height()),
			fmt.Sprintf("%d/%d", countConnected(r.Doorways), len(r.Doorways)),
			parent,
		})
	}
	return rows
}

func countConnected(ds []geom.Doorway) int {
	n := 0
	for _, d := range ds {
		if d.State == geom.Connected {
			n++
		}
	}
	return n
}

// roomTable renders rooms as a bordered table. The row at highlight (if any)
// is emphasized.
func roomTable(rooms []dungeon.Room, highlight int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Room", "Template", "Category", "Bounds", "Size", "Doors", "Parent").
		Rows(roomRows(rooms)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle()
			if row >= 0 && row < len(rooms) {
				if s, ok := categoryStyles[rooms[row].Category]; ok {
					base = s
				}
			}
			if row == highlight {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		}).
		Render()
}

// indent prefixes every line of s with n spaces.
func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+pad)
}
