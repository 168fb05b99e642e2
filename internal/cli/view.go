package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/layout"
	"github.com/matzehuels/dungeonforge/pkg/tilemap"
)

var (
	viewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	viewLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	viewMapStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "view <layout.json>",
		Short: "Browse the rooms of a built layout",
		Long: `View opens an interactive browser over a layout written by build: a room
table on top and the selected room, with its doorways sealed or opened, below.
Press m to toggle the whole-dungeon map.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(l.Rooms) == 0 {
				printWarning("%s has no rooms", args[0])
				return nil
			}
			if plain {
				fmt.Println(StyleTitle.Render(fmt.Sprintf("%s / %s", l.Level, l.Graph)))
				fmt.Println(roomTable(l.Rooms, -1))
				return nil
			}
			_, err = tea.NewProgram(NewRoomBrowser(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the room table and exit")
	return cmd
}

// =============================================================================
// RoomBrowser - interactive layout viewer
// =============================================================================

// RoomBrowser is the bubbletea model behind the view command.
type RoomBrowser struct {
	Layout  *layout.Layout
	Cursor  int
	ShowMap bool
	Height  int
	Offset  int
}

// NewRoomBrowser creates a browser positioned on the first room.
func NewRoomBrowser(l *layout.Layout) RoomBrowser {
	return RoomBrowser{Layout: l, Height: 12}
}

func (m RoomBrowser) Init() tea.Cmd { return nil }

func (m RoomBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layout.Rooms)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "m":
			m.ShowMap = !m.ShowMap
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height/3, 3)
	}
	return m, nil
}

func (m RoomBrowser) View() string {
	var b strings.Builder
	l := m.Layout

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s / %s", l.Level, l.Graph)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  seed %d · %d rooms · %s", l.Seed, len(l.Rooms), l.Bounds)))
	b.WriteString("\n")
	b.WriteString(viewHelpStyle.Render("↑/↓ select  m map  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(l.Rooms))
	b.WriteString(roomTable(l.Rooms[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n")

	if m.ShowMap {
		b.WriteString(viewMapStyle.Render(tilemap.Stamp(l.RoomMap()).String()))
		b.WriteString("\n")
		return b.String()
	}

	r := &l.Rooms[m.Cursor]
	b.WriteString(roomDetail(r))
	return b.String()
}

// roomDetail renders one room: its doorways and a sealed tile preview.
func roomDetail(r *dungeon.Room) string {
	var b strings.Builder
	b.WriteString(viewLabelStyle.Render("room") + StyleValue.Render(r.ID) + "\n")
	b.WriteString(viewLabelStyle.Render("offset") + StyleValue.Render(r.Offset().String()) + "\n")
	for i, d := range r.Doorways {
		label := ""
		if i == 0 {
			label = "doorways"
		}
		b.WriteString(viewLabelStyle.Render(label) +
			StyleValue.Render(fmt.Sprintf("%-5s %s", d.Orientation, d.Position)) +
			StyleDim.Render(" "+d.State.String()) + "\n")
	}

	local := tilemap.RoomLayer(r)
	tilemap.BlockUnusedDoorways(r, local)
	b.WriteString(viewMapStyle.Render(local.String()))
	b.WriteString("\n")
	return b.String()
}
