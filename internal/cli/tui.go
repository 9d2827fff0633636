package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/slideslot/pkg/occupancy"
	"github.com/matzehuels/slideslot/pkg/scan"
	"github.com/matzehuels/slideslot/pkg/slot"
)

const (
	cellWidth  = 22
	cellHeight = 4
)

// Browser styles
var (
	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Height(cellHeight).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	cellTakenStyle = cellStyle.BorderForeground(colorCyan)
	cellNotedStyle = cellStyle.BorderForeground(colorYellow)
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Key Bindings
// =============================================================================

type browserKeys struct {
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Quit}
}

func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.First, k.Last}, {k.Quit}}
}

var defaultBrowserKeys = browserKeys{
	Prev:  key.NewBinding(key.WithKeys("left", "h", "up", "k"), key.WithHelp("←", "previous slide")),
	Next:  key.NewBinding(key.WithKeys("right", "l", "down", "j"), key.WithHelp("→", "next slide")),
	First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// SlideBrowserModel - Interactive slide occupancy browser
// =============================================================================

// SlideBrowserModel is the bubbletea model for browsing scanned slides one
// at a time.
type SlideBrowserModel struct {
	Slides  int
	Current int

	pictures map[int][]scan.Observation
	table    *occupancy.Table
	keys     browserKeys
	help     help.Model
}

// NewSlideBrowserModel creates a browser over slides 1..slides.
func NewSlideBrowserModel(slides int, obs []scan.Observation, table *occupancy.Table) SlideBrowserModel {
	bySlide := make(map[int][]scan.Observation)
	for _, o := range obs {
		bySlide[o.Picture.Slide] = append(bySlide[o.Picture.Slide], o)
	}
	return SlideBrowserModel{
		Slides:   slides,
		Current:  1,
		pictures: bySlide,
		table:    table,
		keys:     defaultBrowserKeys,
		help:     help.New(),
	}
}

func (m SlideBrowserModel) Init() tea.Cmd {
	return nil
}

func (m SlideBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			if m.Current > 1 {
				m.Current--
			}
		case key.Matches(msg, m.keys.Next):
			if m.Current < m.Slides {
				m.Current++
			}
		case key.Matches(msg, m.keys.First):
			m.Current = 1
		case key.Matches(msg, m.keys.Last):
			m.Current = max(m.Slides, 1)
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m SlideBrowserModel) View() string {
	var b strings.Builder

	if m.Slides == 0 {
		b.WriteString(StyleTitle.Render("Empty deck"))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Slide %d", m.Current)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf(" of %d", m.Slides)))
	b.WriteString("\n\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.cell(slot.QuadrantTopLeft), m.cell(slot.QuadrantTopRight))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.cell(slot.QuadrantBottomLeft), m.cell(slot.QuadrantBottomRight))
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, top, bottom))
	b.WriteString("\n\n")

	free := m.table.AvailableCount(m.Current)
	b.WriteString(styleFree.Render(fmt.Sprintf("%d of %d slots free", free, slot.Count)))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// cell renders one quadrant of the current slide with the names of the
// pictures anchored in it.
func (m SlideBrowserModel) cell(q slot.Quadrant) string {
	var names []string
	for _, o := range m.pictures[m.Current] {
		if o.Quadrant == q {
			name := o.Picture.Name
			if name == "" {
				name = "picture"
			}
			names = append(names, name)
		}
	}

	label := listDimStyle.Render(q.String())
	style := cellStyle
	switch {
	case len(names) > 0 && q == slot.QuadrantTopLeft:
		style = cellNotedStyle
		label = styleNoted.Render(q.String() + " (noted)")
	case len(names) > 0:
		style = cellTakenStyle
		label = StyleHighlight.Render(q.String())
	}

	body := label
	if len(names) > 0 {
		body += "\n" + StyleValue.Render(strings.Join(names, "\n"))
	}
	return style.Render(body)
}
