package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/occupancy"
	"github.com/matzehuels/spanstack/pkg/stack"
)

// Editor styles
var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	editFieldStyle    = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("238"))
	editBufferStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorCyan)
)

// previewPalette colors the per-key occupancy bars in the preview pane.
var previewPalette = []lipgloss.Color{
	lipgloss.Color("36"), lipgloss.Color("35"), lipgloss.Color("220"),
	lipgloss.Color("75"), lipgloss.Color("167"), lipgloss.Color("135"),
	lipgloss.Color("208"), lipgloss.Color("114"),
}

// recomputeDelay is how long the editor waits after the last edit before
// recomputing the layout. Typing inside the window never triggers work.
const recomputeDelay = 300 * time.Millisecond

// editorFields indexes the three editable columns of a row.
const (
	fieldID = iota
	fieldStart
	fieldEnd
	fieldCount
)

// =============================================================================
// EditorModel - Interactive interval editing with live preview
// =============================================================================

// editorRow is one editable interval line. Values stay raw strings so the
// user can type through invalid intermediate states.
type editorRow struct {
	id    string
	start string
	end   string
}

func (r editorRow) field(i int) string {
	switch i {
	case fieldID:
		return r.id
	case fieldStart:
		return r.start
	default:
		return r.end
	}
}

func (r *editorRow) setField(i int, v string) {
	switch i {
	case fieldID:
		r.id = v
	case fieldStart:
		r.start = v
	default:
		r.end = v
	}
}

// recomputeMsg fires when the debounce window has elapsed. The sequence
// number discards ticks that were superseded by a later edit.
type recomputeMsg struct {
	seq int
}

// EditorModel is the bubbletea model for the interval editor.
type EditorModel struct {
	Path string
	Rows []editorRow

	cursor  int  // selected row
	field   int  // selected column
	editing bool // in-place field editing active
	buffer  string

	seq     int // debounce sequence, bumped on every mutation
	dirty   bool
	layout  *stack.Layout
	rowErrs []interval.RowError
	status  string
	width   int
	height  int
}

// NewEditorModel creates an editor over the given rows. The initial layout
// is computed on Init rather than here so startup stays snappy.
func NewEditorModel(path string, rows []editorRow) EditorModel {
	return EditorModel{
		Path:   path,
		Rows:   rows,
		width:  80,
		height: 24,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return m.scheduleRecompute()
}

// scheduleRecompute arms the debounce timer for the current sequence.
func (m EditorModel) scheduleRecompute() tea.Cmd {
	seq := m.seq
	return tea.Tick(recomputeDelay, func(time.Time) tea.Msg {
		return recomputeMsg{seq: seq}
	})
}

// touched bumps the sequence after a mutation and arms a fresh timer.
func (m *EditorModel) touched() tea.Cmd {
	m.seq++
	m.dirty = true
	m.status = ""
	return m.scheduleRecompute()
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recomputeMsg:
		if msg.seq != m.seq {
			return m, nil // superseded by a later edit
		}
		m.recompute()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

// updateBrowsing handles keys while navigating rows.
func (m EditorModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.Rows)-1 {
			m.cursor++
		}
	case "left", "h":
		if m.field > 0 {
			m.field--
		}
	case "right", "l", "tab":
		if m.field < fieldCount-1 {
			m.field++
		} else {
			m.field = 0
		}
	case "enter":
		if len(m.Rows) > 0 {
			m.editing = true
			m.buffer = m.Rows[m.cursor].field(m.field)
		}
	case "a":
		m.Rows = append(m.Rows, editorRow{})
		m.cursor = len(m.Rows) - 1
		m.field = fieldID
		m.editing = true
		m.buffer = ""
		return m, m.touched()
	case "d":
		if len(m.Rows) > 0 {
			m.Rows = append(m.Rows[:m.cursor], m.Rows[m.cursor+1:]...)
			if m.cursor >= len(m.Rows) && m.cursor > 0 {
				m.cursor--
			}
			return m, m.touched()
		}
	case "s":
		if err := saveRows(m.Path, m.Rows); err != nil {
			m.status = editErrorStyle.Render(fmt.Sprintf("save failed: %v", err))
		} else {
			m.dirty = false
			m.status = StyleSuccess.Render(fmt.Sprintf("saved %s", m.Path))
		}
	}
	return m, nil
}

// updateEditing handles keys while a field is being edited in place.
func (m EditorModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.buffer = ""
		return m, nil
	case "enter":
		m.Rows[m.cursor].setField(m.field, strings.TrimSpace(m.buffer))
		m.editing = false
		m.buffer = ""
		return m, m.touched()
	case "tab":
		m.Rows[m.cursor].setField(m.field, strings.TrimSpace(m.buffer))
		m.field = (m.field + 1) % fieldCount
		m.buffer = m.Rows[m.cursor].field(m.field)
		return m, m.touched()
	case "backspace":
		if len(m.buffer) > 0 {
			m.buffer = m.buffer[:len(m.buffer)-1]
		}
		return m, nil
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.buffer += msg.String()
		}
		return m, nil
	}
}

// recompute runs the core pipeline on the current rows and stores either a
// layout or the row errors. No caching here: the editor works on data too
// small for it to matter.
func (m *EditorModel) recompute() {
	rows := make([]interval.RawRow, len(m.Rows))
	for i, r := range m.Rows {
		rows[i] = interval.RawRow{
			interval.ColID:    r.id,
			interval.ColStart: r.start,
			interval.ColEnd:   r.end,
		}
	}

	intervals, rowErrs := interval.Validate(rows)
	if len(rowErrs) > 0 {
		m.layout = nil
		m.rowErrs = rowErrs
		return
	}
	m.rowErrs = nil
	if len(intervals) == 0 {
		m.layout = nil
		return
	}

	grid, err := occupancy.Build(intervals)
	if err != nil {
		m.layout = nil
		return
	}
	layout, err := stack.Compute(grid)
	if err != nil {
		m.layout = nil
		return
	}
	m.layout = &layout
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := "Edit Intervals"
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(editDimStyle.Render(m.Path))
	b.WriteString("\n")
	b.WriteString(editDimStyle.Render("↑/↓ row  ←/→ column  ⏎ edit  a add  d delete  s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.viewRows())
	b.WriteString("\n")

	switch {
	case len(m.rowErrs) > 0:
		b.WriteString(m.viewErrors())
	case m.layout != nil:
		b.WriteString(m.viewPreview())
	default:
		b.WriteString(editDimStyle.Render("  (no intervals)"))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

// viewRows renders the editable table.
func (m EditorModel) viewRows() string {
	var b strings.Builder

	header := fmt.Sprintf("  %-16s %-12s %-12s", "id", "start", "end")
	b.WriteString(editDimStyle.Render(header))
	b.WriteString("\n")

	for i, row := range m.Rows {
		cursor := "  "
		if i == m.cursor {
			cursor = editSelectedStyle.Render("▸ ")
		}
		b.WriteString(cursor)

		widths := []int{16, 12, 12}
		for f := 0; f < fieldCount; f++ {
			val := row.field(f)
			if i == m.cursor && f == m.field && m.editing {
				val = m.buffer + "▏"
			}
			cell := fmt.Sprintf("%-*s", widths[f], val)
			switch {
			case i == m.cursor && f == m.field && m.editing:
				b.WriteString(editBufferStyle.Render(cell))
			case i == m.cursor && f == m.field:
				b.WriteString(editFieldStyle.Render(cell))
			default:
				b.WriteString(editNormalStyle.Render(cell))
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	if len(m.Rows) == 0 {
		b.WriteString(editDimStyle.Render("  (empty - press a to add a row)"))
		b.WriteString("\n")
	}
	return b.String()
}

// viewErrors renders the broken rows below the table.
func (m EditorModel) viewErrors() string {
	var b strings.Builder
	b.WriteString(editErrorStyle.Render(fmt.Sprintf("%d invalid row(s)", len(m.rowErrs))))
	b.WriteString("\n")

	shown := m.rowErrs
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, re := range shown {
		b.WriteString("  ")
		b.WriteString(editErrorStyle.Render(fmt.Sprintf("row %d", re.Row)))
		b.WriteString(" ")
		b.WriteString(editDimStyle.Render(re.Message))
		b.WriteString("\n")
	}
	if len(m.rowErrs) > len(shown) {
		b.WriteString(editDimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.rowErrs)-len(shown))))
		b.WriteString("\n")
	}
	return b.String()
}

// viewPreview renders one occupancy bar per key, one cell per day.
func (m EditorModel) viewPreview() string {
	l := m.layout
	var b strings.Builder

	b.WriteString(editDimStyle.Render(fmt.Sprintf("%s %s %s · %d days · max stack %d",
		l.MinStart.Format(interval.DateFormat), iconArrow,
		l.MaxEnd.Format(interval.DateFormat), l.DayCount(), l.MaxStackHeight)))
	b.WriteString("\n")

	keyWidth := 0
	for _, k := range l.Keys {
		if len(k) > keyWidth {
			keyWidth = len(k)
		}
	}
	if keyWidth > 16 {
		keyWidth = 16
	}

	barWidth := m.width - keyWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	for si, s := range l.Series {
		key := s.Key
		if len(key) > keyWidth {
			key = key[:keyWidth]
		}
		b.WriteString("  ")
		b.WriteString(editDimStyle.Render(fmt.Sprintf("%-*s", keyWidth, key)))
		b.WriteString(" ")

		style := lipgloss.NewStyle().Foreground(previewPalette[si%len(previewPalette)])
		b.WriteString(style.Render(occupancyBar(s, barWidth)))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	b.WriteString(editDimStyle.Render(fmt.Sprintf("%-*s", keyWidth, "total")))
	b.WriteString(" ")
	b.WriteString(editDimStyle.Render(totalsBar(l, barWidth)))
	b.WriteString("\n")
	return b.String()
}

// totalsBar compresses the per-day stack totals into width cells, showing
// the peak concurrency per cell as a digit ("+" past 9).
func totalsBar(l *stack.Layout, width int) string {
	days := l.DayCount()
	if days == 0 {
		return ""
	}
	if width > days {
		width = days
	}

	var b strings.Builder
	for cell := 0; cell < width; cell++ {
		lo := cell * days / width
		hi := (cell + 1) * days / width
		peak := 0
		for d := lo; d < hi; d++ {
			total := 0
			for _, s := range l.Series {
				band := s.Bands[d]
				total += band.Top - band.Baseline
			}
			if total > peak {
				peak = total
			}
		}
		switch {
		case peak == 0:
			b.WriteString("·")
		case peak > 9:
			b.WriteString("+")
		default:
			b.WriteString(fmt.Sprintf("%d", peak))
		}
	}
	return b.String()
}

// occupancyBar compresses a series into width cells: "█" when any day in
// the cell is occupied, "·" otherwise.
func occupancyBar(s stack.Series, width int) string {
	days := len(s.Bands)
	if days == 0 {
		return ""
	}
	if width > days {
		width = days
	}

	var b strings.Builder
	for cell := 0; cell < width; cell++ {
		lo := cell * days / width
		hi := (cell + 1) * days / width
		occupied := false
		for d := lo; d < hi; d++ {
			if s.Bands[d].Occupied() {
				occupied = true
				break
			}
		}
		if occupied {
			b.WriteString("█")
		} else {
			b.WriteString("·")
		}
	}
	return b.String()
}
