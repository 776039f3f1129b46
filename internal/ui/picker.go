package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/shinji-kodama/quick-proj/internal/model"
)

// defaultVisibleRows is used until the terminal reports its size.
const defaultVisibleRows = 10

// projectSource adapts a project list to fuzzy.Source. Each project is
// matched on "name path".
type projectSource []model.Project

func (s projectSource) String(i int) string { return s[i].Name + " " + s[i].Path }
func (s projectSource) Len() int            { return len(s) }

// match is one visible picker row.
type match struct {
	index   int   // into Picker.projects
	matched []int // byte offsets into the project name that matched
}

// Picker is the bubbletea model of the project selector.
type Picker struct {
	projects []model.Project
	input    textinput.Model
	matches  []match
	cursor   int
	offset   int
	width    int
	height   int
	styles   *Styles
	home     string

	chosen    *model.Project
	cancelled bool
}

// NewPicker creates a picker over projects. An empty query lists every
// project in the given order.
func NewPicker(projects []model.Project, styles *Styles, home string) Picker {
	if styles == nil {
		styles = NewStyles("")
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type to filter"
	ti.Focus()

	p := Picker{
		projects: projects,
		input:    ti,
		styles:   styles,
		home:     home,
	}
	p.refilter()
	return p
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.clampOffset()
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.cancelled = true
			return p, tea.Quit
		case tea.KeyEnter:
			if len(p.matches) == 0 {
				return p, nil
			}
			chosen := p.projects[p.matches[p.cursor].index]
			p.chosen = &chosen
			return p, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP, tea.KeyCtrlK:
			p.move(-1)
			return p, nil
		case tea.KeyDown, tea.KeyCtrlN, tea.KeyCtrlJ, tea.KeyTab:
			p.move(1)
			return p, nil
		case tea.KeyPgUp:
			p.move(-p.visibleRows())
			return p, nil
		case tea.KeyPgDown:
			p.move(p.visibleRows())
			return p, nil
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refilter()
	}
	return p, cmd
}

// View implements tea.Model.
func (p Picker) View() string {
	if p.chosen != nil || p.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.styles.Accent().Render("?"))
	b.WriteString(" Select a project: ")
	b.WriteString(p.input.View())
	b.WriteString("\n")

	end := min(p.offset+p.visibleRows(), len(p.matches))
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderRow(i))
		b.WriteString("\n")
	}
	if len(p.matches) == 0 {
		b.WriteString(p.styles.Dim().Render("  no matching projects"))
		b.WriteString("\n")
	}

	b.WriteString(p.styles.Help().Render(fmt.Sprintf(
		"  %d/%d  ↑/↓ move • enter open • esc cancel", len(p.matches), len(p.projects))))
	return b.String()
}

// Chosen returns the picked project, or nil when nothing was picked.
func (p Picker) Chosen() *model.Project {
	return p.chosen
}

// Cancelled reports whether the user aborted the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Query returns the current filter text.
func (p Picker) Query() string {
	return p.input.Value()
}

// Visible returns the projects currently matching the query, best first.
func (p Picker) Visible() []model.Project {
	out := make([]model.Project, len(p.matches))
	for i, m := range p.matches {
		out[i] = p.projects[m.index]
	}
	return out
}

// Cursor returns the index of the highlighted row within Visible.
func (p Picker) Cursor() int {
	return p.cursor
}

// refilter recomputes the matches for the current query and resets the
// cursor to the best match.
func (p *Picker) refilter() {
	query := strings.TrimSpace(p.input.Value())
	p.cursor, p.offset = 0, 0

	if query == "" {
		p.matches = make([]match, len(p.projects))
		for i := range p.projects {
			p.matches[i] = match{index: i}
		}
		return
	}

	results := fuzzy.FindFrom(query, projectSource(p.projects))
	p.matches = make([]match, 0, len(results))
	for _, r := range results {
		nameLen := len(p.projects[r.Index].Name)
		var inName []int
		for _, idx := range r.MatchedIndexes {
			if idx < nameLen {
				inName = append(inName, idx)
			}
		}
		p.matches = append(p.matches, match{index: r.Index, matched: inName})
	}
}

// move shifts the cursor by delta rows, clamped to the match list.
func (p *Picker) move(delta int) {
	if len(p.matches) == 0 {
		return
	}
	p.cursor = max(0, min(p.cursor+delta, len(p.matches)-1))
	p.clampOffset()
}

// clampOffset scrolls so that the cursor row stays visible.
func (p *Picker) clampOffset() {
	rows := p.visibleRows()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
}

// visibleRows is the number of project rows that fit on screen.
func (p Picker) visibleRows() int {
	if p.height <= 0 {
		return defaultVisibleRows
	}
	// prompt line + help line
	return max(1, min(p.height-2, defaultVisibleRows*2))
}

// renderRow formats visible row i, highlighting fuzzy-matched characters in
// the name and truncating to the terminal width.
func (p Picker) renderRow(i int) string {
	m := p.matches[i]
	project := p.projects[m.index]

	prefix := "  "
	if i == p.cursor {
		prefix = p.styles.Cursor().Render("›") + " "
	}

	row := prefix + p.highlightName(project.Name, m.matched) + " " +
		p.styles.Dim().Render("("+ShortenHome(project.Path, p.home)+")")

	if p.width > 0 {
		row = ansi.Truncate(row, p.width, "…")
	}
	return row
}

func (p Picker) highlightName(name string, matched []int) string {
	if len(matched) == 0 {
		return p.styles.Name().Render(name)
	}

	hit := make(map[int]bool, len(matched))
	for _, idx := range matched {
		hit[idx] = true
	}

	var b strings.Builder
	for i, r := range name {
		style := p.styles.Name()
		if hit[i] {
			style = p.styles.Accent().Bold(true).Underline(true)
		}
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// SelectOptions configures Select.
type SelectOptions struct {
	Input  io.Reader
	Output io.Writer
	Styles *Styles
	Home   string
}

// Select runs the picker and returns the chosen project. It returns nil
// without error when the list is empty or the user cancels.
func Select(projects []model.Project, opts SelectOptions) (*model.Project, error) {
	if len(projects) == 0 {
		return nil, nil
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	progOpts := []tea.ProgramOption{tea.WithOutput(output)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}

	final, err := tea.NewProgram(NewPicker(projects, opts.Styles, opts.Home), progOpts...).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run project picker: %w", err)
	}

	picker, ok := final.(Picker)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model %T", final)
	}
	return picker.Chosen(), nil
}
