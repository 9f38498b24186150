// Package sources provides the source management view for the TUI.
package sources

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// View is the source management view.
type View struct {
	styles        *styles.Styles
	sourceService driving.SourceService
	ingestService driving.IngestService

	sources  []domain.Source
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
	syncing  bool
	notice   string
}

// NewView creates a new sources view.
func NewView(
	s *styles.Styles,
	sourceService driving.SourceService,
	ingestService driving.IngestService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:        s,
		sourceService: sourceService,
		ingestService: ingestService,
		sources:       []domain.Source{},
	}
}

// Init initialises the view and loads sources.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadSources()
}

// loadSources returns a command that loads sources from the service.
func (v *View) loadSources() tea.Cmd {
	return func() tea.Msg {
		if v.sourceService == nil {
			return messages.SourcesLoaded{Err: fmt.Errorf("source service not available")}
		}

		sources, err := v.sourceService.List(context.Background())
		return messages.SourcesLoaded{Sources: sources, Err: err}
	}
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.sources = msg.Sources
			v.err = nil
			if v.selected >= len(v.sources) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.SourceRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Reload sources after removal
		return v, v.loadSources()

	case messages.SourceSynced:
		v.syncing = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Synced %s: %d documents stored, %d failed",
			msg.Report.SourceID, msg.Report.DocumentsStored, msg.Report.Failures)
		return v, v.loadSources()
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.sources)-1 {
			v.selected++
		}
	case "s", "enter":
		// Sync the selected source
		if len(v.sources) > 0 && v.selected < len(v.sources) && !v.syncing {
			v.syncing = true
			v.notice = ""
			return v, v.syncSource(v.sources[v.selected].ID)
		}
	case "d", "delete", "backspace":
		if len(v.sources) > 0 && v.selected < len(v.sources) {
			return v, v.removeSource(v.sources[v.selected].ID)
		}
	case "r":
		v.loading = true
		return v, v.loadSources()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// syncSource returns a command that syncs a source.
func (v *View) syncSource(id string) tea.Cmd {
	return func() tea.Msg {
		if v.ingestService == nil {
			return messages.SourceSynced{Err: fmt.Errorf("ingest service not available")}
		}

		report, err := v.ingestService.SyncSource(context.Background(), id)
		return messages.SourceSynced{Report: report, Err: err}
	}
}

// removeSource returns a command that removes a source.
func (v *View) removeSource(id string) tea.Cmd {
	return func() tea.Msg {
		if v.sourceService == nil {
			return messages.SourceRemoved{ID: id, Err: fmt.Errorf("source service not available")}
		}

		err := v.sourceService.Remove(context.Background(), id)
		return messages.SourceRemoved{ID: id, Err: err}
	}
}

// View renders the sources view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sources"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading sources..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.sources) == 0 {
		b.WriteString(v.styles.Muted.Render("No sources configured. Use \"ragman source add\" to register one."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	for i := range v.sources {
		b.WriteString(v.renderSource(i, &v.sources[i]))
		b.WriteString("\n")
	}

	if v.syncing {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Syncing..."))
	} else if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderSource renders a single source line.
func (v *View) renderSource(index int, source *domain.Source) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	typeStr := fmt.Sprintf("[%s]", source.Type)
	name := source.Name
	if name == "" {
		name = source.ID
	}

	// Show the origin alongside the name.
	if path, ok := source.Config["path"]; ok {
		name = fmt.Sprintf("%s - %s", name, path)
	} else if url, ok := source.Config["url"]; ok {
		name = fmt.Sprintf("%s - %s", name, url)
	}

	maxNameLen := v.width - len(typeStr) - 12
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	var line string
	if index == v.selected {
		line = v.styles.Selected.Render(fmt.Sprintf("%s%-12s %s", indicator, typeStr, name))
	} else {
		line = v.styles.Normal.Render(indicator) +
			v.styles.Subtitle.Render(fmt.Sprintf("%-12s ", typeStr)) +
			v.styles.Normal.Render(name)
	}

	return line
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[s] sync  [d] delete  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sources returns the current list of sources.
func (v *View) Sources() []domain.Source {
	return v.sources
}

// SelectedIndex returns the currently selected source index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Notice returns the last sync notice.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
