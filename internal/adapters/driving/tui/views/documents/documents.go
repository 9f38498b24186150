// Package documents provides the document list view for the TUI.
package documents

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

// View is the document list view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService

	documents []domain.Document
	selected  int
	width     int
	height    int
	ready     bool
	err       error
	loading   bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		documentService: documentService,
		documents:       []domain.Document{},
	}
}

// Init initialises the view and loads documents.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadDocuments()
}

// loadDocuments returns a command that loads documents from the service.
func (v *View) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}

		docs, err := v.documentService.List(context.Background())
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.documents = msg.Documents
			v.err = nil
			if v.selected >= len(v.documents) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.DocumentRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Reload documents after removal
		return v, v.loadDocuments()
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
		if v.selected < len(v.documents)-1 {
			v.selected++
		}
	case "enter":
		if len(v.documents) > 0 && v.selected < len(v.documents) {
			doc := v.documents[v.selected]
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: doc}
			}
		}
	case "d", "delete", "backspace":
		if len(v.documents) > 0 && v.selected < len(v.documents) {
			return v, v.removeDocument(v.documents[v.selected].ID)
		}
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// removeDocument returns a command that removes a document.
func (v *View) removeDocument(id string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentRemoved{ID: id, Err: fmt.Errorf("document service not available")}
		}

		_, err := v.documentService.Remove(context.Background(), id)
		return messages.DocumentRemoved{ID: id, Err: err}
	}
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
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

	if len(v.documents) == 0 {
		b.WriteString(v.styles.Muted.Render("No documents in the knowledge base."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	for i := range v.documents {
		b.WriteString(v.renderDocument(i, &v.documents[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Total: %d documents", len(v.documents))))
	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderDocument renders a single document line.
func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	kindStr := fmt.Sprintf("[%s]", doc.Metadata.SourceKind)
	name := doc.DisplayName()
	tokens := fmt.Sprintf("%d tokens", doc.TokenCount())

	maxNameLen := v.width - len(kindStr) - len(tokens) - 14
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	var line string
	if index == v.selected {
		line = v.styles.Selected.Render(fmt.Sprintf("%s%-10s %-*s %s", indicator, kindStr, maxNameLen, name, tokens))
	} else {
		line = v.styles.Normal.Render(indicator) +
			v.styles.Subtitle.Render(fmt.Sprintf("%-10s ", kindStr)) +
			v.styles.Normal.Render(fmt.Sprintf("%-*s ", maxNameLen, name)) +
			v.styles.Muted.Render(tokens)
	}

	return line
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] details  [d] delete  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
