package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/views/docdetails"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/ragman/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// chatView is the conversational question-and-answer view.
	chatView *chat.View

	// searchView is the similarity search view.
	searchView *search.View

	// documentsView is the document list view.
	documentsView *documents.View

	// docDetailsView shows a single document's metadata and content.
	docDetailsView *docdetails.View

	// sourcesView is the source management view.
	sourcesView *sources.View

	// settingsView shows the active configuration.
	settingsView *settings.View

	// selectedDocument tracks the document opened in the details view.
	selectedDocument *domain.Document

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menu.NewView(s),
		chatView:       chat.NewView(s, km, ports.Pipeline, ports.Chat),
		searchView:     search.NewView(s, km, ports.Search),
		documentsView:  documents.NewView(s, ports.Document),
		docDetailsView: docdetails.NewView(s),
		sourcesView:    sources.NewView(s, ports.Source, ports.Ingest),
		settingsView:   settings.NewView(s, ports.Settings),
		currentView:    messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ragman - Ask your documents"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.docDetailsView.SetDimensions(msg.Width, msg.Height)
		a.sourcesView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			return a, cmd

		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			a.err = a.searchView.Err()
			return a, cmd

		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
			return a, cmd

		case messages.ViewDocDetails:
			a.docDetailsView, cmd = a.docDetailsView.Update(msg)
			return a, cmd

		case messages.ViewSources:
			a.sourcesView, cmd = a.sourcesView.Update(msg)
			return a, cmd

		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewChat:
			a.chatView.Reset()
			return a, a.chatView.Init()
		case messages.ViewSearch:
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewSources:
			return a, a.sourcesView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp, messages.ViewDocDetails:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.ChatStarted, messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentRemoved:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		// Navigate to document details (from documents list or search results)
		a.selectedDocument = &msg.Document
		a.docDetailsView.SetDocument(&msg.Document)
		a.currentView = messages.ViewDocDetails
		return a, a.docDetailsView.Init()

	case messages.SourcesLoaded, messages.SourceRemoved, messages.SourceSynced:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewDocDetails:
			a.docDetailsView, cmd = a.docDetailsView.Update(msg)
		case messages.ViewMenu, messages.ViewDocuments, messages.ViewSources,
			messages.ViewSettings, messages.ViewHelp:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewSources:
		return a.sourcesView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Chat:
  (type)      Enter a question
  enter       Submit question
  esc         Back to Menu

Search:
  (type)      Enter search query
  enter       Submit search
  n           New query
  esc         Back to Menu

Results / Lists:
  j/k, ↑/↓    Navigate
  enter       Open selection
  d           Delete selection
  r           Reload
  esc         Back

Sources:
  s, enter    Sync selected source

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SelectedDocument returns the document opened in the details view.
func (a *App) SelectedDocument() *domain.Document {
	return a.selectedDocument
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
}
