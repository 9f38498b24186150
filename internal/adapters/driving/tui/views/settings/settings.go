// Package settings provides a read-only settings view for the TUI.
// Settings are changed through the CLI; the view shows the active
// configuration so a user can check providers without leaving the TUI.
package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// View displays the current application settings.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadSettings()
}

// loadSettings returns a command that loads settings from the service.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}

		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SettingsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "r":
		v.loading = true
		return v, v.loadSettings()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
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

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("No settings loaded."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(v.renderSection("Embedding",
		v.settings.Embedding.Provider, v.settings.Embedding.Model, v.settings.Embedding.BaseURL))
	b.WriteString("\n")
	b.WriteString(v.renderSection("Answer",
		v.settings.Answer.Provider, v.settings.Answer.Model, v.settings.Answer.BaseURL))
	b.WriteString("\n")

	b.WriteString(v.styles.Subtitle.Render("Pipeline"))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  Top K: %d", v.settings.Pipeline.TopK)))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  Max context tokens: %d", v.settings.Pipeline.MaxContextTokens)))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Muted.Render("Use \"ragman settings\" to change providers."))
	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderSection renders one provider block.
func (v *View) renderSection(title string, provider domain.AIProvider, model, baseURL string) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render("  Provider: " + provider.Description()))
	b.WriteString("\n")
	if model != "" {
		b.WriteString(v.styles.Normal.Render("  Model: " + model))
		b.WriteString("\n")
	}
	if provider == domain.AIProviderOllama && baseURL != "" {
		b.WriteString(v.styles.Normal.Render("  Base URL: " + baseURL))
		b.WriteString("\n")
	}

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset clears loaded settings so the next Init reloads them.
func (v *View) Reset() {
	v.settings = nil
	v.err = nil
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
