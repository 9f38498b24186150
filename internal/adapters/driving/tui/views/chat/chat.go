// Package chat provides the conversational question-and-answer view for
// the TUI. Questions run through the pipeline; when a chat service is
// available the transcript is also persisted as a session.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragman/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// turn is one rendered exchange in the transcript.
type turn struct {
	role       domain.ChatRole
	text       string
	confidence int
	sources    int
}

// View is the chat view with an input field and a scrolling transcript.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	statusbar *status.Bar

	pipelineService driving.PipelineService
	chatService     driving.ChatService
	ctx             context.Context

	session *domain.ChatSession
	turns   []turn
	waiting bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	pipelineService driving.PipelineService,
	chatService driving.ChatService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		input:           input.NewField(s, "Ask: ", "Type a question..."),
		statusbar:       status.NewBar(s, km),
		pipelineService: pipelineService,
		chatService:     chatService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and starts a session when possible.
func (v *View) Init() tea.Cmd {
	cmds := []tea.Cmd{v.input.Init()}
	if v.chatService != nil && v.session == nil {
		cmds = append(cmds, v.startSession())
	}
	return tea.Batch(cmds...)
}

// startSession returns a command that creates a chat session.
func (v *View) startSession() tea.Cmd {
	return func() tea.Msg {
		session, err := v.chatService.StartSession(v.ctx)
		return messages.ChatStarted{Session: session, Err: err}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChatStarted:
		if msg.Err != nil {
			// Session persistence failed; answers still work via the
			// pipeline, so record the error and carry on.
			v.err = msg.Err
			return v, nil
		}
		v.session = msg.Session
		return v, nil

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.waiting = false
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if msg.Type == tea.KeyEnter && !v.waiting {
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.turns = append(v.turns, turn{role: domain.ChatRoleUser, text: question})
		v.input.SetValue("")
		v.waiting = true
		v.statusbar.SetState(status.StateThinking)
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask returns a command that runs the question through the pipeline.
func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService != nil && v.session != nil {
			response, err := v.chatService.Send(v.ctx, v.session.ID, question)
			return messages.AnswerReceived{Response: response, Err: err}
		}
		if v.pipelineService == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("pipeline service not available")}
		}
		response, err := v.pipelineService.Ask(v.ctx, question)
		return messages.AnswerReceived{Response: response, Err: err}
	}
}

// handleAnswer records a pipeline response in the transcript.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.waiting = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.turns = append(v.turns, turn{
		role:       domain.ChatRoleAssistant,
		text:       msg.Response.Answer,
		confidence: msg.Response.Context.Confidence,
		sources:    len(msg.Response.Sources),
	})
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("%d%% confidence, %d sources", msg.Response.Context.Confidence, len(msg.Response.Sources)))
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := v.styles.Title.Render("Chat")
	sections = append(sections, header, "")

	sections = append(sections, v.renderTranscript(), "")

	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	sections = append(sections, v.input.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript renders the visible tail of the conversation.
func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Ask a question about your documents.")
	}

	// Reserve lines for header, input, status bar.
	available := v.height - 10
	if available < 4 {
		available = 4
	}

	lines := make([]string, 0, len(v.turns)*2)
	for i := range v.turns {
		t := v.turns[i]
		switch t.role {
		case domain.ChatRoleUser:
			lines = append(lines, v.styles.Subtitle.Render("You: ")+v.styles.Normal.Render(t.text))
		case domain.ChatRoleAssistant:
			lines = append(lines, v.styles.Normal.Render(t.text))
			lines = append(lines, v.styles.Muted.Render(
				fmt.Sprintf("  (%d%% confidence, %d sources)", t.confidence, t.sources)))
		}
		lines = append(lines, "")
	}

	if v.waiting {
		lines = append(lines, v.styles.Muted.Render("..."))
	}

	// Show the tail that fits.
	if len(lines) > available {
		lines = lines[len(lines)-available:]
	}

	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reset clears the transcript and input for a fresh conversation.
func (v *View) Reset() {
	v.turns = nil
	v.session = nil
	v.waiting = false
	v.err = nil
	v.input.SetValue("")
	v.input.Focus()
	v.statusbar.Clear()
}

// Turns returns the number of transcript entries.
func (v *View) Turns() int {
	return len(v.turns)
}

// Session returns the active chat session, if any.
func (v *View) Session() *domain.ChatSession {
	return v.session
}

// Waiting reports whether an answer is pending.
func (v *View) Waiting() bool {
	return v.waiting
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
