// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversational question-and-answer view.
	ViewChat
	// ViewSearch is the similarity search view.
	ViewSearch
	// ViewDocuments lists documents in the knowledge base.
	ViewDocuments
	// ViewDocDetails shows a document's metadata and content.
	ViewDocDetails
	// ViewSources is the source management view.
	ViewSources
	// ViewSettings is the settings view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewSearch:
		return "search"
	case ViewDocuments:
		return "documents"
	case ViewDocDetails:
		return "doc_details"
	case ViewSources:
		return "sources"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Results []domain.SearchResult
	Err     error
}

// ChatStarted carries the session created for a chat conversation.
type ChatStarted struct {
	Session *domain.ChatSession
	Err     error
}

// AnswerReceived carries the pipeline response to a chat turn.
type AnswerReceived struct {
	Response *domain.RAGResponse
	Err      error
}

// DocumentsLoaded carries the list of stored documents.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was selected for the details view.
type DocumentSelected struct {
	Document domain.Document
}

// DocumentRemoved signals a document was removed.
type DocumentRemoved struct {
	ID  string
	Err error
}

// SourcesLoaded carries the list of registered sources.
type SourcesLoaded struct {
	Sources []domain.Source
	Err     error
}

// SourceRemoved signals a source was removed.
type SourceRemoved struct {
	ID  string
	Err error
}

// SourceSynced carries the outcome of syncing a source.
type SourceSynced struct {
	Report *driving.SyncReport
	Err    error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// StatsLoaded carries knowledge base and pipeline statistics.
type StatsLoaded struct {
	Stats *domain.PipelineStats
	Err   error
}
