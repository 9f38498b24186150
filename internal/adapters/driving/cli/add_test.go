package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

func TestAddCmd_HasSubcommands(t *testing.T) {
	commands := addCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "text")
	assert.Contains(t, commandNames, "file")
	assert.Contains(t, commandNames, "url")
}

func TestAddTextCmd_NoService(t *testing.T) {
	ingestService = nil

	_, err := executeCommand(t, "add", "text", "some content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestAddTextCmd_StoresDocument(t *testing.T) {
	var gotName, gotContent string
	ingestService = &mockIngestService{
		textFunc: func(_ context.Context, name, content string) (*domain.Document, error) {
			gotName = name
			gotContent = content
			return &domain.Document{
				ID:       "doc-1",
				Content:  content,
				Metadata: domain.DocumentMetadata{Name: "pet notes"},
			}, nil
		},
	}
	defer func() { ingestService = nil }()

	out, err := executeCommand(t, "add", "text", "Cats are small pets.", "--name", "pet notes")
	require.NoError(t, err)

	assert.Equal(t, "pet notes", gotName)
	assert.Equal(t, "Cats are small pets.", gotContent)
	assert.Contains(t, out, `Added document doc-1 ("pet notes", 4 tokens)`)
}

func TestAddFileCmd_MissingFile(t *testing.T) {
	ingestService = &mockIngestService{}
	defer func() { ingestService = nil }()

	_, err := executeCommand(t, "add", "file", "/nonexistent/notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read /nonexistent/notes.txt")
}

func TestAddURLCmd_StoresDocument(t *testing.T) {
	ingestService = &mockIngestService{
		urlFunc: func(_ context.Context, url string) (*domain.Document, error) {
			assert.Equal(t, "https://example.com/page", url)
			return &domain.Document{
				ID:       "doc-2",
				Content:  "page content here",
				Metadata: domain.DocumentMetadata{Name: "Example Page"},
			}, nil
		},
	}
	defer func() { ingestService = nil }()

	out, err := executeCommand(t, "add", "url", "https://example.com/page")
	require.NoError(t, err)
	assert.Contains(t, out, `Added document doc-2 ("Example Page", 3 tokens)`)
}
