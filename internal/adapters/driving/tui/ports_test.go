package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPorts(t *testing.T) {
	pipeline := &MockPipelineService{}
	search := &MockSearchService{}
	document := &MockDocumentService{}

	ports := NewPorts(pipeline, search, document)

	require.NotNil(t, ports)
	assert.Equal(t, pipeline, ports.Pipeline)
	assert.Equal(t, search, ports.Search)
	assert.Equal(t, document, ports.Document)
	assert.Nil(t, ports.Ingest)
	assert.Nil(t, ports.Source)
	assert.Nil(t, ports.Settings)
	assert.Nil(t, ports.Chat)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := newTestPorts()

	err := ports.Validate()

	assert.NoError(t, err)
}

func TestPorts_Validate_RequiredOnly(t *testing.T) {
	ports := NewPorts(&MockPipelineService{}, &MockSearchService{}, &MockDocumentService{})

	err := ports.Validate()

	assert.NoError(t, err)
}

func TestPorts_Validate_MissingPipeline(t *testing.T) {
	ports := &Ports{
		Pipeline: nil,
		Search:   &MockSearchService{},
		Document: &MockDocumentService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingPipelineService)
}

func TestPorts_Validate_MissingSearch(t *testing.T) {
	ports := &Ports{
		Pipeline: &MockPipelineService{},
		Search:   nil,
		Document: &MockDocumentService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestPorts_Validate_MissingDocument(t *testing.T) {
	ports := &Ports{
		Pipeline: &MockPipelineService{},
		Search:   &MockSearchService{},
		Document: nil,
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingDocumentService)
}
