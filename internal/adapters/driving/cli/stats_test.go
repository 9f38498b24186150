package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

func TestStatsCmd_NoService(t *testing.T) {
	pipelineService = nil

	_, err := executeCommand(t, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline service not configured")
}

func TestStatsCmd_PrintsStats(t *testing.T) {
	pipelineService = &mockPipelineService{
		statsFunc: func(context.Context) (*domain.PipelineStats, error) {
			return &domain.PipelineStats{
				KnowledgeBaseStats: domain.KnowledgeBaseStats{
					DocumentCount:       3,
					TotalTokens:         120,
					AverageTokensPerDoc: 40,
					VectorDimensions:    100,
				},
				PipelineVersion: "1.0",
				Features:        []string{"vector search", "extractive answers"},
			}, nil
		},
	}
	defer func() { pipelineService = nil }()

	out, err := executeCommand(t, "stats")
	require.NoError(t, err)

	assert.Contains(t, out, "Knowledge Base")
	assert.Contains(t, out, "Documents:          3")
	assert.Contains(t, out, "Total tokens:       120")
	assert.Contains(t, out, "Vector dimensions:  100")
	assert.Contains(t, out, "Pipeline 1.0")
	assert.Contains(t, out, "- vector search")
}

func TestStatsCmd_JSONOutput(t *testing.T) {
	pipelineService = &mockPipelineService{
		statsFunc: func(context.Context) (*domain.PipelineStats, error) {
			return &domain.PipelineStats{
				KnowledgeBaseStats: domain.KnowledgeBaseStats{DocumentCount: 2},
				PipelineVersion:    "1.0",
			}, nil
		},
	}
	defer func() { pipelineService = nil }()

	out, err := executeCommand(t, "stats", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"DocumentCount": 2`)
	assert.Contains(t, out, `"PipelineVersion": "1.0"`)
}
