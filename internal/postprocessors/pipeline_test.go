package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/postprocessors/cleaner"
	"github.com/custodia-labs/ragman/internal/postprocessors/truncator"
)

// fakeProcessor is a test processor with an injectable transform.
type fakeProcessor struct {
	name string
	fn   func(string) (string, error)
}

func (f *fakeProcessor) Name() string { return f.name }

func (f *fakeProcessor) Process(_ context.Context, content string) (string, error) {
	return f.fn(content)
}

func TestPipeline_Process_RunsInOrder(t *testing.T) {
	p := NewPipeline(
		&fakeProcessor{name: "a", fn: func(s string) (string, error) { return s + "a", nil }},
		&fakeProcessor{name: "b", fn: func(s string) (string, error) { return s + "b", nil }},
	)

	got, err := p.Process(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "xab", got)
}

func TestPipeline_Process_Empty(t *testing.T) {
	p := NewPipeline()

	got, err := p.Process(context.Background(), "unchanged")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", got)
}

func TestPipeline_Process_ErrorNamesProcessor(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(
		&fakeProcessor{name: "broken", fn: func(string) (string, error) { return "", boom }},
	)

	_, err := p.Process(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, 0, p.Len())

	p.Add(cleaner.New())
	p.Add(truncator.New())
	assert.Equal(t, 2, p.Len())
}

func TestDefaultPipeline(t *testing.T) {
	p := DefaultPipeline()
	require.Equal(t, 2, p.Len())

	got, err := p.Process(context.Background(), "  hello \r\n\r\n\r\n\r\nworld  ")
	require.NoError(t, err)
	assert.Equal(t, "hello\n\nworld", got)
}

func TestRegistry_BuildDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	assert.True(t, r.Has("cleaner"))
	assert.True(t, r.Has("truncator"))
	assert.Len(t, r.Names(), 2)

	proc, err := r.Build("cleaner", nil)
	require.NoError(t, err)
	assert.Equal(t, "cleaner", proc.Name())

	proc, err = r.Build("truncator", map[string]any{"max_bytes": int64(10)})
	require.NoError(t, err)

	got, err := proc.Process(context.Background(), "one two three four")
	require.NoError(t, err)
	assert.Equal(t, "one two", got)
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown processor")
}

var _ driven.PostProcessor = (*fakeProcessor)(nil)
