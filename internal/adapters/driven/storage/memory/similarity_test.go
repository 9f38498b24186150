package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "scaled vectors keep direction",
			a:    []float32{1, 1},
			b:    []float32{5, 5},
			want: 1.0,
		},
		{
			name: "45 degrees",
			a:    []float32{1, 0},
			b:    []float32{1, 1},
			want: 0.7071067811865475,
		},
		{
			name: "dimension mismatch",
			a:    []float32{1, 2},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "zero vector",
			a:    []float32{0, 0},
			b:    []float32{1, 2},
			want: 0.0,
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float32{0.3, 0.5, 0.2}
	b := []float32{0.1, 0.9, 0.4}

	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
}

func TestCosine_BoundedRange(t *testing.T) {
	a := []float32{0.9, 0.1, 0.3}
	b := []float32{0.2, 0.8, 0.5}

	got := Cosine(a, b)
	assert.GreaterOrEqual(t, got, -1.0)
	assert.LessOrEqual(t, got, 1.0)
}
