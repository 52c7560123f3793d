package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Basic", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"Negative", []float32{1, -1}, []float32{1, 1}, 0},
		{"Empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dot(tt.a, tt.b))
		})
	}
}

func TestNorm(t *testing.T) {
	assert.Equal(t, float32(5), Norm([]float32{3, 4}))
	assert.Equal(t, float32(0), Norm([]float32{0, 0, 0}))
	assert.Equal(t, float32(0), Norm(nil))
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
		ok       bool
	}{
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1, true},
		{"Opposite", []float32{1, 0}, []float32{-1, 0}, -1, true},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 0, true},
		{"Scaled", []float32{1, 1}, []float32{5, 5}, 1, true},
		{"ZeroLeft", []float32{0, 0}, []float32{1, 1}, 0, false},
		{"ZeroRight", []float32{1, 1}, []float32{0, 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Cosine(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestCosineWithNorms(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	want, ok := Cosine(a, b)
	assert.True(t, ok)

	got, ok := CosineWithNorms(Dot(a, b), Norm(a), Norm(b))
	assert.True(t, ok)
	assert.InDelta(t, want, got, 1e-6)

	_, ok = CosineWithNorms(0, 0, 1)
	assert.False(t, ok)
}

func TestNormalizeL2InPlace(t *testing.T) {
	v := []float32{3, 4}
	assert.True(t, NormalizeL2InPlace(v))
	assert.InDelta(t, 1, float64(Norm(v)), 1e-6)

	assert.False(t, NormalizeL2InPlace([]float32{0, 0}))
	assert.False(t, NormalizeL2InPlace(nil))
}

func TestNormalizeL2Copy(t *testing.T) {
	src := []float32{0, 2}
	dst, ok := NormalizeL2Copy(src)
	assert.True(t, ok)
	assert.Equal(t, []float32{0, 2}, src)
	assert.InDelta(t, 1, float64(dst[1]), 1e-6)
	assert.False(t, math.IsNaN(float64(dst[0])))

	_, ok = NormalizeL2Copy([]float32{0})
	assert.False(t, ok)
}
