package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func draw(r *RNG) []int {
	out := make([]int, 8)
	for i := range out {
		out[i] = r.IntN(1000)
	}
	return out
}

func TestRNGIsDeterministic(t *testing.T) {
	assert.Equal(t, draw(NewRNG(42)), draw(NewRNG(42)))
	assert.NotEqual(t, draw(NewRNG(42)), draw(NewRNG(43)))
}

func TestRNGReseedRestartsSequence(t *testing.T) {
	r := NewRNG(7)
	first := draw(r)
	r.Reseed(7)
	assert.Equal(t, first, draw(r))
}

func TestRNGRanges(t *testing.T) {
	r := NewRNG(1)
	assert.Zero(t, r.IntN(0))
	assert.Zero(t, r.IntN(-3))
	for i := 0; i < 100; i++ {
		f := r.Float32()
		assert.GreaterOrEqual(t, f, float32(0))
		assert.Less(t, f, float32(1))
		d := r.Float64()
		assert.GreaterOrEqual(t, d, 0.0)
		assert.Less(t, d, 1.0)
	}
}

func TestRNGShufflePermutes(t *testing.T) {
	r := NewRNG(3)
	dirs := []int{0, 1, 2, 3}
	r.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, dirs)
}
