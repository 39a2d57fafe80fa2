package home

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffle(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	orig := slices.Clone(items)

	a := Shuffle(items, 42)
	b := Shuffle(items, 42)
	assert.Equal(t, a, b, "same seed, same order")
	assert.Equal(t, orig, items, "input untouched")
	assert.ElementsMatch(t, items, a)

	moved := false
	for seed := range uint64(20) {
		if !slices.Equal(Shuffle(items, seed), items) {
			moved = true
			break
		}
	}
	assert.True(t, moved)
}

func TestShuffle_Small(t *testing.T) {
	assert.Empty(t, Shuffle([]string(nil), 1))
	assert.Equal(t, []string{"only"}, Shuffle([]string{"only"}, 7))
}
