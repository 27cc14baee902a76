package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertionSortUint16(t *testing.T) {
	a := []uint16{40, 10, 30, 20, 10}
	insertionSortUint16(a)
	assert.Equal(t, []uint16{10, 10, 20, 30, 40}, a)
}

func TestInsertionSortIndicesByValueIsStable(t *testing.T) {
	// key[1] == key[3] == 200: original relative order (1 before 3) must
	// survive the sort.
	key := []uint16{0, 200, 100, 200, 50}
	idx := []int{1, 2, 3, 4}
	insertionSortIndicesByValue(idx, key)
	assert.Equal(t, []int{4, 2, 1, 3}, idx)
}

func TestOrderedMergeInts(t *testing.T) {
	a := []int{1, 4, 9}
	b := []int{2, 3, 10}
	assert.Equal(t, []int{1, 2, 3, 4, 9, 10}, orderedMergeInts(a, b))
}

func TestOrderedMergeIntsEmptySide(t *testing.T) {
	assert.Equal(t, []int{1, 2}, orderedMergeInts(nil, []int{1, 2}))
	assert.Equal(t, []int{1, 2}, orderedMergeInts([]int{1, 2}, nil))
}
