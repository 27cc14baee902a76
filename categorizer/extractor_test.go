package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractorFindsBracketedUntrustedWindow(t *testing.T) {
	v := make([]uint16, 10)
	for i := range v {
		v[i] = encode(100, false)
	}
	v[3] = encode(100, true)
	v[4] = encode(100, true)

	ext := NewExtractor()
	start, stop, ok := ext.Next(v, 8)
	assert.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, stop)

	_, _, ok = ext.Next(v, 8)
	assert.False(t, ok)
}

func TestExtractorNoUnreliableElements(t *testing.T) {
	v := make([]uint16, 10)
	for i := range v {
		v[i] = encode(100, false)
	}
	ext := NewExtractor()
	_, _, ok := ext.Next(v, 8)
	assert.False(t, ok)
}

func TestExtractorClampsStartAtOne(t *testing.T) {
	v := make([]uint16, 10)
	for i := range v {
		v[i] = encode(100, false)
	}
	v[1] = encode(100, true)

	ext := NewExtractor()
	start, stop, ok := ext.Next(v, 8)
	assert.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, stop)
}

func TestExtractorFindsMultipleWindows(t *testing.T) {
	v := make([]uint16, 12)
	for i := range v {
		v[i] = encode(100, false)
	}
	v[3] = encode(100, true)
	v[8] = encode(100, true)

	ext := NewExtractor()
	start1, stop1, ok := ext.Next(v, 10)
	assert.True(t, ok)
	assert.Equal(t, 2, start1)
	assert.Equal(t, 4, stop1)

	start2, stop2, ok := ext.Next(v, 10)
	assert.True(t, ok)
	assert.Equal(t, 7, start2)
	assert.Equal(t, 9, stop2)
}
