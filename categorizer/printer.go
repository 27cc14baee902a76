package categorizer

import (
	"fmt"
	"strconv"
	"strings"
)

// symbolForIndex renders a combined category index (cluster indices first,
// then aggregation indices) as the single-character alphabet from the
// wire-free sequence format: '0'-'9' then 'a'-'h'.
func symbolForIndex(i int) byte {
	if i < 10 {
		return byte('0' + i)
	}
	return byte('a' + (i - 10))
}

func charFor(raw uint16, cs *CategorySet) byte {
	value := val(raw)
	if value == 0 {
		return ' '
	}
	if value >= cs.SeparatorBarrier {
		return '*'
	}

	idx, _, near := Classify(cs, raw, Opt3)
	if near {
		return symbolForIndex(idx)
	}
	if cs.ClusterSize > 0 && value < cs.Clusters[0].Center {
		return '-'
	}
	return '?'
}

// Print renders the categorized trace as two aligned character rows, HIGH
// on top and LOW below, one column per symbol position, with a parallel
// reliability annotation row per polarity ('!' marks an unreliable element).
func Print(v []uint16, count int, categories *[2]CategorySet) (highRow, lowRow, highReliable, lowReliable string) {
	var hi, lo, hiRel, loRel strings.Builder

	for j := 1; j <= count; j++ {
		hiIdx := 2*j - 1
		loIdx := 2 * j

		hi.WriteByte(charFor(v[hiIdx], &categories[PolarityHigh]))
		lo.WriteByte(charFor(v[loIdx], &categories[PolarityLow]))

		if unreliable(v[hiIdx]) {
			hiRel.WriteByte('!')
		} else {
			hiRel.WriteByte(' ')
		}
		if unreliable(v[loIdx]) {
			loRel.WriteByte('!')
		} else {
			loRel.WriteByte(' ')
		}
	}

	return hi.String(), lo.String(), hiRel.String(), loRel.String()
}

// FormatCategoryTable renders the index-to-center lookup table for one
// polarity: clusters first, then a ';' separator, then aggregations.
func FormatCategoryTable(cs *CategorySet) string {
	var b strings.Builder
	for i := 0; i < cs.ClusterSize; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%d", strconv.Itoa(i), cs.Clusters[i].Center)
	}
	b.WriteByte(';')
	for i := 0; i < cs.AggregSize2; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%d", strconv.Itoa(cs.ClusterSize+i), cs.Aggregations[i].Center)
	}
	return b.String()
}
