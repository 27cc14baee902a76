package categorizer

// Extractor produces successive untrusted windows over a duration array
// with a single forward-moving cursor and no backtracking.
type Extractor struct {
	cursor int
}

// NewExtractor returns an Extractor starting at the first payload index.
func NewExtractor() *Extractor {
	return &Extractor{cursor: 1}
}

// Next scans forward from the cursor for the next untrusted window within
// v[1..limit]. It returns the window bounds [start, stop] (inclusive,
// 1-indexed) bracketed by one reliable element on each side, or
// ok=false once no further unreliable element remains in range. start is
// clamped to 1, so when v[1] itself is unreliable the window has no
// reliable element in front.
func (e *Extractor) Next(v []uint16, limit int) (start, stop int, ok bool) {
	i := e.cursor
	for i <= limit && !unreliable(v[i]) {
		i++
	}
	if i > limit {
		e.cursor = i
		return 0, 0, false
	}

	start = i - 1
	if start < 1 {
		start = 1
	}

	j := i + 1
	for j <= limit && unreliable(v[j]) {
		j++
	}
	stop = j

	e.cursor = stop + 1
	return start, stop, true
}
