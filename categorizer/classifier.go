package categorizer

// Classify finds the category (cluster or aggregation) nearest to v under
// the given tightness option, picking the nearest of several candidate
// thresholds the way a multi-level slicer would.
//
// The combined category index space lists clusters first, then
// aggregations: an index >= cs.ClusterSize denotes aggregation
// index-cs.ClusterSize.
//
// Classify always returns the nearest category it can find, even when near
// is false; callers that only care whether the match is good enough should
// check near. idx is -1 only when cs has neither a cluster nor an
// aggregation to offer (a category set that cleared ErrNoCluster never
// reaches that state).
func Classify(cs *CategorySet, v uint16, opt Option) (idx int, center uint16, near bool) {
	v = val(v)

	slot := -1
	foundByCeil := false
	for i := 0; i < cs.ClusterSize; i++ {
		if cs.Clusters[i].Ceil > v {
			slot = i
			foundByCeil = true
			break
		}
	}
	if slot == -1 && cs.ClusterSize > 0 {
		slot = cs.ClusterSize - 1
	}

	// The floor-containment shortcut only applies when v fell strictly
	// below some cluster's ceiling during the scan: it means v lies in
	// that cluster's [Floor, Ceil) range. If v exceeds every cluster's
	// ceiling, slot is just the nearest candidate for the delta fallback
	// below, not an automatic match.
	if foundByCeil && v >= cs.Clusters[slot].Floor {
		return slot, cs.Clusters[slot].Center, true
	}

	candIdx := -1
	var candVal uint16
	delta := int(^uint(0) >> 1) // max int

	if slot >= 0 {
		candIdx = slot
		candVal = cs.Clusters[slot].Center
		delta = absDelta(v, candVal)

		if below := slot - 1; below >= 0 {
			if d := absDelta(v, cs.Clusters[below].Center); d < delta {
				candIdx, candVal, delta = below, cs.Clusters[below].Center, d
			}
		}
	}

	for a := 0; a < cs.AggregSize2; a++ {
		if d := absDelta(v, cs.Aggregations[a].Center); d < delta {
			candIdx = cs.ClusterSize + a
			candVal = cs.Aggregations[a].Center
			delta = d
		}
	}

	if candIdx == -1 {
		return -1, 0, false
	}

	near = delta < int(candVal>>opt)
	return candIdx, candVal, near
}
