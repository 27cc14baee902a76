package categorizer

// Resorb detects a macro spike/drop inside a 5-element window (a,b,c,d,e)
// and, if doing so beats the best-fit residual, collapses it to
// (A, center, 0, 0, E) where A and E are the classified edges of the
// window: a bounded buffer consumed in one pass, no backtracking, explicit
// fence against overrun.
//
// start is the 1-indexed position of a in v, needed so an aggregation
// match for the synthesized middle value can be recorded as a fresh
// outlier at start+1.
//
// bestFitRelDelta is the per-mille residual the caller already computed
// for the naive best-fit replacement of every element; Resorb only accepts
// when it can beat that.
func (cs *CategorySet) Resorb(window [5]uint16, start int, bestFitRelDelta int) (newWindow [5]uint16, relDelta int, accepted bool, err error) {
	a := val(window[0])
	b := val(window[1])
	c := val(window[2])
	d := val(window[3])
	e := val(window[4])

	_, A, _ := Classify(cs, a, Opt3)
	_, E, _ := Classify(cs, e, Opt3)

	sum := int(a) + int(b) + int(c) + int(d) + int(e)

	t := int(a) - int(A) + int(b) + int(c) + int(d) + int(e) - int(E)
	if t < 0 {
		return window, bestFitRelDelta, false, newError(ErrInternalNegativeTripleSum, "resorber virtual triple sum went negative")
	}
	if t > Ceil {
		return window, bestFitRelDelta, false, newError(ErrResorberTripleSumError, "resorber triple sum exceeds ceiling")
	}

	opt := Opt4
	if bestFitRelDelta > 100 {
		opt = Opt3
	}

	tIdx, tCenter, tNear := Classify(cs, uint16(t), opt)
	if !tNear {
		return window, bestFitRelDelta, false, nil
	}

	chosen := int(A) + int(tCenter) + int(E)
	diff := sum - chosen
	if diff < 0 {
		diff = -diff
	}
	if sum != 0 {
		relDelta = diff * 1000 / sum
	}

	if relDelta >= bestFitRelDelta {
		return window, bestFitRelDelta, false, nil
	}

	newWindow = [5]uint16{val(A), val(tCenter), 0, 0, val(E)}

	if tIdx >= cs.ClusterSize {
		if err := cs.addOutlier(start + 1); err != nil {
			return newWindow, relDelta, true, err
		}
	}

	return newWindow, relDelta, true, nil
}
