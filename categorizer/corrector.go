package categorizer

// Correct repairs reliable outliers (by context-aware reclassification or
// aggregation) and untrusted subsequences (by best-fit approximation or by
// resorbing a spike/drop triplet), mutating v in place. It is skipped
// entirely if either polarity raised the overlap flag during clustering:
// fidelity cannot be guaranteed in that case, so skipped reports true and
// the categorized output produced downstream is still printable, just
// marked unreliable by context.
//
// maxRelDelta is the largest per-mille residual observed across every
// untrusted-subsequence correction applied, the trace's trustworthiness
// indicator; reliable-outlier corrections do not contribute to it.
func Correct(v []uint16, count, unreliableCount int, categories *[2]*CategorySet) (skipped bool, maxRelDelta int, err error) {
	if categories[PolarityLow].Overlap || categories[PolarityHigh].Overlap {
		return true, 0, nil
	}

	if err := mergedOutlierPass(v, categories); err != nil {
		return false, 0, err
	}

	if unreliableCount > 0 {
		delta, err := untrustedSubsequencePass(v, count, categories)
		if err != nil {
			return false, 0, err
		}
		maxRelDelta = delta
	}

	return false, maxRelDelta, nil
}

func catFor(categories *[2]*CategorySet, idx int) *CategorySet {
	return categories[PolarityOf(idx)]
}

func mergedOutlierPass(v []uint16, categories *[2]*CategorySet) error {
	low := categories[PolarityLow]
	high := categories[PolarityHigh]

	lowIdx := append([]int(nil), low.Outliers[:low.OutlierSize]...)
	highIdx := append([]int(nil), high.Outliers[:high.OutlierSize]...)
	merged := orderedMergeInts(lowIdx, highIdx)

	keep := make([]bool, len(merged))
	for i := range keep {
		keep[i] = true
	}

	pos := len(merged) - 1
	for pos >= 0 {
		i := merged[pos]
		cs := catFor(categories, i)

		if val(v[i]) > cs.SeparatorBarrier {
			pos--
			continue
		}
		if i-1 < 1 || i+1 >= len(v) {
			pos--
			continue
		}

		prevCat := catFor(categories, i-1)
		nextCat := catFor(categories, i+1)

		_, centerPrev, nearPrev := Classify(prevCat, v[i-1], Opt2)
		_, centerCur, nearCur := Classify(cs, v[i], Opt2)
		_, centerNext, nearNext := Classify(nextCat, v[i+1], Opt2)

		flag := nearCur || (nearPrev && nearNext)

		sumv := int(val(v[i-1])) + int(val(v[i])) + int(val(v[i+1]))
		resistantSum := int(centerPrev) + int(val(v[i])) + int(centerNext)
		correctableSum := int(centerPrev) + int(centerCur) + int(centerNext)

		relResistant := relDeltaOf(sumv, resistantSum)
		relCorrectable := relDeltaOf(sumv, correctableSum)

		if !flag || relResistant < relCorrectable {
			pos--
			continue
		}

		v[i-1] = encode(centerPrev, false)
		v[i] = encode(centerCur, false)
		v[i+1] = encode(centerNext, false)
		keep[pos] = false

		if pos-1 >= 0 && merged[pos-1] == i-1 {
			keep[pos-1] = false
			pos -= 2
			continue
		}
		pos--
	}

	low.OutlierSize = 0
	high.OutlierSize = 0
	for pos, k := range keep {
		if !k {
			continue
		}
		idx := merged[pos]
		if err := catFor(categories, idx).addOutlier(idx); err != nil {
			return err
		}
	}

	if err := low.Aggregate(v, 0); err != nil {
		return err
	}
	if err := high.Aggregate(v, 0); err != nil {
		return err
	}

	return nil
}

func relDeltaOf(sum, chosen int) int {
	if sum == 0 {
		return 0
	}
	diff := sum - chosen
	if diff < 0 {
		diff = -diff
	}
	return diff * 1000 / sum
}

func untrustedSubsequencePass(v []uint16, count int, categories *[2]*CategorySet) (maxRelDelta int, err error) {
	lo := 1 + BorderWidth
	hi := 2*count - BorderWidth

	ext := NewExtractor()
	for {
		start, stop, ok := ext.Next(v, 2*count)
		if !ok {
			break
		}
		if start < lo || stop > hi {
			continue
		}

		length := stop - start + 1
		if length != 4 && length != 5 {
			return maxRelDelta, newError(ErrSubsequenceLength, "untrusted window length must be 4 or 5")
		}

		if err := promoteTopOutliers(v, start, stop, categories); err != nil {
			return maxRelDelta, err
		}

		centers := make([]uint16, length)
		allNear := true
		sumv, sumc := 0, 0
		for k := 0; k < length; k++ {
			idx := start + k
			_, c, near := Classify(catFor(categories, idx), v[idx], Opt3)
			centers[k] = c
			if !near {
				allNear = false
			}
			sumv += int(val(v[idx]))
			sumc += int(c)
		}
		relDelta := relDeltaOf(sumv, sumc)

		if allNear {
			for k := 0; k < length; k++ {
				v[start+k] = encode(centers[k], false)
			}
			if relDelta > maxRelDelta {
				maxRelDelta = relDelta
			}
			continue
		}

		if length == 5 {
			var window [5]uint16
			copy(window[:], v[start:start+5])
			cs := catFor(categories, start)
			newWindow, resorbedDelta, accepted, rErr := cs.Resorb(window, start, relDelta)
			if rErr != nil {
				return maxRelDelta, rErr
			}
			if accepted {
				copy(v[start:start+5], newWindow[:])
				if resorbedDelta > maxRelDelta {
					maxRelDelta = resorbedDelta
				}
				continue
			}
		}

		for k := 0; k < length; k++ {
			v[start+k] = encode(centers[k], false)
		}
		if relDelta > maxRelDelta {
			maxRelDelta = relDelta
		}
	}

	return maxRelDelta, nil
}

func promoteTopOutliers(v []uint16, start, stop int, categories *[2]*CategorySet) error {
	promoted := map[Polarity]bool{}
	for idx := start; idx <= stop; idx++ {
		cs := catFor(categories, idx)
		if val(v[idx]) <= cs.SeparatorBarrier {
			continue
		}
		if err := cs.addOutlier(idx); err != nil {
			return err
		}
		promoted[PolarityOf(idx)] = true
	}
	for pol, did := range promoted {
		if !did {
			continue
		}
		if err := categories[pol].Aggregate(v, 0); err != nil {
			return err
		}
	}
	return nil
}
