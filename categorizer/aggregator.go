package categorizer

// Aggregate groups the category set's current outlier values into small
// mini-clusters ("aggregations") by folding adjacent near-duplicate values
// into one group using a simple linear scan over sorted input.
//
// Every call starts from scratch beyond the border-aggregation prefix:
// AggregSize2 is reset to AggregSize1 and then extended by whatever groups
// this call finds in the current outlier table. The AggregSize1 prefix
// itself (and its centers) is never touched here; callers lock it in by
// assigning AggregSize1 = AggregSize2 once, right after the first
// (post-clustering, m=MinSize) call.
//
// minSize is the group-size threshold: a group becomes an aggregation only
// when it has more than minSize members. Post-clustering border processing
// calls this with minSize=MinSize (3); the corrector's later passes call it
// with minSize=0, so every surviving outlier (even a singleton) becomes an
// aggregation center.
func (cs *CategorySet) Aggregate(v []uint16, minSize int) error {
	n := cs.OutlierSize
	idx := make([]int, n)
	copy(idx, cs.Outliers[:n])
	insertionSortIndicesByValue(idx, v)

	cs.AggregSize2 = cs.AggregSize1

	i := 0
	for i < n {
		j := i
		sum := int(val(v[idx[i]]))
		count := 1
		for j+1 < n {
			below := int(val(v[idx[j]]))
			above := int(val(v[idx[j+1]]))
			if below+(above>>3) <= above {
				break
			}
			j++
			sum += int(val(v[idx[j]]))
			count++
		}

		if count > minSize {
			if cs.AggregSize2 >= MaxAggregations {
				return newError(ErrTooManyAggregations, "too many aggregations")
			}
			center := uint16(sum/count) &^ 1
			cs.Aggregations[cs.AggregSize2] = Aggregation{Center: center}
			cs.AggregSize2++
		}

		i = j + 1
	}

	return nil
}
