package categorizer

// PostCluster runs the border-classification, border-aggregation and
// separator-barrier stages that refine cs after Cluster has produced the
// initial cluster table for this polarity.
func PostCluster(cs *CategorySet, v []uint16, count int, pol Polarity) error {
	lo := 1 + BorderWidth
	hi := 2*count - BorderWidth
	upper := 2 * count

	initialBarrier := cs.Clusters[cs.ClusterSize-1].Ceil

	for i := 1; i <= upper; i++ {
		if PolarityOf(i) != pol {
			continue
		}
		isBorder := i < lo || i > hi
		if !isBorder && val(v[i]) <= initialBarrier {
			continue
		}
		if unreliable(v[i]) {
			continue
		}

		_, _, near := Classify(cs, v[i], Opt3)
		if near {
			continue
		}
		if i == 1 {
			// First HIGH is explicitly suppressed from border outlier capture.
			continue
		}
		if err := cs.addOutlier(i); err != nil {
			return err
		}
	}

	if err := cs.Aggregate(v, MinSize); err != nil {
		return err
	}
	cs.AggregSize1 = cs.AggregSize2

	pruneClassifiable(cs, v)

	computeSeparatorBarrier(cs, v)

	insertionSortInts(cs.Outliers[:cs.OutlierSize])

	return nil
}

func pruneClassifiable(cs *CategorySet, v []uint16) {
	n := cs.OutlierSize
	kept := 0
	for i := 0; i < n; i++ {
		idx := cs.Outliers[i]
		_, _, near := Classify(cs, v[idx], Opt3)
		if !near {
			cs.Outliers[kept] = idx
			kept++
		}
	}
	cs.OutlierSize = kept
}

func computeSeparatorBarrier(cs *CategorySet, v []uint16) {
	barrier := cs.Clusters[cs.ClusterSize-1].Ceil

	for iter := 0; iter < MaxOutliers+1; iter++ {
		found := false
		var candidate uint16
		for i := 0; i < cs.OutlierSize; i++ {
			ov := val(v[cs.Outliers[i]])
			if uint32(ov) < uint32(barrier)*10 && ov > candidate {
				candidate = ov
				found = true
			}
		}
		if !found || candidate <= barrier {
			break
		}
		if barrier < Ceil/10 {
			barrier = candidate
			continue
		}
		barrier = Ceil
		break
	}

	cs.SeparatorBarrier = barrier
}
