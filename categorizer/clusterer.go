package categorizer

// The clusterer builds adaptive-bin histograms over the trusted interior of
// one polarity's durations, emitting clusters, collecting stray values as
// outliers, and widening its bin width as it climbs into sparser, higher
// value ranges: a flat state machine over bounded arrays, no recursion, no
// heap churn, run in multiple passes over a fixed-size scratch buffer.

type clusterPass struct {
	floor    int
	w2       uint
	bins     [NB]uint8
	hits     [NB][FirstHits]int
	hitCount [NB]int

	// totalHits counts every first-hit slot claimed across the whole
	// clustering run for this polarity, not just the current pass: the
	// NH-slot hit table is a budget spanning every pass, since a wide
	// dynamic range can force several floor/width escalations before a
	// polarity's clustering finishes. reset() must not clear this.
	totalHits int
}

func (p *clusterPass) binWidth() int { return 1 << p.w2 }
func (p *clusterPass) ceiling() int  { return p.floor + NB*p.binWidth() }

func (p *clusterPass) reset() {
	p.bins = [NB]uint8{}
	p.hitCount = [NB]int{}
}

// trusted reports whether v[i] and both its immediate neighbours are
// reliable, making v[i] usable for histogram fill.
func trusted(v []uint16, i int) bool {
	return !unreliable(v[i]) && !unreliable(v[i-1]) && !unreliable(v[i+1])
}

// Cluster runs the adaptive histogram loop over one polarity's trusted
// interior of v[1..2*count] (excluding BorderWidth samples at each end)
// and returns a freshly built CategorySet, or an error if the trace is
// unclusterable for this polarity.
func Cluster(v []uint16, count int, pol Polarity) (*CategorySet, error) {
	cs := &CategorySet{}

	lo := 1 + BorderWidth
	hi := 2*count - BorderWidth
	upper := 2*count + 2 // last valid index, including sentinels, for neighbour bounds checks

	pass := &clusterPass{floor: 0, w2: initialW2}

	for {
		pass.reset()
		nextFloor := Ceil
		ceil := pass.ceiling()

		for i := lo; i <= hi; i++ {
			if PolarityOf(i) != pol {
				continue
			}
			if i-1 < 1 || i+1 > upper {
				continue
			}
			if !trusted(v, i) {
				continue
			}

			value := int(val(v[i]))
			if value < pass.floor {
				continue
			}
			if value >= ceil {
				if value < nextFloor {
					nextFloor = value
				}
				continue
			}

			bin := (value - pass.floor) / pass.binWidth()
			if pass.bins[bin] < 255 {
				pass.bins[bin]++
			}
			if pass.hitCount[bin] < FirstHits {
				if pass.totalHits >= NH {
					return nil, newError(ErrTooManyHits, "too many hit-table entries")
				}
				pass.hits[bin][pass.hitCount[bin]] = i
				pass.hitCount[bin]++
				pass.totalHits++
			}
		}

		requeued, err := extractClusters(cs, pass, &nextFloor)
		if err != nil {
			return nil, err
		}

		if nextFloor >= Ceil {
			break
		}

		if requeued {
			if pass.w2 > 0 {
				pass.w2--
			}
			pass.floor = nextFloor
		} else {
			oldWidth := pass.binWidth()
			newFloor := nextFloor - oldWidth
			if newFloor < pass.floor {
				newFloor = pass.floor
			}
			for newFloor >= pass.floor+NB*pass.binWidth() {
				pass.w2++
			}
			pass.floor = newFloor
		}
	}

	if cs.ClusterSize == 0 {
		return nil, newError(ErrNoCluster, "no cluster emitted for polarity "+pol.String())
	}

	return cs, nil
}

// extractClusters walks one pass's filled bins, materializing clusters,
// raising outliers for runs too small to be a cluster, flagging overlap
// for runs whose bin-count trend reverses, and requeuing a run that
// reaches the top of the histogram without terminating. *nextFloor is
// updated in place when a requeue occurs. A run that reaches the top while
// starting at bin 0 with the bin width already at its minimum cannot be
// requeued without repeating the identical pass, so it is materialized (or
// spilled to outliers) on the spot instead.
func extractClusters(cs *CategorySet, pass *clusterPass, nextFloor *int) (requeued bool, err error) {
	bin := 0
	for bin < NB {
		if pass.bins[bin] == 0 {
			bin++
			continue
		}

		start := bin
		stop := bin
		consecEmpty := 0
		reachedTop := true
		overlapAt := -1

		var window [3]int
		wfill := 0
		prevSum := -1
		descending := false

		k := bin
		for ; k < NB; k++ {
			if pass.bins[k] == 0 {
				consecEmpty++
				if consecEmpty > MaxHoles {
					stop = k - consecEmpty + 1
					reachedTop = false
					break
				}
				cs.InlierCount++
			} else {
				consecEmpty = 0
			}
			stop = k + 1

			window[wfill%3] = int(pass.bins[k])
			wfill++
			if wfill >= 3 && (k-start) >= 5 {
				sum3 := window[0] + window[1] + window[2]
				if prevSum >= 0 {
					if sum3 < prevSum {
						descending = true
					} else if descending && sum3-prevSum > 3 {
						cs.Overlap = true
						overlapAt = k
						break
					}
				}
				prevSum = sum3
			}
		}

		if overlapAt >= 0 {
			stop = overlapAt
			reachedTop = false
		}

		if reachedTop {
			if !(start == 0 && pass.w2 == 0) {
				*nextFloor = pass.floor + start*pass.binWidth()
				for z := start; z < NB; z++ {
					pass.bins[z] = 0
					pass.hitCount[z] = 0
				}
				return true, nil
			}
			// The run starts at the pass's own floor and the bin width is
			// already at its minimum: requeuing would hand Cluster back
			// the same floor and the same width, replaying this pass
			// forever. Neither lever can move, so materialize the run
			// (or spill it to outliers) instead of looping.
			stop = NB
		}

		runLen := stop - start
		if runLen >= MinSize {
			if err := materialize(cs, pass, start, stop); err != nil {
				return false, err
			}
		} else {
			for z := start; z < stop; z++ {
				for h := 0; h < pass.hitCount[z]; h++ {
					if err := cs.addOutlier(pass.hits[z][h]); err != nil {
						return false, err
					}
				}
				pass.bins[z] = 0
				pass.hitCount[z] = 0
			}
		}

		bin = stop
	}

	return false, nil
}

func materialize(cs *CategorySet, pass *clusterPass, start, stop int) error {
	binWidth := pass.binWidth()

	var count int
	var weightedOffset float64
	for z := start; z < stop; z++ {
		n := int(pass.bins[z])
		count += n
		weightedOffset += float64(n) * float64(z-start)
	}

	var meanOfBins float64
	if count > 0 {
		meanOfBins = weightedOffset / float64(count)
	}

	floorVal := start*binWidth + pass.floor
	ceilVal := stop*binWidth + pass.floor
	// meanOfBins is the bin-count-weighted average offset (in bin units)
	// of the run's mass from `start`; start+meanOfBins is therefore the
	// weighted bin index of the centroid, and +binWidth/2 converts that
	// bin's lower edge to its midpoint.
	centerF := (float64(start)+meanOfBins)*float64(binWidth) + float64(pass.floor) + float64(binWidth)/2

	center := uint16(centerF) &^ 1

	for z := start; z < stop; z++ {
		pass.bins[z] = 0
		pass.hitCount[z] = 0
	}

	return cs.addCluster(Cluster{
		Count:  count,
		Floor:  uint16(floorVal),
		Center: center,
		Ceil:   uint16(ceilVal),
	})
}
