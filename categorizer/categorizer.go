package categorizer

// Result is everything Categorize produces for one trace: the two
// per-polarity category sets plus the corrector's trustworthiness
// indicator.
type Result struct {
	Categories [2]CategorySet // indexed by Polarity

	// CorrectionSkipped is true when an overlap flag from either polarity
	// suppressed the corrector. The category sets are still valid and
	// printable; the duration array was left untouched.
	CorrectionSkipped bool

	// MaxRelDelta is the largest per-mille residual observed across every
	// untrusted-subsequence correction applied, 0 if none were needed.
	MaxRelDelta int
}

// Categorize is the core API: it clusters both polarities of v, corrects
// reliable outliers and untrusted subsequences in place, and returns the
// category sets the sequence printer needs to render the trace.
//
// v is 1-indexed: v[0] is unused, v[1] is the first HIGH, v[2] the first
// LOW, and so on through v[2*count], followed by the two sentinel records
// described in the duration-array format. len(v) must be at least
// 2*count+3.
func Categorize(v []uint16, count, unreliableCount int) (*Result, error) {
	res := &Result{}

	for _, pol := range [2]Polarity{PolarityLow, PolarityHigh} {
		cs, err := Cluster(v, count, pol)
		if err != nil {
			return nil, err
		}
		if err := PostCluster(cs, v, count, pol); err != nil {
			return nil, err
		}
		res.Categories[pol] = *cs
	}

	ptrs := [2]*CategorySet{&res.Categories[PolarityLow], &res.Categories[PolarityHigh]}
	skipped, maxRelDelta, err := Correct(v, count, unreliableCount, &ptrs)
	if err != nil {
		return nil, err
	}
	res.CorrectionSkipped = skipped
	res.MaxRelDelta = maxRelDelta

	return res, nil
}
