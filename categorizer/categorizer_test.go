package categorizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPureTrace lays out a 1-indexed duration array alternating HIGH/LOW
// durations, jittered within each level so the clusterer's histogram sees a
// few adjacent, mostly-filled bins rather than one single spike bin. count
// pairs are emitted, plus the two trailing Ceil sentinel records every trace
// ends with.
func buildPureTrace(count int, highValues, lowValues []uint16) []uint16 {
	v := make([]uint16, 2*count+3)
	for j := 1; j <= count; j++ {
		v[2*j-1] = encode(highValues[(j-1)%len(highValues)], false)
		v[2*j] = encode(lowValues[(j-1)%len(lowValues)], false)
	}
	v[2*count+1] = Ceil
	v[2*count+2] = Ceil
	return v
}

func TestCategorizePureTwoLevelTraceYieldsOneClusterPerPolarity(t *testing.T) {
	count := 60
	// Both levels stay well inside the clusterer's first-pass histogram
	// range (floor 0, ceiling 512 at the initial bin width of 16) so the
	// scenario only exercises single-pass bin formation, not the
	// adaptive floor/width escalation exercised separately elsewhere.
	highJitter := []uint16{380, 400, 420}
	lowJitter := []uint16{60, 80, 100}
	v := buildPureTrace(count, highJitter, lowJitter)

	res, err := Categorize(v, count, 0)
	require.NoError(t, err)
	require.False(t, res.CorrectionSkipped)

	for _, pol := range [2]Polarity{PolarityLow, PolarityHigh} {
		cs := res.Categories[pol]
		assert.Equalf(t, 1, cs.ClusterSize, "%s cluster count", pol)
		assert.Equalf(t, 0, cs.OutlierSize, "%s outlier count", pol)
		assert.Falsef(t, cs.Overlap, "%s overlap flag", pol)
	}

	hiRow, loRow, hiRel, loRel := Print(v, count, &res.Categories)
	assert.Equal(t, strings.Repeat("0", count), hiRow)
	assert.Equal(t, strings.Repeat("0", count), loRow)
	assert.Equal(t, strings.Repeat(" ", count), hiRel)
	assert.Equal(t, strings.Repeat(" ", count), loRel)
}

func TestCategorizeTwoClustersPerPolarityWithGap(t *testing.T) {
	count := 80
	// Two duration levels per polarity, both still inside the first
	// histogram pass (ceiling 512 at bin width 16) but separated by a
	// wide empty run of bins well beyond the tolerated single-hole gap.
	highValues := []uint16{100, 120, 140, 400, 420, 440}
	lowValues := []uint16{60, 80, 100, 300, 320, 340}
	v := buildPureTrace(count, highValues, lowValues)

	res, err := Categorize(v, count, 0)
	require.NoError(t, err)

	for _, pol := range [2]Polarity{PolarityLow, PolarityHigh} {
		cs := res.Categories[pol]
		assert.GreaterOrEqualf(t, cs.ClusterSize, 2, "%s cluster count", pol)
	}
}

// TestCategorizeTooManyClustersOverflowThroughRealTrace drives a genuine
// 9-cluster HIGH trace through Categorize rather than calling addCluster
// directly: six clusters fill the first histogram pass (floor 0, bin width
// 16), and three more values sitting beyond that pass's ceiling force a
// floor/width escalation into a second pass that supplies a seventh and an
// eighth cluster before the ninth overflows MaxClusters.
func TestCategorizeTooManyClustersOverflowThroughRealTrace(t *testing.T) {
	// Pass 1 (floor 0, width 16): six 3-bin runs, each sample on its bin's
	// center so materialize recovers it exactly, separated by two empty
	// bins (MaxHoles is 1, so one hole would be swallowed into the same
	// run). Bin groups: [0,2],[5,7],[10,12],[15,17],[20,22],[25,27].
	pass1 := []uint16{
		8, 24, 40,
		88, 104, 120,
		168, 184, 200,
		248, 264, 280,
		328, 344, 360,
		408, 424, 440,
	}
	// Pass 2 (floor 976, width 32, derived from pass 1's smallest
	// out-of-range value, 992): three more 3-bin runs at the same spacing,
	// the third of which overflows MaxClusters.
	pass2 := []uint16{
		992, 1024, 1056,
		1152, 1184, 1216,
		1312, 1344, 1376,
	}

	const padPairs = 8
	var highValues []uint16
	for p := 0; p < padPairs; p++ {
		highValues = append(highValues, pass1[0])
	}
	highValues = append(highValues, pass1...)
	highValues = append(highValues, pass2...)
	for p := 0; p < padPairs; p++ {
		highValues = append(highValues, pass1[0])
	}

	count := len(highValues)
	lowValues := make([]uint16, count)
	lowJitter := []uint16{60, 80, 100}
	for i := range lowValues {
		lowValues[i] = lowJitter[i%len(lowJitter)]
	}

	v := buildPureTrace(count, highValues, lowValues)

	_, err := Categorize(v, count, 0)
	require.Error(t, err)
	assert.Equal(t, ErrTooManyClusters, CodeOf(err))
}

func TestCategorizeTooManyClustersOverflow(t *testing.T) {
	cs := &CategorySet{}
	for i := 0; i < MaxClusters; i++ {
		err := cs.addCluster(Cluster{Count: 5, Floor: uint16(i * 1000), Center: uint16(i*1000 + 10), Ceil: uint16(i*1000 + 20)})
		require.NoError(t, err)
	}
	err := cs.addCluster(Cluster{Count: 5, Floor: 9000, Center: 9010, Ceil: 9020})
	assert.Error(t, err)
	assert.Equal(t, ErrTooManyClusters, CodeOf(err))
}

func TestCategorizeTooManyOutliersOverflow(t *testing.T) {
	cs := &CategorySet{}
	for i := 0; i < MaxOutliers; i++ {
		require.NoError(t, cs.addOutlier(i+1))
	}
	err := cs.addOutlier(999)
	assert.Error(t, err)
	assert.Equal(t, ErrTooManyOutliers, CodeOf(err))
}

func TestCodeOfNilIsOK(t *testing.T) {
	assert.Equal(t, OK, CodeOf(nil))
}
