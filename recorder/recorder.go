package recorder

import (
	"fmt"
	"sync"

	"github.com/ookwolf/ookwolf/categorizer"
)

// MaxDurations bounds one recording session, the same fixed-capacity
// discipline the categorizer package uses for its own tables: one edge
// timer tick array, no reallocation mid-session.
const MaxDurations = 4096

// Accumulator turns a stream of edge timestamps (in whatever tick unit the
// caller's timer uses) into the 1-indexed, flag-packed duration array the
// categorizer package consumes. It has no notion of protocol, preamble or
// framing; it only measures time between edges and marks a measurement
// unreliable when the receiver couldn't vouch for it.
//
// A single mutex-guarded buffer backs the whole accumulation: a running
// count and an overflow error once capacity is reached, instead of silent
// truncation.
type Accumulator struct {
	mu       sync.Mutex
	v        [2*MaxDurations + 3]uint16
	count    int
	lastTick uint32
	haveLast bool
	overflow bool
}

// NewAccumulator returns an empty Accumulator ready for edges.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AddEdge records an edge at the given tick, reliable by default. The
// first call only establishes the starting tick; every later call appends
// one duration.
func (a *Accumulator) AddEdge(tick uint32) error {
	return a.addEdge(tick, false)
}

// AddUnreliableEdge is for edges the receiver flagged as suspect (for
// example, a signal dropout straddled the edge): the resulting duration is
// marked unreliable so the corrector knows to treat it with suspicion.
func (a *Accumulator) AddUnreliableEdge(tick uint32) error {
	return a.addEdge(tick, true)
}

func (a *Accumulator) addEdge(tick uint32, unreliable bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.haveLast {
		a.lastTick = tick
		a.haveLast = true
		return nil
	}

	if a.count >= MaxDurations {
		if !a.overflow {
			a.overflow = true
		}
		return fmt.Errorf("recorder: session exceeded %d durations", MaxDurations)
	}

	duration := tick - a.lastTick
	a.lastTick = tick

	value := uint16(duration)
	clamped := unreliable
	if uint32(value) != duration || value >= categorizer.Ceil {
		value = categorizer.Ceil - 2
		clamped = true
	}

	a.count++
	a.v[a.count] = encodeDuration(value, clamped)

	return nil
}

// encodeDuration mirrors the categorizer package's private bit-packing
// (mask the LSB to 0, OR in 1 for unreliable) without importing an
// unexported symbol: the wire convention is part of this package's public
// contract with categorizer, not an implementation detail.
func encodeDuration(value uint16, unreliable bool) uint16 {
	v := value &^ 1
	if unreliable {
		v |= 1
	}
	return v
}

// Finish appends the two CEIL sentinel records the categorizer package's
// duration-array format requires and returns the finished array along with
// the pair count and the number of unreliable durations recorded.
func (a *Accumulator) Finish() (v []uint16, count int, unreliableCount int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pairCount := a.count / 2
	out := make([]uint16, 2*pairCount+3)
	copy(out, a.v[:2*pairCount+1])
	out[2*pairCount+1] = categorizer.Ceil
	out[2*pairCount+2] = categorizer.Ceil

	unreliableCount = 0
	for i := 1; i <= 2*pairCount; i++ {
		if out[i]&1 != 0 {
			unreliableCount++
		}
	}

	return out, pairCount, unreliableCount
}
