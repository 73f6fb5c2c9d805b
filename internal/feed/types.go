package feed

import (
	"math/rand"
	"time"
)

// DefaultCandidates is the churn simulator's add pool. It intentionally
// overlaps with symbols observers can add; collisions are silent no-ops.
var DefaultCandidates = []string{"UBER", "COIN", "PLTR", "SQ", "SHOP", "DIS", "NKE", "PYPL"}

// for deterministic testing
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// for deterministic values
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

type RealRand struct{ *rand.Rand }

func (r RealRand) Intn(n int) int   { return r.Rand.Intn(n) }
func (r RealRand) Float64() float64 { return r.Rand.Float64() }

// NewRand builds a time-seeded source. Each background loop gets its own;
// *rand.Rand is not safe for concurrent use.
func NewRand() RealRand {
	return RealRand{rand.New(rand.NewSource(time.Now().UnixNano()))}
}
