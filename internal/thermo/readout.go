package thermo

import (
	"fmt"
	"math"
)

// Readout holds the rounded values shown next to the box.
type Readout struct {
	Temperature int64 `json:"temperature"`
	Work        int64 `json:"work"`
	Heat        int64 `json:"heat"`
}

// NewReadout rounds T, W and the heat Q = U - W implied by dU = Q + W,
// with U measured from absolute zero.
func NewReadout(s GasState, work float64) Readout {
	return Readout{
		Temperature: round(s.Temperature),
		Work:        round(work),
		Heat:        round(s.InternalEnergy - work),
	}
}

func (r Readout) String() string {
	return fmt.Sprintf("T = %d K\nW = %d J\nQ = %d J", r.Temperature, r.Work, r.Heat)
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
