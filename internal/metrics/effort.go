package metrics

import (
	"math"

	"github.com/san-kum/pvsim/internal/sim"
)

// WorkEffort is the mean absolute work done per tick by moving the handle.
type WorkEffort struct {
	name     string
	last     float64
	sum      float64
	samples  int
	hasFirst bool
}

func NewWorkEffort() *WorkEffort {
	return &WorkEffort{name: "work_effort"}
}

func (w *WorkEffort) Name() string {
	return w.name
}

func (w *WorkEffort) Observe(f *sim.Frame) {
	if w.hasFirst {
		w.sum += math.Abs(f.Work - w.last)
	} else {
		w.sum += math.Abs(f.Work)
		w.hasFirst = true
	}
	w.last = f.Work
	w.samples++
}

func (w *WorkEffort) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return w.sum / float64(w.samples)
}

func (w *WorkEffort) Reset() {
	w.last = 0
	w.sum = 0
	w.samples = 0
	w.hasFirst = false
}
