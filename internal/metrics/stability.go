package metrics

import (
	"github.com/san-kum/pvsim/internal/sim"
)

// Containment is the fraction of ticks on which no particle had to be
// relocated.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f *sim.Frame) {
	c.samples++
	if f.Relocated > 0 {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Counter sums an integer quantity read from each frame.
type Counter struct {
	name  string
	read  func(f *sim.Frame) int
	total int
}

func NewRelocations() *Counter {
	return &Counter{name: "relocations", read: func(f *sim.Frame) int { return f.Relocated }}
}

func NewRescaleSkips() *Counter {
	return &Counter{name: "rescale_skips", read: func(f *sim.Frame) int {
		if f.RescaleSkipped {
			return 1
		}
		return 0
	}}
}

func (c *Counter) Name() string         { return c.name }
func (c *Counter) Observe(f *sim.Frame) { c.total += c.read(f) }
func (c *Counter) Value() float64       { return float64(c.total) }
func (c *Counter) Reset()               { c.total = 0 }
