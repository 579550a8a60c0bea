package thermo

// Work is the running total of mechanical work done on the gas.
// Compression adds to it, expansion takes from it.
type Work struct {
	total float64
}

// Update integrates P dV over one control point move with the trapezoidal rule.
func (w *Work) Update(oldP, newP, oldV, newV float64) {
	if oldV == newV {
		return
	}
	w.total -= (oldP + newP) / 2 * (newV - oldV)
}

func (w *Work) Total() float64 { return w.total }

func (w *Work) Reset() { w.total = 0 }
