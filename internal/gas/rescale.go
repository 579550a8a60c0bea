package gas

import "math"

// Rescale multiplies every velocity by sqrt(target/KE) so the ensemble's
// kinetic energy equals target. Nothing is touched when the current energy
// is zero or either energy is not finite; applied is false then.
func Rescale(e *Ensemble, target float64) (scale float64, applied bool) {
	current := e.KineticEnergy()
	if !(current > 0) || math.IsInf(current, 0) {
		return 0, false
	}
	scale = math.Sqrt(target / current)
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 0, false
	}
	for i := range e.Particles {
		e.Particles[i].Vel = e.Particles[i].Vel.Mul(scale)
	}
	return scale, true
}
