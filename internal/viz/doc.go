// Package viz is the terminal frontend: a Bubble Tea program that draws the
// gas box and the PV plot on a braille [Canvas] and turns mouse drags and
// arrow keys into handle input.
//
// # Key Bindings
//
//	Mouse drag - Move the handle
//	Arrows/hjkl - Nudge the handle
//	Space       - Pause/Resume
//	R           - Restart from the initial state
//	T           - Cycle colour themes
//	?           - Toggle full help
package viz
