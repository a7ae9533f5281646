// Package units supplies the weight converters the session model has
// injected at its edge. The model itself stores raw text and never interprets
// units; these functions interpret it exactly once, at the submission or
// display boundary.
package units

import "github.com/claude/liftlog/internal/workout"

const lbsPerKg = 2.2046226218487757

// ToKilograms converts a weight entered in the given unit system to the
// canonical kilogram representation. Satisfies workout.WeightConverter.
func ToKilograms(value float64, system workout.UnitSystem) float64 {
	if system == workout.UnitsImperial {
		return value / lbsPerKg
	}
	return value
}

// FromKilograms converts a canonical kilogram weight to the given display
// unit system.
func FromKilograms(kg float64, system workout.UnitSystem) float64 {
	if system == workout.UnitsImperial {
		return kg * lbsPerKg
	}
	return kg
}
