// Package model holds the per-side state of the two-party conflict model.
//
// The package defines:
//
//   - [Coefficients]: the structural parameter bundle shared by both sides of a trial
//   - [Policy]: a closed set of exogenous time policies (constant, ramp, table)
//   - [Belligerent]: one side's stocks, configuration and daily [Belligerent.Update]
//   - [History]: the append-only per-day record of every derived quantity
//
// # Example
//
//	coeffs := model.DefaultCoefficients()
//	a, _ := model.NewBelligerent(cfgA, coeffs)
//	b, _ := model.NewBelligerent(cfgB, coeffs)
//	ma, mb := a.MilitaryCapability(), b.MilitaryCapability()
//	a.Update(0, mb, 2.5)
//	b.Update(0, ma, 2.5)
//
// # Thread Safety
//
// A Belligerent is owned by a single trial and is NOT safe for concurrent use.
// Coefficients and Policy are plain values and may be shared freely.
package model
