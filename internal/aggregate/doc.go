// Package aggregate reduces ragged per-trial time series to per-step means
// and confidence bands.
//
// Trials that end early produce shorter series. Every call names the padding
// policy used to bring them to a common length:
//
//	TailHold         repeat the trial's last value
//	MeanInterpolate  use the cross-trial mean at each missing step
//
// Both policies agree exactly at every step no trial has ended before.
package aggregate
