// Package trackfusion provides a pure Go measurement-to-track pipeline for
// air-surveillance data: ASTERIX decoding (Cat 10/21/48), plot-to-track
// association with a Kalman/IGMM estimator, and CoT/KLV re-encoding.
package trackfusion

// Version information
const (
	Version = "0.1.0"
)
