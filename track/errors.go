// track/errors.go
package track

import "github.com/kallerwest/trackfusion/asterix"

// ErrFilterDiverged is returned by Track.Update when the innovation
// covariance is non-invertible; callers fall back to the predicted state.
var ErrFilterDiverged = asterix.ErrFilterDiverged
