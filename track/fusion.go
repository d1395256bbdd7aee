// track/fusion.go
package track

import (
	"math"
	"time"

	"github.com/kallerwest/trackfusion/plot"
)

// typeWeight is the per-sensor-type base weight used in sensor fusion.
func typeWeight(s plot.SensorType) float64 {
	switch s {
	case plot.SensorRadar:
		return 1.0
	case plot.SensorADSB:
		return 0.9
	case plot.SensorSecondary:
		return 0.8
	case plot.SensorOptical:
		return 0.7
	default:
		return 0.5
	}
}

// FusionWeight computes the combined sensor-fusion weight for a plot
// associated to this track: quality * type_weight * time_decay, where the
// time decay is exp(-Δt / sensorTimeThreshold) from the last plot of that
// sensor type.
func (t *Track) FusionWeight(p *plot.Plot, sensorTimeThreshold float64) float64 {
	weight := p.Quality * typeWeight(p.SensorType)

	if contrib, exists := t.Sensors[p.SensorType]; exists {
		deltaT := p.Timestamp.Sub(contrib.LastUpdate).Seconds()
		if deltaT < 0 {
			deltaT = 0
		}
		if sensorTimeThreshold > 0 {
			weight *= math.Exp(-deltaT / sensorTimeThreshold)
		}
	}

	if weight <= 0 {
		weight = 0.01
	}
	return weight
}

// RecordSensorContribution marks that a sensor type has contributed a
// plot to this track, updating its last-update time and fused weight.
func (t *Track) RecordSensorContribution(s plot.SensorType, when time.Time, weight float64) {
	if t.Sensors == nil {
		t.Sensors = make(map[plot.SensorType]*SensorContribution)
	}
	t.Sensors[s] = &SensorContribution{LastUpdate: when, Weight: weight}
}
