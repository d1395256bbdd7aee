// plot/plot.go
package plot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SensorType classifies the origin of a Plot.
type SensorType int

const (
	SensorUnknown SensorType = iota
	SensorRadar
	SensorADSB
	SensorSecondary
	SensorOptical
)

func (s SensorType) String() string {
	switch s {
	case SensorRadar:
		return "Radar"
	case SensorADSB:
		return "ADSB"
	case SensorSecondary:
		return "Secondary"
	case SensorOptical:
		return "Optical"
	default:
		return "Unknown"
	}
}

// Plot is a single raw detection produced by the decoder.
type Plot struct {
	PlotID     string
	SensorType SensorType
	SensorID   string

	Timestamp          time.Time
	RangeM             float64
	AzimuthDeg         float64
	ElevationDeg       *float64
	AltitudeFt         *float64
	DopplerVelocityMS  *float64
	RCS                *float64
	Quality            float64

	LatDeg float64
	LonDeg float64

	Mode3AOctal     string
	AircraftAddress string
	Callsign        string
	Squawk          string
}

// NewPlot creates a Plot with a fresh unique identity and a default quality
// of 1.0, matching the "no decoder-supplied quality" case.
func NewPlot(sensor SensorType, sensorID string) *Plot {
	return &Plot{
		PlotID:     uuid.NewString(),
		SensorType: sensor,
		SensorID:   sensorID,
		Quality:    1.0,
	}
}

// Validate checks the Plot's data-model invariants.
func (p *Plot) Validate() error {
	if p.RangeM < 0 {
		return fmt.Errorf("%w: range_m %f < 0", errOutOfRange, p.RangeM)
	}
	if p.AzimuthDeg < 0 || p.AzimuthDeg >= 360 {
		return fmt.Errorf("%w: azimuth_deg %f outside [0,360)", errOutOfRange, p.AzimuthDeg)
	}
	if p.Quality < 0 || p.Quality > 1 {
		return fmt.Errorf("%w: quality %f outside [0,1]", errOutOfRange, p.Quality)
	}
	if p.LatDeg != 0 || p.LonDeg != 0 {
		if p.LatDeg < -90 || p.LatDeg > 90 {
			return fmt.Errorf("%w: lat %f outside [-90,90]", errOutOfRange, p.LatDeg)
		}
		if p.LonDeg < -180 || p.LonDeg > 180 {
			return fmt.Errorf("%w: lon %f outside [-180,180]", errOutOfRange, p.LonDeg)
		}
	}
	return nil
}
