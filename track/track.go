// track/track.go
package track

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/kallerwest/trackfusion/plot"
)

// State is the lifecycle state of a Track.
type State int

const (
	Tentative State = iota
	Confirmed
	Coasting
	Terminated
)

func (s State) String() string {
	switch s {
	case Tentative:
		return "Tentative"
	case Confirmed:
		return "Confirmed"
	case Coasting:
		return "Coasting"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// posPoint is a bounded history sample of station-Cartesian position.
type posPoint struct {
	X, Y float64
	T    time.Time
}

type azPoint struct {
	AzimuthDeg float64
	T          time.Time
}

type coursePoint struct {
	HeadingChangeDeg float64
	SpeedMS          float64
	AccelMS2         float64
	T                time.Time
}

// SensorContribution tracks the last update time and fused weight for one
// sensor type contributing to a track.
type SensorContribution struct {
	LastUpdate time.Time
	Weight     float64
}

// Track is a time-evolving estimate of a single target.
type Track struct {
	TrackID          string
	OriginalTrackID  string
	StateVal         State

	X  *mat.VecDense // 6-vector [px, py, vx, vy, ax, ay]
	P  *mat.Dense    // 6x6 covariance

	SpeedMS    float64
	HeadingDeg float64
	HasHeading bool
	AltitudeFt *float64
	Callsign   string

	posHistory    []posPoint
	azHistory     []azPoint
	courseHistory []coursePoint

	Course CourseModel

	PlotCount         int
	ConsecutiveMisses int
	QualityScore      float64
	CreatedAt         time.Time
	LastUpdate        time.Time

	Sensors map[plot.SensorType]*SensorContribution

	lastAzimuth    float64
	hasLastAzimuth bool

	belowMinSpeedStreak int
}

const (
	maxPosHistory    = 50
	maxAzHistory     = 50
	maxCourseHistory = 20
)

// NewTrack creates a fresh Tentative track seeded from a single plot.
func NewTrack(p *plot.Plot, x, y float64, now time.Time) *Track {
	t := &Track{
		TrackID:      uuid.NewString(),
		StateVal:     Tentative,
		X:            mat.NewVecDense(6, []float64{x, y, 0, 0, 0, 0}),
		P:            initialCovariance(),
		QualityScore: 0.1,
		CreatedAt:    now,
		LastUpdate:   now,
		Sensors:      make(map[plot.SensorType]*SensorContribution),
		AltitudeFt:   p.AltitudeFt,
		Callsign:     p.Callsign,
	}
	t.PlotCount = 1
	t.recordHistory(x, y, p.AzimuthDeg, now)
	t.Sensors[p.SensorType] = &SensorContribution{LastUpdate: now, Weight: 1.0}
	return t
}

func initialCovariance() *mat.Dense {
	p := mat.NewDense(6, 6, nil)
	diag := []float64{2500, 2500, 400, 400, 100, 100}
	for i, v := range diag {
		p.Set(i, i, v)
	}
	return p
}

// Position returns the track's current (x, y) station-Cartesian position.
func (t *Track) Position() (x, y float64) {
	return t.X.AtVec(0), t.X.AtVec(1)
}

// Velocity returns the track's current (vx, vy) in m/s.
func (t *Track) Velocity() (vx, vy float64) {
	return t.X.AtVec(2), t.X.AtVec(3)
}

// Acceleration returns the track's current (ax, ay) in m/s^2.
func (t *Track) Acceleration() (ax, ay float64) {
	return t.X.AtVec(4), t.X.AtVec(5)
}

func (t *Track) recordHistory(x, y, azimuthDeg float64, when time.Time) {
	t.posHistory = append(t.posHistory, posPoint{X: x, Y: y, T: when})
	if len(t.posHistory) > maxPosHistory {
		t.posHistory = t.posHistory[len(t.posHistory)-maxPosHistory:]
	}

	t.azHistory = append(t.azHistory, azPoint{AzimuthDeg: azimuthDeg, T: when})
	if len(t.azHistory) > maxAzHistory {
		t.azHistory = t.azHistory[len(t.azHistory)-maxAzHistory:]
	}
}

func (t *Track) recordCourse(headingChangeDeg, speedMS, accelMS2 float64, when time.Time) {
	t.courseHistory = append(t.courseHistory, coursePoint{
		HeadingChangeDeg: headingChangeDeg,
		SpeedMS:          speedMS,
		AccelMS2:         accelMS2,
		T:                when,
	})
	if len(t.courseHistory) > maxCourseHistory {
		t.courseHistory = t.courseHistory[len(t.courseHistory)-maxCourseHistory:]
	}
}

// PredictedPosition extrapolates the track's position forward by dt
// seconds using the constant-acceleration state, without mutating state.
func (t *Track) PredictedPosition(dt float64) (x, y float64) {
	px, py := t.Position()
	vx, vy := t.Velocity()
	ax, ay := t.Acceleration()
	x = px + vx*dt + 0.5*ax*dt*dt
	y = py + vy*dt + 0.5*ay*dt*dt
	return x, y
}

// InnovationCovariance returns H P Hᵀ + R for the position-only measurement
// model H = [I 0 0], given measurement noise covariance R (2x2).
func (t *Track) InnovationCovariance(r *mat.Dense) *mat.Dense {
	s := mat.NewDense(2, 2, nil)
	s.Set(0, 0, t.P.At(0, 0))
	s.Set(0, 1, t.P.At(0, 1))
	s.Set(1, 0, t.P.At(1, 0))
	s.Set(1, 1, t.P.At(1, 1))
	s.Add(s, r)
	return s
}

// MahalanobisDistance computes sqrt(d^T S^-1 d) for residual (dx, dy) and
// innovation covariance s.
func MahalanobisDistance(dx, dy float64, s *mat.Dense) (float64, error) {
	var sInv mat.Dense
	if err := sInv.Inverse(s); err != nil {
		return 0, err
	}
	d := mat.NewVecDense(2, []float64{dx, dy})
	var tmp mat.VecDense
	tmp.MulVec(&sInv, d)
	val := mat.Dot(d, &tmp)
	if val < 0 {
		val = 0
	}
	return math.Sqrt(val), nil
}

// CircularVariance computes the circular variance of the course history's
// heading changes, 1 - R where R is the mean resultant length of the
// per-sample unit vectors, used to set association tolerance.
func (t *Track) CircularVariance() float64 {
	n := len(t.courseHistory)
	if n == 0 {
		return 1.0
	}
	cosVals := make([]float64, n)
	sinVals := make([]float64, n)
	for i, c := range t.courseHistory {
		rad := c.HeadingChangeDeg * math.Pi / 180.0
		cosVals[i] = math.Cos(rad)
		sinVals[i] = math.Sin(rad)
	}
	meanCos := stat.Mean(cosVals, nil)
	meanSin := stat.Mean(sinVals, nil)
	return 1.0 - math.Hypot(meanCos, meanSin)
}

// Snapshot is a read-only copy of a Track that shares no memory with the
// live Track, so it can be handed to reader tasks.
type Snapshot struct {
	TrackID           string
	OriginalTrackID   string
	State             State
	X, Y              float64
	SpeedMS           float64
	HeadingDeg        float64
	HasHeading        bool
	AltitudeFt        *float64
	Callsign          string
	PlotCount         int
	ConsecutiveMisses int
	QualityScore      float64
	CreatedAt         time.Time
	LastUpdate        time.Time
	Sensors           []plot.SensorType
}

// Snapshot copies the track's publicly relevant fields into a value type
// with no pointers into the live Track, safe to hand to readers without
// synchronisation.
func (t *Track) Snapshot() Snapshot {
	x, y := t.Position()
	var altitude *float64
	if t.AltitudeFt != nil {
		alt := *t.AltitudeFt
		altitude = &alt
	}

	sensors := make([]plot.SensorType, 0, len(t.Sensors))
	for s := range t.Sensors {
		sensors = append(sensors, s)
	}

	return Snapshot{
		TrackID:           t.TrackID,
		OriginalTrackID:   t.OriginalTrackID,
		State:             t.StateVal,
		X:                 x,
		Y:                 y,
		SpeedMS:           t.SpeedMS,
		HeadingDeg:        t.HeadingDeg,
		HasHeading:        t.HasHeading,
		AltitudeFt:        altitude,
		Callsign:          t.Callsign,
		PlotCount:         t.PlotCount,
		ConsecutiveMisses: t.ConsecutiveMisses,
		QualityScore:      t.QualityScore,
		CreatedAt:         t.CreatedAt,
		LastUpdate:        t.LastUpdate,
		Sensors:           sensors,
	}
}
