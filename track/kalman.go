// track/kalman.go
package track

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// EstimatorConfig carries the Kalman/association tuning knobs from
// configuration (see the config package for defaults and validation).
type EstimatorConfig struct {
	ProcessNoiseStd     float64
	AccelerationNoiseStd float64
	MeasurementNoiseStd float64
	ManeuverThresholdG  float64
}

const gravityMS2 = 9.80665

// transitionMatrix builds F for the constant-acceleration model over Δt,
// in block form with 2x2 identity sub-blocks.
func transitionMatrix(dt float64) *mat.Dense {
	f := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		f.Set(i, i, 1)
	}
	// px += vx*dt, py += vy*dt
	f.Set(0, 2, dt)
	f.Set(1, 3, dt)
	// vx += ax*dt, vy += ay*dt
	f.Set(2, 4, dt)
	f.Set(3, 5, dt)
	// px += 0.5*ax*dt^2, py += 0.5*ay*dt^2
	f.Set(0, 4, 0.5*dt*dt)
	f.Set(1, 5, 0.5*dt*dt)
	return f
}

// processNoise builds Q, the discrete constant-acceleration process noise,
// scaled by processNoiseStd^2 and augmented with accelerationNoiseStd^2 on
// the (ax, ay) block.
func processNoise(dt float64, cfg EstimatorConfig) *mat.Dense {
	q := mat.NewDense(6, 6, nil)
	sigma2 := cfg.ProcessNoiseStd * cfg.ProcessNoiseStd
	accelSigma2 := cfg.AccelerationNoiseStd * cfg.AccelerationNoiseStd

	dt2 := dt * dt
	dt3 := dt2 * dt
	dt4 := dt2 * dt2

	// Position/velocity block, standard discrete white-noise-acceleration
	// terms, applied independently to x and y.
	posVel := [2]int{0, 1}
	velIdx := [2]int{2, 3}
	for k := 0; k < 2; k++ {
		p := posVel[k]
		v := velIdx[k]
		q.Set(p, p, dt4/4*sigma2)
		q.Set(p, v, dt3/2*sigma2)
		q.Set(v, p, dt3/2*sigma2)
		q.Set(v, v, dt2*sigma2)
	}

	// Acceleration block noise.
	q.Set(4, 4, accelSigma2)
	q.Set(5, 5, accelSigma2)

	return q
}

// Predict advances the track's state and covariance over dt seconds using
// the constant-acceleration model.
func (t *Track) Predict(dt float64, cfg EstimatorConfig) {
	if dt <= 0 {
		return
	}
	f := transitionMatrix(dt)
	q := processNoise(dt, cfg)

	var xNew mat.VecDense
	xNew.MulVec(f, t.X)
	t.X = &xNew

	var fp, fpft mat.Dense
	fp.Mul(f, t.P)
	fpft.Mul(&fp, f.T())
	fpft.Add(&fpft, q)
	t.P = &fpft
}

// measurementNoise returns R = (measurementNoiseStd^2 / w) * I for
// sensor-fusion weight w.
func measurementNoise(cfg EstimatorConfig, weight float64) *mat.Dense {
	if weight <= 0 {
		weight = 0.01
	}
	sigma2 := cfg.MeasurementNoiseStd * cfg.MeasurementNoiseStd / weight
	r := mat.NewDense(2, 2, nil)
	r.Set(0, 0, sigma2)
	r.Set(1, 1, sigma2)
	return r
}

// Update applies a position measurement (mx, my) at elapsed dt with
// sensor-fusion weight w. If the innovation covariance cannot be inverted,
// it restores X and P as they were before the call and returns
// ErrFilterDiverged; the caller then advances the state with Predict.
func (t *Track) Update(mx, my float64, dt float64, cfg EstimatorConfig, weight float64) error {
	savedX := mat.VecDenseCopyOf(t.X)
	savedP := mat.DenseCopyOf(t.P)

	t.Predict(dt, cfg)

	r := measurementNoise(cfg, weight)
	s := t.InnovationCovariance(r)

	var sInv mat.Dense
	if err := sInv.Inverse(s); err != nil {
		t.X = savedX
		t.P = savedP
		return ErrFilterDiverged
	}

	px, py := t.Position()
	innovation := mat.NewVecDense(2, []float64{mx - px, my - py})

	// H = [I2 0 0], so P*H^T is just the first two columns of P.
	pht := mat.NewDense(6, 2, nil)
	for i := 0; i < 6; i++ {
		pht.Set(i, 0, t.P.At(i, 0))
		pht.Set(i, 1, t.P.At(i, 1))
	}

	var k mat.Dense
	k.Mul(pht, &sInv)

	var correction mat.VecDense
	correction.MulVec(&k, innovation)

	var xNew mat.VecDense
	xNew.AddVec(t.X, &correction)
	t.X = &xNew

	var kh mat.Dense
	kh.Mul(&k, hMatrix())

	ident := identity6()
	var imkh mat.Dense
	imkh.Sub(ident, &kh)

	var pNew mat.Dense
	pNew.Mul(&imkh, t.P)
	t.P = &pNew
	symmetrize(t.P)

	t.deriveKinematics(dt)
	return nil
}

func hMatrix() *mat.Dense {
	h := mat.NewDense(2, 6, nil)
	h.Set(0, 0, 1)
	h.Set(1, 1, 1)
	return h
}

func identity6() *mat.Dense {
	m := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func symmetrize(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			avg := (m.At(i, j) + m.At(j, i)) / 2
			m.Set(i, j, avg)
			m.Set(j, i, avg)
		}
	}
}

// deriveKinematics computes speed/heading from the Kalman state, guarding
// against filter divergence during long coasting by falling back to a
// finite-difference speed estimate when the two disagree by more than
// 50 m/s.
func (t *Track) deriveKinematics(dt float64) {
	vx, vy := t.Velocity()
	kalmanSpeed := math.Hypot(vx, vy)

	speed := kalmanSpeed
	if dt > 0 && len(t.posHistory) >= 2 {
		prev := t.posHistory[len(t.posHistory)-2]
		last := t.posHistory[len(t.posHistory)-1]
		fdSpeed := math.Hypot(last.X-prev.X, last.Y-prev.Y) / dt
		if math.Abs(kalmanSpeed-fdSpeed) > 50 {
			speed = fdSpeed
		}
	}

	t.SpeedMS = speed
	heading := math.Atan2(vx, vy) * 180.0 / math.Pi
	if heading < 0 {
		heading += 360
	}
	t.HeadingDeg = heading
	t.HasHeading = true
}

// ManeuverClass classifies the current acceleration magnitude.
type ManeuverClass int

const (
	Straight ManeuverClass = iota
	Turn
	Acceleration
)

func (m ManeuverClass) String() string {
	switch m {
	case Turn:
		return "Turn"
	case Acceleration:
		return "Acceleration"
	default:
		return "Straight"
	}
}

// Maneuver classifies the track's current acceleration against the
// configured maneuver threshold (in g).
func (t *Track) Maneuver(cfg EstimatorConfig) ManeuverClass {
	ax, ay := t.Acceleration()
	mag := math.Hypot(ax, ay)
	if mag <= cfg.ManeuverThresholdG*gravityMS2 {
		return Straight
	}
	if math.Abs(ax) <= math.Abs(ay) {
		return Turn
	}
	return Acceleration
}
