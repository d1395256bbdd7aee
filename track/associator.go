// track/associator.go
package track

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/kallerwest/trackfusion/geo"
	"github.com/kallerwest/trackfusion/plot"
)

// AssociatorConfig carries the gating/scoring/PDA tuning knobs.
type AssociatorConfig struct {
	PDAGateThreshold        float64
	PDAEnabled              bool
	ClutterDensity          float64
	MaxAssociationDistanceM float64
	SensorTimeThresholdSec  float64
}

// candidate is a gated (track, distance, score) triple for one plot.
type candidate struct {
	track *Track
	dPos  float64
	dM    float64
	score float64
}

const baseGateM = 2000.0

// dynamicGate computes the per-track Euclidean gate radius.
func dynamicGate(t *Track) float64 {
	speedFactor := 1 + math.Min(t.SpeedMS/50.0, 5)
	coastFactor := 1.0
	if t.StateVal == Coasting {
		coastFactor = 2.0
	}
	quality := t.QualityScore
	if quality < 0.2 {
		quality = 0.2
	}
	gate := baseGateM * speedFactor * coastFactor / quality
	if gate > 15000 {
		gate = 15000
	}
	return gate
}

// gateCandidates evaluates every track against a single plot's predicted
// residual, returning those inside both the statistical and Euclidean gate.
func gateCandidates(tracks []*Track, p *plot.Plot, px, py float64, cfg AssociatorConfig, estCfg EstimatorConfig, fusionWeight func(*Track) float64) []candidate {
	live := lo.Filter(tracks, func(t *Track, _ int) bool { return t.StateVal != Terminated })

	var out []candidate
	for _, t := range live {
		dt := p.Timestamp.Sub(t.LastUpdate).Seconds()
		predX, predY := t.PredictedPosition(dt)
		dx, dy := px-predX, py-predY
		dPos := math.Hypot(dx, dy)

		gate := dynamicGate(t)
		if dPos > gate {
			continue
		}

		r := measurementNoise(estCfg, fusionWeight(t))
		s := t.InnovationCovariance(r)
		dM, err := MahalanobisDistance(dx, dy, s)
		if err != nil {
			continue
		}
		if dM > cfg.PDAGateThreshold {
			continue
		}

		out = append(out, candidate{track: t, dPos: dPos, dM: dM})
	}
	return out
}

// scoreCandidate computes the combined position/course score for a gated
// candidate against an observed bearing from the track's last position.
func scoreCandidate(t *Track, dPos, observedBearingDeg float64, gate float64) float64 {
	sPos := 1 - dPos/gate
	if sPos < 0 {
		sPos = 0
	}
	if sPos > 1 {
		sPos = 1
	}

	variance := t.CircularVariance()
	sigma := math.Sqrt(variance) * 180.0 / math.Pi
	tau := math.Max(15.0, 3*sigma)

	deltaTheta := angularDiffDeg(observedBearingDeg, t.lastAzimuth+t.Course.PredictedHeadingChangeDeg)

	var sCourse float64
	if math.Abs(deltaTheta) <= tau {
		sCourse = math.Exp(-deltaTheta * deltaTheta / (2 * tau * tau))
	} else {
		sCourse = 0.1
	}
	if variance < 0.1 {
		sCourse *= 1.2
		if sCourse > 1 {
			sCourse = 1
		}
	}

	wPos, wCourse := 0.7, 0.3
	if len(t.courseHistory) >= 3 {
		wPos, wCourse = 0.3, 0.7
	}

	return wPos*sPos + wCourse*sCourse
}

func angularDiffDeg(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}

// selectionThreshold returns s_min for a track, looser for immature or
// low-quality tracks.
func selectionThreshold(t *Track) float64 {
	if len(t.courseHistory) >= 3 && t.QualityScore > 0.7 {
		return 0.4
	}
	return 0.2
}

// AssociateBatch assigns each plot in a timestamp-sorted batch to at most
// one track, creating new Tentative tracks for unassociated plots. It
// returns the updated/created tracks touched by the batch, processing the
// batch atomically with respect to the track set: every gating decision is
// made against the track states as they stood when the batch began, not as
// tracks are updated mid-batch, except for the already-claimed-this-batch
// exclusion below.
func AssociateBatch(tracks []*Track, plots []*plot.Plot, origin geo.Origin, cfg AssociatorConfig, estCfg EstimatorConfig) []*Track {
	sorted := make([]*plot.Plot, len(plots))
	copy(sorted, plots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	claimed := make(map[string]bool, len(tracks))
	touched := make(map[string]*Track, len(tracks))

	for _, p := range sorted {
		px, py := geo.CartesianFromOrigin(origin, p.LatDeg, p.LonDeg)

		fusionWeight := func(t *Track) float64 { return t.FusionWeight(p, cfg.SensorTimeThresholdSec) }

		active := lo.Filter(tracks, func(t *Track, _ int) bool { return !claimed[t.TrackID] })

		candidates := gateCandidates(active, p, px, py, cfg, estCfg, fusionWeight)

		var winner *Track
		if len(candidates) > 0 {
			if cfg.PDAEnabled && len(candidates) > 1 {
				winner = selectByPDA(candidates, cfg)
			}
			if winner == nil {
				winner = selectByScore(candidates, p, px, py)
			}
		}

		if winner == nil {
			nt := NewTrack(p, px, py, p.Timestamp)
			touched[nt.TrackID] = nt
			continue
		}

		dt := p.Timestamp.Sub(winner.LastUpdate).Seconds()
		w := fusionWeight(winner)
		if err := winner.Update(px, py, dt, estCfg, w); err != nil {
			winner.Predict(dt, estCfg)
		}
		winner.RecordSensorContribution(p.SensorType, p.Timestamp, w)
		if p.Callsign != "" {
			winner.Callsign = p.Callsign
		}
		winner.RegisterHit()
		winner.recordHistory(px, py, p.AzimuthDeg, p.Timestamp)
		if len(winner.posHistory) >= 2 {
			recordCourseFromHistory(winner)
			winner.RetrainCourseModel()
		}
		winner.LastUpdate = p.Timestamp
		winner.lastAzimuth = p.AzimuthDeg
		winner.hasLastAzimuth = true

		claimed[winner.TrackID] = true
		touched[winner.TrackID] = winner
	}

	for _, t := range tracks {
		if !claimed[t.TrackID] {
			t.RegisterMiss()
			touched[t.TrackID] = t
		}
	}

	out := make([]*Track, 0, len(touched))
	for _, t := range touched {
		out = append(out, t)
	}
	return out
}

func recordCourseFromHistory(t *Track) {
	n := len(t.posHistory)
	last := t.posHistory[n-1]
	prev := t.posHistory[n-2]
	dt := last.T.Sub(prev.T).Seconds()
	if dt <= 0 {
		return
	}
	bearing := math.Atan2(last.X-prev.X, last.Y-prev.Y) * 180.0 / math.Pi
	if bearing < 0 {
		bearing += 360
	}
	headingChange := 0.0
	if t.hasLastAzimuth {
		headingChange = angularDiffDeg(bearing, t.lastAzimuth)
	}
	speed := math.Hypot(last.X-prev.X, last.Y-prev.Y) / dt
	accel := 0.0
	if n >= 3 {
		before := t.posHistory[n-3]
		dtPrev := prev.T.Sub(before.T).Seconds()
		if dtPrev > 0 {
			prevSpeed := math.Hypot(prev.X-before.X, prev.Y-before.Y) / dtPrev
			accel = (speed - prevSpeed) / dt
		}
	}
	t.recordCourse(headingChange, speed, accel, last.T)
}

// selectByScore picks the highest-scoring gated candidate, applying the
// configured selection threshold and tie-breaking rules.
func selectByScore(candidates []candidate, p *plot.Plot, px, py float64) *Track {
	for i := range candidates {
		c := &candidates[i]
		lastX, lastY := c.track.Position()
		bearing := math.Atan2(px-lastX, py-lastY) * 180.0 / math.Pi
		if bearing < 0 {
			bearing += 360
		}
		c.score = scoreCandidate(c.track, c.dPos, bearing, dynamicGate(c.track))
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.dM != b.dM {
			return a.dM < b.dM
		}
		return a.track.CreatedAt.Before(b.track.CreatedAt)
	})

	best := candidates[0]
	if best.score >= selectionThreshold(best.track) {
		return best.track
	}
	return nil
}

// selectByPDA computes PDA association probabilities across the gated
// candidates and returns the winner if its probability clears 0.3, else nil
// so the caller falls back to plain scoring.
func selectByPDA(candidates []candidate, cfg AssociatorConfig) *Track {
	clutter := cfg.ClutterDensity
	if clutter <= 0 {
		clutter = 1e-7
	}
	weights := lo.Map(candidates, func(c candidate, _ int) float64 { return math.Exp(-0.5 * c.dM) })
	sum := lo.Sum(weights) + clutter

	bestIdx, bestP := -1, 0.0
	for i, w := range weights {
		pr := w / sum
		if pr > bestP {
			bestP = pr
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestP > 0.3 {
		return candidates[bestIdx].track
	}
	return nil
}
