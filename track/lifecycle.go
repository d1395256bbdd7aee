// track/lifecycle.go
package track

// LifecycleConfig carries the plot-count and miss-count thresholds that
// drive track state transitions. Two defaults conflict in the source
// material for termination_threshold (5 vs 15) and coasting_threshold (3
// vs 8); both are left to configuration with no default mandated here.
type LifecycleConfig struct {
	ConfirmationThreshold int
	CoastingThreshold     int
	TerminationThreshold  int
	MinSpeedThreshold     float64
	MaxSpeedThreshold     float64
}

// ApplyLifecycle evaluates the lifecycle rules, in order, after a track has
// been updated (or missed) in the current batch.
func (t *Track) ApplyLifecycle(cfg LifecycleConfig) {
	if t.StateVal == Tentative && t.PlotCount >= cfg.ConfirmationThreshold {
		t.StateVal = Confirmed
	}
	if t.StateVal == Confirmed && t.ConsecutiveMisses >= cfg.CoastingThreshold {
		t.StateVal = Coasting
	}
	if t.StateVal != Terminated && t.ConsecutiveMisses >= cfg.TerminationThreshold {
		t.StateVal = Terminated
	}
	if t.StateVal == Tentative && t.PlotCount < cfg.ConfirmationThreshold && t.ConsecutiveMisses >= 7 {
		t.StateVal = Terminated
	}

	if t.ConsecutiveMisses > cfg.TerminationThreshold+1 {
		t.ConsecutiveMisses = cfg.TerminationThreshold + 1
	}
}

// UpdateQuality recomputes the track's quality score after an association
// decision (hit or miss) per the design's formula.
func (t *Track) UpdateQuality(cfg LifecycleConfig, missedThisBatch bool) {
	plotFactor := float64(t.PlotCount) / 10.0
	if plotFactor > 1 {
		plotFactor = 1
	}

	missFactor := 1.0 - float64(t.ConsecutiveMisses)/10.0
	if missFactor < 0 {
		missFactor = 0
	}

	speedPlausibility := 1.0
	if !missedThisBatch {
		if t.SpeedMS < cfg.MinSpeedThreshold {
			t.belowMinSpeedStreak++
			if t.belowMinSpeedStreak > 3 {
				speedPlausibility = 0.7
			}
		} else {
			t.belowMinSpeedStreak = 0
		}
		if t.SpeedMS > cfg.MaxSpeedThreshold {
			speedPlausibility = 0.5
		}
	}

	// heading_deg is only meaningful once the track is moving fast enough
	// that the Kalman velocity vector isn't dominated by measurement noise.
	if t.SpeedMS < cfg.MinSpeedThreshold {
		t.HasHeading = false
	}

	score := plotFactor * missFactor * speedPlausibility
	if score < 0.1 {
		score = 0.1
	}
	t.QualityScore = score
}

// RegisterMiss increments the miss counter for a track that was not
// associated with any plot in the current batch.
func (t *Track) RegisterMiss() {
	t.ConsecutiveMisses++
}

// RegisterHit resets the miss counter and increments the plot count for a
// track that was associated in the current batch.
func (t *Track) RegisterHit() {
	t.ConsecutiveMisses = 0
	t.PlotCount++
}
