// track/course.go
package track

import "math"

// maxCourseComponents bounds the Gaussian-mixture course model, mirroring
// the variational Bayesian GMM's component cap.
const maxCourseComponents = 5

// courseFeature is one (heading-change, speed, acceleration) observation
// fed to the course model.
type courseFeature struct {
	HeadingChangeDeg float64
	SpeedMS          float64
	AccelMS2         float64
}

// gaussianComponent is one diagonal-covariance component of the mixture,
// parameterised over the 3-feature space; correlations between features are
// not modelled.
type gaussianComponent struct {
	Weight float64
	Mean   [3]float64
	// Var holds the per-feature variances (the covariance diagonal).
	Var [3]float64
}

// CourseModel is a per-track variational-Bayesian-flavoured Gaussian
// mixture over (heading-change, speed, acceleration), used to predict the
// next course and to tighten the association gate on mature tracks.
type CourseModel struct {
	components []gaussianComponent
	trained    bool

	PredictedHeadingChangeDeg float64
	PredictedSpeedMS          float64
	Confidence                float64
}

// RetrainCourseModel refits the mixture from the track's bounded course history. Per
// the design, retraining happens once the history holds at least 3
// samples; until then a zero-lift linear predictor (last observation
// repeats) is used.
func (t *Track) RetrainCourseModel() {
	if len(t.courseHistory) < 3 {
		if len(t.courseHistory) > 0 {
			last := t.courseHistory[len(t.courseHistory)-1]
			t.Course.PredictedHeadingChangeDeg = last.HeadingChangeDeg
			t.Course.PredictedSpeedMS = last.SpeedMS
			t.Course.Confidence = 0.3
		}
		return
	}

	features := make([]courseFeature, len(t.courseHistory))
	for i, c := range t.courseHistory {
		features[i] = courseFeature{
			HeadingChangeDeg: c.HeadingChangeDeg,
			SpeedMS:          c.SpeedMS,
			AccelMS2:         c.AccelMS2,
		}
	}

	t.Course.components = fitGaussianMixture(features, maxCourseComponents)
	t.Course.trained = true

	// Weighted mean of component means, per the prediction rule.
	var meanHeading, meanSpeed, totalWeight float64
	for _, comp := range t.Course.components {
		meanHeading += comp.Weight * comp.Mean[0]
		meanSpeed += comp.Weight * comp.Mean[1]
		totalWeight += comp.Weight
	}
	if totalWeight > 0 {
		meanHeading /= totalWeight
		meanSpeed /= totalWeight
	}

	t.Course.PredictedHeadingChangeDeg = meanHeading
	t.Course.PredictedSpeedMS = meanSpeed

	latest := features[len(features)-1]
	t.Course.Confidence = clamp01(math.Exp(logLikelihood(t.Course.components, latest)))
}

// fitGaussianMixture performs a lightweight variational update: it groups
// features into up to maxComponents clusters by a single responsibility
// pass (k-means-style assignment followed by one mean/variance
// re-estimation), which approximates the infinite-mixture behaviour at the
// scale of a single track's bounded history (≤ 10-20 samples).
func fitGaussianMixture(features []courseFeature, maxComponents int) []gaussianComponent {
	k := maxComponents
	if k > len(features) {
		k = len(features)
	}
	if k < 1 {
		k = 1
	}

	// Seed component means evenly across the observed features.
	comps := make([]gaussianComponent, k)
	for i := range comps {
		idx := i * (len(features) - 1) / maxInt(k-1, 1)
		f := features[idx]
		comps[i].Mean = [3]float64{f.HeadingChangeDeg, f.SpeedMS, f.AccelMS2}
		comps[i].Var = [3]float64{25, 25, 4}
	}

	assignments := make([]int, len(features))
	for i, f := range features {
		best, bestDist := 0, math.MaxFloat64
		for c, comp := range comps {
			d := sqDist(f, comp.Mean)
			if d < bestDist {
				bestDist = d
				best = c
			}
		}
		assignments[i] = best
	}

	counts := make([]int, k)
	sums := make([][3]float64, k)
	for i, f := range features {
		c := assignments[i]
		counts[c]++
		sums[c][0] += f.HeadingChangeDeg
		sums[c][1] += f.SpeedMS
		sums[c][2] += f.AccelMS2
	}

	var out []gaussianComponent
	total := float64(len(features))
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		n := float64(counts[c])
		mean := [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}

		varSum := [3]float64{}
		for i, f := range features {
			if assignments[i] != c {
				continue
			}
			d0 := f.HeadingChangeDeg - mean[0]
			d1 := f.SpeedMS - mean[1]
			d2 := f.AccelMS2 - mean[2]
			varSum[0] += d0 * d0
			varSum[1] += d1 * d1
			varSum[2] += d2 * d2
		}
		variance := [3]float64{
			math.Max(varSum[0]/n, 1.0),
			math.Max(varSum[1]/n, 1.0),
			math.Max(varSum[2]/n, 0.25),
		}

		out = append(out, gaussianComponent{
			Weight: n / total,
			Mean:   mean,
			Var:    variance,
		})
	}
	return out
}

func sqDist(f courseFeature, mean [3]float64) float64 {
	d0 := f.HeadingChangeDeg - mean[0]
	d1 := f.SpeedMS - mean[1]
	d2 := f.AccelMS2 - mean[2]
	return d0*d0 + d1*d1 + d2*d2
}

// logLikelihood computes the log-likelihood of a feature vector under a
// diagonal-covariance Gaussian mixture.
func logLikelihood(comps []gaussianComponent, f courseFeature) float64 {
	if len(comps) == 0 {
		return 0
	}
	var density float64
	for _, c := range comps {
		density += c.Weight * gaussianDensity(f, c)
	}
	if density <= 0 {
		return -700 // underflow guard, exp(-700) ~ 0
	}
	return math.Log(density)
}

func gaussianDensity(f courseFeature, c gaussianComponent) float64 {
	d0 := f.HeadingChangeDeg - c.Mean[0]
	d1 := f.SpeedMS - c.Mean[1]
	d2 := f.AccelMS2 - c.Mean[2]

	exponent := -0.5 * (d0*d0/c.Var[0] + d1*d1/c.Var[1] + d2*d2/c.Var[2])
	norm := 1.0 / math.Sqrt(8*math.Pi*math.Pi*math.Pi*c.Var[0]*c.Var[1]*c.Var[2])
	return norm * math.Exp(exponent)
}

func clamp01(v float64) float64 {
	if v <= 0 {
		return 1e-9
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
