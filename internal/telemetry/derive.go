package telemetry

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/langchou/apexgazer/internal/models"
)

const (
	gravity = 9.81

	// Physical ceilings for longitudinal acceleration. An F1 car does not
	// exceed roughly +3g under power or -7g under braking; anything beyond
	// is a telemetry glitch.
	accelCeilingMs2 = 30.0
	decelFloorMs2   = -70.0

	// Display clamps applied to the reported g figures, independent of the
	// percentile clipping above.
	displayAccelMaxG = 3.0
	displayDecelMaxG = 7.0

	// Minimum number of defined acceleration values before percentile
	// clipping is trusted.
	minSamplesForClipping = 10
)

// ErrNoSamples is returned when Derive is invoked with an empty lap.
var ErrNoSamples = errors.New("telemetry: no samples")

// Annotated is the working copy of a telemetry sample with derived columns.
// AccelMs2 is nil where acceleration is undefined (first sample, or a zero /
// negative time delta to the previous sample).
type Annotated struct {
	models.TelemetrySample
	DistanceM float64  `json:"distance_m"`
	AccelMs2  *float64 `json:"accel_ms2,omitempty"`
}

// Derive runs the derivation pipeline over one lap's samples: speed unit
// conversion, per-sample acceleration by differencing, percentile-based
// outlier clipping, and the scalar summary metrics. The input is never
// mutated; derived columns live on the returned annotated copy.
func Derive(samples []models.TelemetrySample) (models.DerivedMetrics, []Annotated, error) {
	if len(samples) == 0 {
		return models.DerivedMetrics{}, nil, ErrNoSamples
	}

	annotated := annotate(samples)

	accels := definedAccels(annotated)
	clipped := false
	if len(accels) >= minSamplesForClipping {
		floor, ceiling := clipBounds(accels)
		for i := range annotated {
			if annotated[i].AccelMs2 == nil {
				continue
			}
			v := math.Min(math.Max(*annotated[i].AccelMs2, floor), ceiling)
			annotated[i].AccelMs2 = &v
		}
		clipped = true
	}

	metrics := summarize(samples, annotated)
	metrics.ValidAccelCount = len(accels)
	metrics.ClippingApplied = clipped

	return metrics, annotated, nil
}

// annotate computes the elapsed-distance and acceleration columns. Distance
// is integrated from speed so it can serve as the chart X axis even when the
// source carries no distance channel.
func annotate(samples []models.TelemetrySample) []Annotated {
	annotated := make([]Annotated, len(samples))
	for i, s := range samples {
		annotated[i] = Annotated{TelemetrySample: s}
		if i == 0 {
			continue
		}
		annotated[i].DistanceM = annotated[i-1].DistanceM

		dt := s.ElapsedSeconds - samples[i-1].ElapsedSeconds
		if dt <= 0 {
			// Undefined, not a divide-by-zero.
			continue
		}
		annotated[i].DistanceM += s.SpeedKmh / 3.6 * dt

		a := (s.SpeedKmh - samples[i-1].SpeedKmh) / 3.6 / dt
		annotated[i].AccelMs2 = &a
	}
	return annotated
}

func definedAccels(annotated []Annotated) []float64 {
	accels := make([]float64, 0, len(annotated))
	for i := range annotated {
		if annotated[i].AccelMs2 != nil {
			accels = append(accels, *annotated[i].AccelMs2)
		}
	}
	return accels
}

// clipBounds intersects the lap's own 1st/99th percentile acceleration with
// the absolute physical ceilings; the tighter bound wins on each side.
func clipBounds(accels []float64) (floor, ceiling float64) {
	sorted := append([]float64(nil), accels...)
	sort.Float64s(sorted)

	p1 := stat.Quantile(0.01, stat.Empirical, sorted, nil)
	p99 := stat.Quantile(0.99, stat.Empirical, sorted, nil)

	floor = math.Max(p1, decelFloorMs2)
	ceiling = math.Min(p99, accelCeilingMs2)
	return floor, ceiling
}

// summarize computes the scalar metrics. Speed, RPM and pedal extrema come
// from the raw samples; the g figures come from the (possibly clipped)
// acceleration column.
func summarize(samples []models.TelemetrySample, annotated []Annotated) models.DerivedMetrics {
	m := models.DerivedMetrics{
		SpeedMaxKmh: samples[0].SpeedKmh,
		SpeedMinKmh: samples[0].SpeedKmh,
		RPMMax:      samples[0].RPM,
		ThrottleMax: samples[0].Throttle,
		BrakeMax:    samples[0].Brake,
	}

	speeds := make([]float64, len(samples))
	for i, s := range samples {
		speeds[i] = s.SpeedKmh
		m.SpeedMaxKmh = math.Max(m.SpeedMaxKmh, s.SpeedKmh)
		m.SpeedMinKmh = math.Min(m.SpeedMinKmh, s.SpeedKmh)
		m.RPMMax = math.Max(m.RPMMax, s.RPM)
		m.ThrottleMax = math.Max(m.ThrottleMax, s.Throttle)
		m.BrakeMax = math.Max(m.BrakeMax, s.Brake)
	}
	m.SpeedAvgKmh = stat.Mean(speeds, nil)

	var accelMax, accelMin float64
	found := false
	for i := range annotated {
		if annotated[i].AccelMs2 == nil {
			continue
		}
		a := *annotated[i].AccelMs2
		if !found {
			accelMax, accelMin = a, a
			found = true
			continue
		}
		accelMax = math.Max(accelMax, a)
		accelMin = math.Min(accelMin, a)
	}
	if found {
		m.AccelMaxG = math.Min(accelMax/gravity, displayAccelMaxG)
		m.DecelMaxG = math.Min(math.Abs(accelMin)/gravity, displayDecelMaxG)
	}

	return m
}
