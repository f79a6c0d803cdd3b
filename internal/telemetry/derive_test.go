package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langchou/apexgazer/internal/models"
)

// ramp builds a lap sampled at 1 Hz with the given speeds in km/h.
func ramp(speeds ...float64) []models.TelemetrySample {
	samples := make([]models.TelemetrySample, len(speeds))
	for i, v := range speeds {
		samples[i] = models.TelemetrySample{
			ElapsedSeconds: float64(i),
			SpeedKmh:       v,
		}
	}
	return samples
}

func TestDeriveEmptyInput(t *testing.T) {
	_, _, err := Derive(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestDeriveAcceleration(t *testing.T) {
	metrics, annotated, err := Derive(ramp(100, 100, 150))
	require.NoError(t, err)
	require.Len(t, annotated, 3)

	assert.Nil(t, annotated[0].AccelMs2, "first sample has no predecessor")
	require.NotNil(t, annotated[1].AccelMs2)
	assert.InDelta(t, 0.0, *annotated[1].AccelMs2, 1e-9)
	require.NotNil(t, annotated[2].AccelMs2)
	assert.InDelta(t, 50.0/3.6, *annotated[2].AccelMs2, 1e-6) // ~13.9 m/s²

	// ~1.42 g, below every clipping threshold, reported unchanged.
	assert.InDelta(t, 50.0/3.6/9.81, metrics.AccelMaxG, 1e-6)
	assert.False(t, metrics.ClippingApplied, "2 valid accels is below the clipping minimum")
	assert.Equal(t, 2, metrics.ValidAccelCount)
}

func TestDeriveZeroTimeDelta(t *testing.T) {
	samples := ramp(100, 120, 140)
	samples[1].ElapsedSeconds = 0 // duplicate timestamp

	_, annotated, err := Derive(samples)
	require.NoError(t, err)

	assert.Nil(t, annotated[1].AccelMs2, "zero time delta must yield an undefined value")
	require.NotNil(t, annotated[2].AccelMs2)
}

func TestDeriveSingleSample(t *testing.T) {
	metrics, annotated, err := Derive(ramp(250))
	require.NoError(t, err)
	require.Len(t, annotated, 1)

	assert.Zero(t, metrics.AccelMaxG)
	assert.Zero(t, metrics.DecelMaxG)
	assert.Equal(t, 0, metrics.ValidAccelCount)
	assert.Equal(t, 250.0, metrics.SpeedMaxKmh)
}

func TestDeriveRawStats(t *testing.T) {
	samples := ramp(80, 120, 160, 200)
	samples[1].Throttle = 98
	samples[2].Brake = 100
	samples[3].RPM = 11500

	metrics, _, err := Derive(samples)
	require.NoError(t, err)

	assert.Equal(t, 200.0, metrics.SpeedMaxKmh)
	assert.Equal(t, 80.0, metrics.SpeedMinKmh)
	assert.InDelta(t, 140.0, metrics.SpeedAvgKmh, 1e-9)
	assert.Equal(t, 98.0, metrics.ThrottleMax)
	assert.Equal(t, 100.0, metrics.BrakeMax)
	assert.Equal(t, 11500.0, metrics.RPMMax)
}

func TestDeriveClippingBounds(t *testing.T) {
	// Gentle ramp with one absurd spike in each direction.
	speeds := make([]float64, 0, 40)
	v := 100.0
	for i := 0; i < 40; i++ {
		v += 3.6 // +1 m/s² at 1 Hz
		speeds = append(speeds, v)
	}
	speeds[20] = speeds[19] + 720  // +200 m/s² glitch
	speeds[21] = speeds[20] - 1080 // -300 m/s² glitch

	metrics, annotated, err := Derive(ramp(speeds...))
	require.NoError(t, err)
	assert.True(t, metrics.ClippingApplied)

	for i := range annotated {
		if annotated[i].AccelMs2 == nil {
			continue
		}
		a := *annotated[i].AccelMs2
		assert.LessOrEqual(t, a, accelCeilingMs2)
		assert.GreaterOrEqual(t, a, decelFloorMs2)
	}

	assert.LessOrEqual(t, metrics.AccelMaxG, displayAccelMaxG)
	assert.LessOrEqual(t, metrics.DecelMaxG, displayDecelMaxG)
}

func TestDeriveDisplayClampWithoutClipping(t *testing.T) {
	// Too few samples for percentile clipping, but the reported g figures
	// still honor the display clamp.
	metrics, _, err := Derive(ramp(0, 360, 0))
	require.NoError(t, err)

	assert.False(t, metrics.ClippingApplied)
	assert.Equal(t, displayAccelMaxG, metrics.AccelMaxG)
	assert.Equal(t, displayDecelMaxG, metrics.DecelMaxG)
}

func TestDeriveDistanceIntegration(t *testing.T) {
	_, annotated, err := Derive(ramp(36, 36, 36)) // 10 m/s constant
	require.NoError(t, err)

	assert.Equal(t, 0.0, annotated[0].DistanceM)
	assert.InDelta(t, 10.0, annotated[1].DistanceM, 1e-9)
	assert.InDelta(t, 20.0, annotated[2].DistanceM, 1e-9)
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	samples := ramp(100, 200, 300)
	before := make([]models.TelemetrySample, len(samples))
	copy(before, samples)

	_, _, err := Derive(samples)
	require.NoError(t, err)
	assert.Equal(t, before, samples)
}
