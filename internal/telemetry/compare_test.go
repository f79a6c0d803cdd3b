package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langchou/apexgazer/internal/models"
)

func annotatedLap(speeds ...float64) []Annotated {
	annotated := make([]Annotated, len(speeds))
	for i, v := range speeds {
		annotated[i] = Annotated{TelemetrySample: models.TelemetrySample{SpeedKmh: v}}
	}
	return annotated
}

func TestCompareEmptyLap(t *testing.T) {
	_, err := Compare("VER", annotatedLap(300), "HAM", nil)
	assert.ErrorIs(t, err, ErrEmptyLap)

	_, err = Compare("VER", nil, "HAM", annotatedLap(300))
	assert.ErrorIs(t, err, ErrEmptyLap)
}

func TestCompareDeltas(t *testing.T) {
	cmp, err := Compare(
		"VER", annotatedLap(200, 300, 250), // top 300, mean 250
		"HAM", annotatedLap(220, 280, 240), // top 280, mean ~246.7
	)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, cmp.TopSpeedDeltaKmh, 1e-9)
	assert.Equal(t, "VER", cmp.TopSpeedLeader)
	assert.InDelta(t, 250.0-740.0/3.0, cmp.MeanSpeedDeltaKmh, 1e-9)
	assert.Equal(t, "VER", cmp.MeanSpeedLeader)
}

func TestCompareLeaderAttribution(t *testing.T) {
	cmp, err := Compare(
		"A", annotatedLap(200, 200),
		"B", annotatedLap(260, 130), // higher top, lower mean
	)
	require.NoError(t, err)

	assert.Equal(t, "B", cmp.TopSpeedLeader)
	assert.InDelta(t, 60.0, cmp.TopSpeedDeltaKmh, 1e-9)
	assert.Equal(t, "A", cmp.MeanSpeedLeader)
	assert.InDelta(t, 5.0, cmp.MeanSpeedDeltaKmh, 1e-9)
}
