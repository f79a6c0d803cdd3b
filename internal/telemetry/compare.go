package telemetry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/langchou/apexgazer/internal/models"
)

// ErrEmptyLap is returned by Compare when either lap has no samples.
var ErrEmptyLap = errors.New("telemetry: lap has no samples")

// Compare derives per-metric deltas between two annotated laps. Deltas are
// reported as absolute values with the leader label naming the lap whose
// value is larger.
func Compare(labelA string, a []Annotated, labelB string, b []Annotated) (*models.LapComparison, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyLap
	}

	topA, meanA := speedStats(a)
	topB, meanB := speedStats(b)

	cmp := &models.LapComparison{
		LabelA:            labelA,
		LabelB:            labelB,
		TopSpeedDeltaKmh:  math.Abs(topA - topB),
		MeanSpeedDeltaKmh: math.Abs(meanA - meanB),
	}

	cmp.TopSpeedLeader = labelA
	if topB > topA {
		cmp.TopSpeedLeader = labelB
	}
	cmp.MeanSpeedLeader = labelA
	if meanB > meanA {
		cmp.MeanSpeedLeader = labelB
	}

	return cmp, nil
}

func speedStats(annotated []Annotated) (top, mean float64) {
	speeds := make([]float64, len(annotated))
	top = annotated[0].SpeedKmh
	for i := range annotated {
		speeds[i] = annotated[i].SpeedKmh
		top = math.Max(top, annotated[i].SpeedKmh)
	}
	return top, stat.Mean(speeds, nil)
}
