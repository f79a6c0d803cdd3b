package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/langchou/apexgazer/internal/models"
)

// drsAnomalyFraction is the active-fraction above which DRS data is treated
// as an instrumentation anomaly. DRS cannot legitimately be open for almost
// the entire lap.
const drsAnomalyFraction = 0.95

// SegmentDRS partitions a lap into DRS-active and DRS-inactive samples and
// derives the usage report. It returns nil when the source carries no DRS
// column at all, so callers can simply omit the sub-report.
func SegmentDRS(annotated []Annotated) *models.DRSReport {
	var active, inactive []float64
	present := false
	for i := range annotated {
		if annotated[i].DRS == nil {
			continue
		}
		present = true
		if annotated[i].DRSActive() {
			active = append(active, annotated[i].SpeedKmh)
		} else {
			inactive = append(inactive, annotated[i].SpeedKmh)
		}
	}
	if !present {
		return nil
	}

	report := &models.DRSReport{
		ActiveFraction: float64(len(active)) / float64(len(active)+len(inactive)),
	}
	if len(active) > 0 {
		mean := stat.Mean(active, nil)
		report.ActiveMeanSpeedKmh = &mean
	}
	if len(inactive) > 0 {
		mean := stat.Mean(inactive, nil)
		report.InactiveMeanSpeedKmh = &mean
	}

	if report.ActiveFraction > drsAnomalyFraction {
		// Suppress the gain figure; the dashboard shows
		// "not meaningfully used" instead of a number.
		return report
	}

	if report.ActiveMeanSpeedKmh != nil && report.InactiveMeanSpeedKmh != nil {
		gain := *report.ActiveMeanSpeedKmh - *report.InactiveMeanSpeedKmh
		report.SpeedGainKmh = &gain
		report.MeaningfullyUsed = true
	}
	return report
}
