package models

// DerivedMetrics are the scalar results of the derivation pipeline for one
// lap. Acceleration figures are computed after outlier clipping; the speed,
// RPM and pedal figures come straight from the raw samples.
type DerivedMetrics struct {
	SpeedMaxKmh float64 `json:"speed_max_kmh"`
	SpeedMinKmh float64 `json:"speed_min_kmh"`
	SpeedAvgKmh float64 `json:"speed_avg_kmh"`
	RPMMax      float64 `json:"rpm_max"`
	ThrottleMax float64 `json:"throttle_max"`
	BrakeMax    float64 `json:"brake_max"`

	// Peak longitudinal acceleration / deceleration in g, display-clamped
	// to 3.0 / 7.0 g.
	AccelMaxG float64 `json:"accel_max_g"`
	DecelMaxG float64 `json:"decel_max_g"`

	// ValidAccelCount is the number of samples with a defined acceleration.
	// ClippingApplied is false when fewer than 10 were available.
	ValidAccelCount int  `json:"valid_accel_count"`
	ClippingApplied bool `json:"clipping_applied"`
}

// DRSReport summarizes DRS usage over a lap. SpeedGainKmh is nil when the
// active fraction exceeds 95% of the lap (instrumentation anomaly) or when
// one of the partitions is empty.
type DRSReport struct {
	ActiveFraction       float64  `json:"active_fraction"`
	ActiveMeanSpeedKmh   *float64 `json:"active_mean_speed_kmh,omitempty"`
	InactiveMeanSpeedKmh *float64 `json:"inactive_mean_speed_kmh,omitempty"`
	SpeedGainKmh         *float64 `json:"speed_gain_kmh,omitempty"`
	MeaningfullyUsed     bool     `json:"meaningfully_used"`
}

// LapComparison holds per-metric deltas between two laps. Deltas are
// absolute values; the leader fields name the lap with the larger value.
type LapComparison struct {
	LabelA            string  `json:"label_a"`
	LabelB            string  `json:"label_b"`
	TopSpeedDeltaKmh  float64 `json:"top_speed_delta_kmh"`
	TopSpeedLeader    string  `json:"top_speed_leader"`
	MeanSpeedDeltaKmh float64 `json:"mean_speed_delta_kmh"`
	MeanSpeedLeader   string  `json:"mean_speed_leader"`
}
