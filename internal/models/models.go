package models

import (
	"time"
)

// Session is one loaded F1 session, identified by year + event + session type.
// A row exists once the session's laps and telemetry have been cached locally.
type Session struct {
	ID          int64       `json:"id" db:"id"`
	Year        int         `json:"year" db:"year"`
	EventName   string      `json:"event_name" db:"event_name"`
	SessionType SessionType `json:"session_type" db:"session_type"`
	LoadedAt    time.Time   `json:"loaded_at" db:"loaded_at"`
}

// Lap is one completed lap within a session. Sector times are optional;
// some sources do not deliver them and the analysis degrades gracefully.
type Lap struct {
	ID        int64  `json:"id" db:"id"`
	SessionID int64  `json:"session_id" db:"session_id"`
	Driver    string `json:"driver" db:"driver"`
	LapNumber int    `json:"lap_number" db:"lap_number"`
	LapTimeMs int64  `json:"lap_time_ms" db:"lap_time_ms"`
	Sector1Ms *int64 `json:"sector1_ms,omitempty" db:"sector1_ms"`
	Sector2Ms *int64 `json:"sector2_ms,omitempty" db:"sector2_ms"`
	Sector3Ms *int64 `json:"sector3_ms,omitempty" db:"sector3_ms"`
}

// TelemetrySample is one time-series row of a lap's telemetry. Samples are
// produced once at load time and never mutated; derived columns go onto a
// working copy in the telemetry package.
type TelemetrySample struct {
	ID             int64   `json:"id" db:"id"`
	LapID          int64   `json:"lap_id" db:"lap_id"`
	ElapsedSeconds float64 `json:"elapsed_seconds" db:"elapsed_seconds"` // monotonic non-decreasing
	X              float64 `json:"x" db:"x"`                             // meters
	Y              float64 `json:"y" db:"y"`                             // meters
	SpeedKmh       float64 `json:"speed_kmh" db:"speed_kmh"`
	Throttle       float64 `json:"throttle" db:"throttle"` // 0-100 %
	Brake          float64 `json:"brake" db:"brake"`       // 0-100 %, binary sources yield 0/100
	RPM            float64 `json:"rpm" db:"rpm"`
	Gear           int     `json:"gear" db:"gear"` // 0 = neutral / n/a
	DRS            *int    `json:"drs,omitempty" db:"drs"`
}

// DRSActive reports whether the sample carries an active DRS code.
func (s *TelemetrySample) DRSActive() bool {
	return s.DRS != nil && *s.DRS > 0
}

// LapSummary bundles a lap with its owning driver's telemetry for analysis.
type LapSummary struct {
	Lap     Lap               `json:"lap"`
	Samples []TelemetrySample `json:"samples"`
}
