package livetiming

// SessionInfo identifies one session at the timing data source.
type SessionInfo struct {
	SessionKey  string `json:"session_key"`
	Year        int    `json:"year"`
	EventName   string `json:"event_name"`
	SessionType string `json:"session_type"`
	CircuitName string `json:"circuit_name,omitempty"`
}

// LapData is one completed lap as delivered by the source. Sector times may
// be absent depending on the session.
type LapData struct {
	Driver    string `json:"driver"`
	LapNumber int    `json:"lap_number"`
	LapTimeMs int64  `json:"lap_time_ms"`
	Sector1Ms *int64 `json:"sector1_ms,omitempty"`
	Sector2Ms *int64 `json:"sector2_ms,omitempty"`
	Sector3Ms *int64 `json:"sector3_ms,omitempty"`
}

// SampleData is one telemetry row for a lap. The DRS code is omitted by
// sources that do not record it.
type SampleData struct {
	TimeSeconds float64 `json:"time_seconds"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	SpeedKmh    float64 `json:"speed_kmh"`
	Throttle    float64 `json:"throttle"`
	Brake       float64 `json:"brake"`
	RPM         float64 `json:"rpm"`
	Gear        int     `json:"gear"`
	DRS         *int    `json:"drs,omitempty"`
}
