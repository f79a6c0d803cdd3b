package models

// SessionType is the short session code used by the timing data source.
type SessionType string

const (
	SessionRace       SessionType = "R"
	SessionQualifying SessionType = "Q"
	SessionPractice1  SessionType = "FP1"
	SessionPractice2  SessionType = "FP2"
	SessionPractice3  SessionType = "FP3"
)

// sessionTypeNames maps session codes to their display names.
var sessionTypeNames = map[SessionType]string{
	SessionRace:       "Race",
	SessionQualifying: "Qualifying",
	SessionPractice1:  "Practice 1",
	SessionPractice2:  "Practice 2",
	SessionPractice3:  "Practice 3",
}

// DisplayName returns the human-readable session name, or the raw code for
// unknown types.
func (t SessionType) DisplayName() string {
	if name, ok := sessionTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// Valid reports whether t is one of the supported session codes.
func (t SessionType) Valid() bool {
	_, ok := sessionTypeNames[t]
	return ok
}

// SessionTypes lists the supported session codes in selector order.
func SessionTypes() []SessionType {
	return []SessionType{
		SessionRace,
		SessionQualifying,
		SessionPractice1,
		SessionPractice2,
		SessionPractice3,
	}
}

// Circuits is the fixed event selector list. Combinations of year, event and
// session type are not validated beyond membership here; whether data exists
// for a combination is only known to the timing data source.
var Circuits = []string{
	"Bahrain", "Saudi Arabia", "Australia", "Japan", "China",
	"Miami", "Monaco", "Spain", "Canada", "Austria",
	"Silverstone", "Hungary", "Belgium", "Netherlands", "Monza",
	"Singapore", "Austin", "Mexico", "Brazil", "Las Vegas", "Abu Dhabi",
}

// KnownCircuit reports whether name is in the event selector list.
func KnownCircuit(name string) bool {
	for _, c := range Circuits {
		if c == name {
			return true
		}
	}
	return false
}
