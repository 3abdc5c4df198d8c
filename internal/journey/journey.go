package journey

// State is the delivery state of a capability. Valid values are the exact
// literals below; anything else is carried through verbatim by the parser and
// rejected by validation.
type State string

const (
	StateNotStarted       State = "Not started"
	StateInDevelopment    State = "In development"
	StateReleaseCandidate State = "In testing, release candidate"
	StateInProduction     State = "In production"
)

// States lists the allowed capability states in lifecycle order.
var States = []State{
	StateNotStarted,
	StateInDevelopment,
	StateReleaseCandidate,
	StateInProduction,
}

// ParseState returns the State for s if it is one of the allowed literals.
// Matching is exact and case-sensitive.
func ParseState(s string) (State, bool) {
	for _, st := range States {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the allowed literals.
func (s State) Valid() bool {
	_, ok := ParseState(string(s))
	return ok
}

// Capability is a feature attached to an event.
type Capability struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	State       State  `yaml:"state" json:"state"`
	Link        string `yaml:"link,omitempty" json:"link,omitempty"`
	EdgeText    string `yaml:"edge_text,omitempty" json:"edge_text,omitempty"`
}

// Event is one ordered step of a journey.
type Event struct {
	Title        string       `yaml:"title" json:"title"`
	Description  string       `yaml:"description" json:"description"`
	Icon         string       `yaml:"icon,omitempty" json:"icon,omitempty"`
	Capabilities []Capability `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
}

// Journey is the parsed form of a user journey document.
type Journey struct {
	Persona string  `yaml:"persona,omitempty" json:"persona,omitempty"`
	Events  []Event `yaml:"events" json:"events"`
}

// CapabilityCount returns the total number of capabilities across all events.
func (j *Journey) CapabilityCount() int {
	n := 0
	for _, e := range j.Events {
		n += len(e.Capabilities)
	}
	return n
}
