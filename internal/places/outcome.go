package places

// Status classifies a single query attempt.
type Status int

// Attempt results.
const (
	StatusFound Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of one attempt. Place is set only for
// StatusFound and Err only for StatusFailed.
type Outcome struct {
	Status Status
	Place  Place
	Err    error
}
