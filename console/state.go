package console

// State represents where the session is in its lifecycle
type State int

const (
	StateClosed State = iota
	StateOpen
	StateReading
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateReading:
		return "READING"
	default:
		return "UNKNOWN"
	}
}

// StatusInfo is a snapshot of the session for status broadcasting
type StatusInfo struct {
	State     string `json:"state"`
	Mode      string `json:"mode"`
	Device    string `json:"device"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Lines     int    `json:"lines"`
	LastError string `json:"last_error,omitempty"`
}

// StatusCallback is called when the session state changes
type StatusCallback func(info StatusInfo)
