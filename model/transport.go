package model

// PlayState is the playback engine's logical state.
type PlayState int

const (
	Idle PlayState = iota // no playlist loaded
	Loaded
	Playing
	Paused
)

func (s PlayState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Transport is the playback snapshot delivered to subscribers.
// Invariants: 0 <= Index < playlist length when a playlist is loaded;
// 0 <= Position <= Duration; Muted forces effective output volume to zero
// without mutating Volume.
type Transport struct {
	Index    int       `json:"index"`
	State    PlayState `json:"state"`
	Position float64   `json:"position"` // seconds
	Duration float64   `json:"duration"` // seconds, 0 while unknown
	Volume   float64   `json:"volume"`   // stored level in [0,1]
	Muted    bool      `json:"muted"`
}

// IsPlaying reports whether the transport is logically playing.
func (t Transport) IsPlaying() bool {
	return t.State == Playing
}
