package player

// Output is the underlying audio primitive the engine drives: one source at
// a time, replaced by Load. Implementations deliver EventSink callbacks from
// their own goroutines, never synchronously from inside an Output method.
type Output interface {
	// Load replaces the current source with locator and routes all further
	// events to sink. Events for the previously loaded source must stop.
	Load(locator string, sink EventSink) error
	// Play starts or resumes the current source. A start rejection is
	// returned to the engine, which swallows it.
	Play() error
	Pause()
	Seek(seconds float64)
	// SetVolume applies the effective output level in [0,1].
	SetVolume(v float64)
	Close() error
}

// EventSink receives the output's asynchronous signals.
type EventSink interface {
	// MetadataLoaded reports the source duration once known.
	MetadataLoaded(durationSeconds float64)
	// ReadyToPlay reports that the loaded source can start without racing
	// its own load. Fired once per Load.
	ReadyToPlay()
	TimeUpdate(positionSeconds float64)
	// Ended reports natural end of the current source.
	Ended()
}
