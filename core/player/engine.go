// Package player owns the audio transport state machine: track selection,
// play/pause, seek, volume/mute and auto-advance over a single Output.
// User commands and output events are serialized through one run loop, so
// a command and a near-simultaneous "track ended" signal never interleave.
package player

import (
	"fmt"
	"math"
	"sync"

	"TamilFM/core/notify"
	"TamilFM/logger"
	"TamilFM/model"
)

// DefaultVolume is the level restored by un-muting when no non-zero volume
// was ever set.
const DefaultVolume = 0.7

// Snapshot is the engine state delivered to subscribers: the transport plus
// the track it refers to (nil while the playlist is empty).
type Snapshot struct {
	Transport model.Transport
	Track     *model.Track
}

// Engine is the playback state machine. Construct with NewEngine; methods
// are safe to call from any goroutine. Subscriber callbacks run on the
// engine's own goroutine and must not call back into the engine.
type Engine struct {
	out      Output
	notifier *notify.Notifier[Snapshot]

	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Everything below is owned by the run loop.
	playlist    []model.Track
	t           model.Transport
	lastVolume  float64
	gen         int
	pendingPlay bool
}

// NewEngine creates an engine over out and starts its run loop.
func NewEngine(out Output) *Engine {
	e := &Engine{
		out:        out,
		notifier:   notify.New[Snapshot](),
		cmds:       make(chan func(), 16),
		done:       make(chan struct{}),
		t:          model.Transport{Volume: DefaultVolume},
		lastVolume: DefaultVolume,
	}
	go e.run()
	return e
}

func (e *Engine) run() {
	for {
		select {
		case fn := <-e.cmds:
			fn()
		case <-e.done:
			return
		}
	}
}

// do runs fn on the loop and waits for it. After Close it is a no-op: the
// enqueue may still land in the buffer, so the wait also watches done.
func (e *Engine) do(fn func()) {
	ok := make(chan struct{})
	select {
	case e.cmds <- func() { fn(); close(ok) }:
		select {
		case <-ok:
		case <-e.done:
		}
	case <-e.done:
	}
}

// post queues fn without waiting; used by output events.
func (e *Engine) post(fn func()) {
	select {
	case e.cmds <- fn:
	case <-e.done:
	}
}

// Subscribe registers fn for every transport transition.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	return e.notifier.Subscribe(fn)
}

// Snapshot returns the current engine state.
func (e *Engine) Snapshot() Snapshot {
	var snap Snapshot
	e.do(func() { snap = e.snapshot() })
	return snap
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{Transport: e.t}
	if len(e.playlist) > 0 {
		track := e.playlist[e.t.Index]
		s.Track = &track
	}
	return s
}

func (e *Engine) publish() {
	e.notifier.Publish(e.snapshot())
}

// Close stops the run loop and the output.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.done)
		err = e.out.Close()
	})
	return err
}

// LoadPlaylist replaces the playlist. A non-empty list selects index 0 with
// position reset and no autoplay; an empty list drops back to idle.
func (e *Engine) LoadPlaylist(tracks []model.Track) {
	e.do(func() {
		e.playlist = append([]model.Track(nil), tracks...)
		e.t.Index = 0
		e.t.Position = 0
		e.t.Duration = 0
		if len(e.playlist) == 0 {
			e.t.State = model.Idle
			e.publish()
			return
		}
		e.t.State = model.Loaded
		e.loadCurrent(false)
		e.publish()
	})
}

// loadCurrent points the output at the current track. A new sink generation
// supersedes the previous one, so signals from the old source are dropped
// instead of double-advancing the playlist.
func (e *Engine) loadCurrent(autoplay bool) {
	track := e.playlist[e.t.Index]
	e.gen++
	e.pendingPlay = autoplay
	e.t.Position = 0
	e.t.Duration = sanitizeDuration(track.Duration)
	if err := e.out.Load(track.AudioURL, &sink{engine: e, gen: e.gen}); err != nil {
		// Same policy as play-start rejections: log and stand by the
		// logical state.
		logger.Warn("failed to load track",
			logger.String("title", track.Title), logger.ErrorField(err))
	}
}

// Play starts playback from Loaded or Paused. Start rejections from the
// output are swallowed; the logical state stands.
func (e *Engine) Play() {
	e.do(func() {
		if len(e.playlist) == 0 || e.t.State == model.Playing {
			return
		}
		e.t.State = model.Playing
		if err := e.out.Play(); err != nil {
			logger.Debug("output play rejected", logger.ErrorField(err))
		}
		e.publish()
	})
}

// Pause suspends playback. Calling it when not playing changes nothing.
func (e *Engine) Pause() {
	e.do(func() {
		if e.t.State != model.Playing {
			return
		}
		e.t.State = model.Paused
		e.out.Pause()
		e.publish()
	})
}

// TogglePlayPause flips between Playing and Paused/Loaded.
func (e *Engine) TogglePlayPause() {
	e.do(func() {
		if len(e.playlist) == 0 {
			return
		}
		if e.t.State == model.Playing {
			e.t.State = model.Paused
			e.out.Pause()
		} else {
			e.t.State = model.Playing
			if err := e.out.Play(); err != nil {
				logger.Debug("output play rejected", logger.ErrorField(err))
			}
		}
		e.publish()
	})
}

// Next advances with wraparound and auto-starts playback.
func (e *Engine) Next() {
	e.do(func() {
		if len(e.playlist) == 0 {
			return
		}
		e.navigate((e.t.Index + 1) % len(e.playlist))
	})
}

// Previous retreats with wraparound and auto-starts playback.
func (e *Engine) Previous() {
	e.do(func() {
		n := len(e.playlist)
		if n == 0 {
			return
		}
		e.navigate((e.t.Index - 1 + n) % n)
	})
}

// PlayAt selects index explicitly, with the same reset/auto-play semantics
// as Next and Previous. An index outside the playlist fails with
// model.ErrOutOfRange and leaves the transport untouched.
func (e *Engine) PlayAt(index int) error {
	var err error
	e.do(func() {
		if index < 0 || index >= len(e.playlist) {
			err = fmt.Errorf("play at %d of %d: %w", index, len(e.playlist), model.ErrOutOfRange)
			return
		}
		e.navigate(index)
	})
	return err
}

// navigate selects index, resets position and forces Playing: navigation
// auto-starts playback. The start itself waits for the output's ready
// signal rather than racing the source load.
func (e *Engine) navigate(index int) {
	e.t.Index = index
	e.t.State = model.Playing
	e.loadCurrent(true)
	e.publish()
}

// Seek clamps seconds into [0, duration] and forwards it to the output.
func (e *Engine) Seek(seconds float64) {
	e.do(func() {
		if len(e.playlist) == 0 {
			return
		}
		e.t.Position = clamp(seconds, 0, e.t.Duration)
		e.out.Seek(e.t.Position)
		e.publish()
	})
}

// SetVolume clamps v into [0,1]. A positive level un-mutes and becomes the
// restore level; exactly zero mutes.
func (e *Engine) SetVolume(v float64) {
	e.do(func() {
		e.setVolume(v)
		e.publish()
	})
}

func (e *Engine) setVolume(v float64) {
	v = clamp(v, 0, 1)
	e.t.Volume = v
	if v > 0 {
		e.t.Muted = false
		e.lastVolume = v
		e.out.SetVolume(v)
	} else {
		e.t.Muted = true
		e.out.SetVolume(0)
	}
}

// ToggleMute restores the last non-zero volume when muted (DefaultVolume if
// none was ever set), otherwise silences the output while keeping the
// stored volume so un-muting comes back at the prior level.
func (e *Engine) ToggleMute() {
	e.do(func() {
		if e.t.Muted {
			v := e.lastVolume
			if v <= 0 {
				v = DefaultVolume
			}
			e.setVolume(v)
		} else {
			if e.t.Volume > 0 {
				e.lastVolume = e.t.Volume
			}
			e.t.Muted = true
			e.out.SetVolume(0)
		}
		e.publish()
	})
}

// Output event handlers, serialized with user commands on the run loop.

func (e *Engine) onMetadata(gen int, duration float64) {
	if gen != e.gen {
		return
	}
	e.t.Duration = sanitizeDuration(duration)
	e.t.Position = clamp(e.t.Position, 0, e.t.Duration)
	e.publish()
}

func (e *Engine) onReady(gen int) {
	if gen != e.gen || !e.pendingPlay {
		return
	}
	if e.t.State != model.Playing {
		// Paused while the track was still loading; the pending start
		// stays armed for an explicit Play.
		return
	}
	e.pendingPlay = false
	if err := e.out.Play(); err != nil {
		logger.Debug("output play rejected", logger.ErrorField(err))
	}
}

func (e *Engine) onTimeUpdate(gen int, position float64) {
	if gen != e.gen {
		return
	}
	upper := e.t.Duration
	if upper <= 0 {
		upper = position
	}
	e.t.Position = clamp(position, 0, upper)
	e.publish()
}

// onEnded advances exactly like an explicit Next.
func (e *Engine) onEnded(gen int) {
	if gen != e.gen || len(e.playlist) == 0 {
		return
	}
	e.navigate((e.t.Index + 1) % len(e.playlist))
}

// sink routes one source generation's events into the loop. Events from a
// superseded generation are dropped there, which is the detach guarantee.
type sink struct {
	engine *Engine
	gen    int
}

func (s *sink) MetadataLoaded(duration float64) {
	s.engine.post(func() { s.engine.onMetadata(s.gen, duration) })
}

func (s *sink) ReadyToPlay() {
	s.engine.post(func() { s.engine.onReady(s.gen) })
}

func (s *sink) TimeUpdate(position float64) {
	s.engine.post(func() { s.engine.onTimeUpdate(s.gen, position) })
}

func (s *sink) Ended() {
	s.engine.post(func() { s.engine.onEnded(s.gen) })
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sanitizeDuration(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}
