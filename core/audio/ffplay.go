// Package audio implements the playback engine's Output contract on top of
// the ffmpeg suite: ffprobe for duration metadata, ffplay for the actual
// output. ffplay has no live pause/seek/volume control, so those are
// realized by restarting the process at the remembered position.
package audio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"TamilFM/core/player"
	"TamilFM/logger"
)

const tickInterval = 500 * time.Millisecond

// FFPlayOutput drives one ffplay process at a time.
type FFPlayOutput struct {
	ffplayPath  string
	ffprobePath string

	mu       sync.Mutex
	locator  string
	sink     player.EventSink
	position float64
	volume   float64
	proc     *process
}

// process is one ffplay invocation. stopped marks a kill requested by us,
// distinguishing it from a natural end of the source.
type process struct {
	cmd     *exec.Cmd
	stopped bool
	startAt float64
	began   time.Time
	quit    chan struct{}
}

// NewFFPlayOutput creates an output using ffplayPath. The ffprobe binary is
// derived from it the same way the rest of the suite is laid out on disk.
func NewFFPlayOutput(ffplayPath string) *FFPlayOutput {
	return &FFPlayOutput{
		ffplayPath:  ffplayPath,
		ffprobePath: strings.Replace(ffplayPath, "ffplay", "ffprobe", 1),
		volume:      1,
	}
}

var _ player.Output = (*FFPlayOutput)(nil)

// Load points the output at locator and probes it in the background.
// MetadataLoaded fires when the probe succeeds; ReadyToPlay fires either way,
// the engine decides whether to start.
func (o *FFPlayOutput) Load(locator string, sink player.EventSink) error {
	o.mu.Lock()
	o.stopLocked()
	o.locator = locator
	o.sink = sink
	o.position = 0
	o.mu.Unlock()

	go func() {
		if d, err := o.probeDuration(locator); err != nil {
			logger.Warn("ffprobe failed", logger.String("locator", locator), logger.ErrorField(err))
		} else {
			sink.MetadataLoaded(d)
		}
		sink.ReadyToPlay()
	}()
	return nil
}

// probeDuration asks ffprobe for the source duration in seconds.
func (o *FFPlayOutput) probeDuration(locator string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		locator,
	}

	cmd := exec.Command(o.ffprobePath, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe execution failed for %s: %w: %s", locator, err, stderr.String())
	}

	var probeData struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out.Bytes(), &probeData); err != nil {
		return 0, fmt.Errorf("failed to unmarshal ffprobe output for %s: %w", locator, err)
	}
	if probeData.Format.Duration == "" {
		return 0, fmt.Errorf("duration not found in ffprobe output for %s", locator)
	}

	duration, err := strconv.ParseFloat(probeData.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q for %s: %w", probeData.Format.Duration, locator, err)
	}
	return duration, nil
}

// Play starts ffplay at the remembered position.
func (o *FFPlayOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.locator == "" {
		return fmt.Errorf("ffplay: no source loaded")
	}
	if o.proc != nil {
		return nil
	}
	return o.startLocked()
}

func (o *FFPlayOutput) startLocked() error {
	args := []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "quiet",
		"-volume", strconv.Itoa(int(o.volume * 100)),
	}
	if o.position > 0 {
		args = append(args, "-ss", strconv.FormatFloat(o.position, 'f', 3, 64))
	}
	args = append(args, o.locator)

	cmd := exec.Command(o.ffplayPath, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffplay start: %w", err)
	}

	p := &process{
		cmd:     cmd,
		startAt: o.position,
		began:   time.Now(),
		quit:    make(chan struct{}),
	}
	o.proc = p
	sink := o.sink

	go o.tick(p, sink)
	go o.wait(p, sink)
	return nil
}

// tick advances the reported position by wall clock while the process runs.
func (o *FFPlayOutput) tick(p *process, sink player.EventSink) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			pos := p.startAt + time.Since(p.began).Seconds()
			o.mu.Lock()
			if o.proc == p {
				o.position = pos
			}
			o.mu.Unlock()
			sink.TimeUpdate(pos)
		case <-p.quit:
			return
		}
	}
}

// wait watches for process exit; a natural exit is the end-of-track signal.
func (o *FFPlayOutput) wait(p *process, sink player.EventSink) {
	err := p.cmd.Wait()
	close(p.quit)

	o.mu.Lock()
	stopped := p.stopped
	if o.proc == p {
		o.proc = nil
	}
	o.mu.Unlock()

	if stopped {
		return
	}
	if err != nil {
		logger.Warn("ffplay exited abnormally", logger.ErrorField(err))
		return
	}
	sink.Ended()
}

// Pause kills the process and remembers where it was.
func (o *FFPlayOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if p := o.proc; p != nil {
		o.position = p.startAt + time.Since(p.began).Seconds()
	}
	o.stopLocked()
}

// Seek remembers the new position; a running process restarts there.
func (o *FFPlayOutput) Seek(seconds float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.position = seconds
	o.restartLocked()
}

// SetVolume applies the level on the next (re)start; ffplay cannot change
// volume live.
func (o *FFPlayOutput) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = v
	o.restartLocked()
}

// restartLocked bounces a running process so new position/volume take effect.
func (o *FFPlayOutput) restartLocked() {
	if o.proc == nil {
		return
	}
	o.stopLocked()
	if err := o.startLocked(); err != nil {
		logger.Warn("ffplay restart failed", logger.ErrorField(err))
	}
}

func (o *FFPlayOutput) stopLocked() {
	if o.proc == nil {
		return
	}
	o.proc.stopped = true
	if o.proc.cmd.Process != nil {
		_ = o.proc.cmd.Process.Kill()
	}
	o.proc = nil
}

// Close kills any running process.
func (o *FFPlayOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	return nil
}
