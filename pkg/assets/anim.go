package assets

import (
	"image"

	"github.com/rs/zerolog/log"
)

// An Animation plays a spritesheet's frames at its declared rate. It holds
// a Handle, never a FrameSet, so a reload mid-animation transparently
// swaps the frames under it while the playback position stays put.
type Animation struct {
	handle Handle
	loop   bool

	playing bool
	frame   int
	acc     float64
}

func NewAnimation(handle Handle, loop bool, autoStart bool) *Animation {
	return &Animation{
		handle:  handle,
		loop:    loop,
		playing: autoStart,
	}
}

func (a *Animation) Handle() Handle {
	return a.handle
}

// Update advances playback by dt seconds.
func (a *Animation) Update(dt float64) {
	if !a.playing {
		return
	}

	res := a.handle.Resolved()
	if res.Frames <= 1 || res.FPS <= 0 {
		return
	}

	frameDuration := 1.0 / res.FPS
	a.acc += dt
	for a.acc >= frameDuration {
		a.acc -= frameDuration
		a.frame++
		if a.frame >= res.Frames {
			if a.loop {
				a.frame = 0
			} else {
				a.frame = res.Frames - 1
				a.playing = false
				break
			}
		}
	}
}

// Current returns the frame playback is on. The frame set is re-derived
// by the store whenever its parent sheet was replaced.
func (a *Animation) Current() (*image.RGBA, error) {
	frames, err := a.handle.Frames()
	if err != nil {
		return nil, err
	}
	return frames.Frame(a.frame), nil
}

func (a *Animation) Play() {
	a.playing = true
}

func (a *Animation) Pause() {
	a.playing = false
}

func (a *Animation) Stop() {
	a.playing = false
	a.frame = 0
	a.acc = 0
}

func (a *Animation) Reset() {
	a.frame = 0
	a.acc = 0
}

func (a *Animation) SetFrame(i int) {
	res := a.handle.Resolved()
	if i < 0 {
		i = 0
	}
	if i >= res.Frames {
		i = res.Frames - 1
	}
	a.frame = i
}

func (a *Animation) Playing() bool {
	return a.playing
}

// Finished reports whether a non-looping animation has run out.
func (a *Animation) Finished() bool {
	if a.loop || a.playing {
		return false
	}
	return a.frame >= a.handle.Resolved().Frames-1
}

// An AnimationSet manages the named clips of one entity and which of them
// is playing, falling back to a default clip when a one-shot ends.
type AnimationSet struct {
	clips    map[string]*Animation
	current  string
	fallback string
}

func NewAnimationSet() *AnimationSet {
	return &AnimationSet{
		clips: make(map[string]*Animation),
	}
}

func (s *AnimationSet) Add(name string, handle Handle, loop bool) {
	s.clips[name] = NewAnimation(handle, loop, false)
	if s.fallback == "" {
		s.fallback = name
	}
}

func (s *AnimationSet) Has(name string) bool {
	_, ok := s.clips[name]
	return ok
}

func (s *AnimationSet) Current() string {
	return s.current
}

func (s *AnimationSet) SetFallback(name string) bool {
	if _, ok := s.clips[name]; !ok {
		return false
	}
	s.fallback = name
	return true
}

// Play switches to the named clip. Replaying the current clip is a no-op
// unless restart is set.
func (s *AnimationSet) Play(name string, restart bool) bool {
	clip, ok := s.clips[name]
	if !ok {
		log.Warn().Str("clip", name).Msg("unknown animation clip")
		return false
	}

	if s.current == name && !restart {
		return true
	}

	if active, ok := s.clips[s.current]; ok {
		active.Pause()
	}

	s.current = name
	if restart {
		clip.Reset()
	}
	clip.Play()
	return true
}

func (s *AnimationSet) Stop() {
	if clip, ok := s.clips[s.current]; ok {
		clip.Stop()
	}
	s.current = ""
}

func (s *AnimationSet) Update(dt float64) {
	clip, ok := s.clips[s.current]
	if !ok {
		return
	}

	clip.Update(dt)

	if clip.Finished() && s.fallback != "" && s.current != s.fallback {
		s.Play(s.fallback, false)
	}
}

// Frame returns the current frame of the active clip, or of the fallback
// clip when nothing is playing.
func (s *AnimationSet) Frame() (*image.RGBA, error) {
	if clip, ok := s.clips[s.current]; ok {
		return clip.Current()
	}
	if clip, ok := s.clips[s.fallback]; ok {
		return clip.Current()
	}
	return nil, nil
}
