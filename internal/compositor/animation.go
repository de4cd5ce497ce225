package compositor

import "math"

// AnimationDuration is the length of a crossfade in time ticks. Callers
// supply monotonic ticks in whatever unit they like as long as it is
// consistent with this constant.
const AnimationDuration uint32 = 300

// transitionPhase splits a fit-mode transition into its two halves. It is
// derived from the timeline every frame rather than stored, so a restarted
// animation can never observe stale phase state.
type transitionPhase int

const (
	phasePreMidpoint transitionPhase = iota
	phasePostMidpoint
)

// timeline is the animation clock of one transition.
type timeline struct {
	started  uint32
	duration uint32
}

func newTimeline() timeline {
	return timeline{duration: AnimationDuration}
}

// start records the first tick of a new transition.
func (t *timeline) start(now uint32) {
	t.started = now
}

// progress maps the current tick to [0, 1], saturating once the duration
// has elapsed. Ticks before the start clamp to zero.
func (t timeline) progress(now uint32) float32 {
	if now < t.started {
		return 0
	}
	elapsed := now - t.started
	p := float32(elapsed) / float32(t.duration)
	if p > 1 {
		return 1
	}
	return p
}

// phase reports which half of a fit-mode transition the tick falls in.
func (t timeline) phase(now uint32) transitionPhase {
	if t.progress(now) > 0.5 {
		return phasePostMidpoint
	}
	return phasePreMidpoint
}

// active reports whether more frames are needed to finish the transition.
func (t timeline) active(now uint32) bool {
	return now < t.started+t.duration
}

// fitBlend remaps overall progress onto the half-duration fade of fit mode:
// each half runs its own 0..1 fade, except that a finished transition stays
// fully opaque.
func fitBlend(progress float32) float32 {
	if progress >= 1 {
		return 1
	}
	return float32(math.Mod(float64(progress), 0.5)) * 2
}
