package sequencer

// lfo is a triangle-wave vibrato producing a signed offset applied to
// tune. It is replaced wholesale (not mutated) on a full reconfigure
// opcode, and reset whenever a new note attacks.
type lfo struct {
	enabled bool
	delay   uint16
	speed   uint8
	depth   uint8
	value   int16

	waitCount    int32
	depthCount   int32
	valueCurrent int16
	current      int16
}

// newLFO constructs an LFO with the given static parameters and resets
// its running state. A delay of 0 from the wire format must already
// have been normalized to 256 by the caller.
func newLFO(enabled bool, delay uint16, speed, depth uint8, value int16) *lfo {
	l := &lfo{enabled: enabled, delay: delay, speed: speed, depth: depth, value: value}
	l.reset()
	return l
}

// setEnable toggles the LFO and resets its running state.
func (l *lfo) setEnable(enabled bool) {
	l.enabled = enabled
	l.reset()
}

// reset re-initializes the running state from the static parameters.
// Calling it twice in a row is idempotent.
func (l *lfo) reset() {
	l.waitCount = int32(l.delay)
	l.depthCount = int32(l.depth) >> 1
	l.valueCurrent = l.value
	l.current = 0
}

// update returns true exactly on ticks where current changed, so the
// caller knows to re-apply tune.
func (l *lfo) update() bool {
	if !l.enabled {
		return false
	}
	l.waitCount--
	if l.waitCount != 0 {
		return false
	}
	l.waitCount = int32(l.speed)
	l.current += l.valueCurrent
	l.depthCount--
	if l.depthCount == 0 {
		l.depthCount = int32(l.depth)
		l.valueCurrent = -l.valueCurrent
	}
	return true
}
