package sequencer

// envelopePhase is one of the four slopes an envelope can be in.
type envelopePhase int

const (
	phaseAttack envelopePhase = iota
	phaseDecay
	phaseSustain
	phaseRelease
)

// patch is the 6-tuple of envelope parameters looked up by patch id.
type patch struct {
	al, ar, dr, sl, sr, rr uint8
}

// envelopeGenerator is a 4-phase ADSR-like envelope with linear
// per-tick steps, applied once per sequencer tick.
type envelopeGenerator struct {
	current int16
	phase   envelopePhase
	al, ar, dr, sl, sr, rr uint8
}

func newEnvelopeGenerator() *envelopeGenerator {
	return &envelopeGenerator{
		al: 255,
		ar: 255,
		rr: 255,
		phase: phaseAttack,
	}
}

func (e *envelopeGenerator) setParameter(p patch) {
	e.al, e.ar, e.dr, e.sl, e.sr, e.rr = p.al, p.ar, p.dr, p.sl, p.sr, p.rr
}

// attack starts a new note: current jumps to al, and the phase is
// Attack unless al is already the maximum (255), in which case there is
// nothing left to attack to and the envelope starts in Decay.
func (e *envelopeGenerator) attack() {
	e.current = int16(e.al)
	if e.current != 255 {
		e.phase = phaseAttack
	} else {
		e.phase = phaseDecay
	}
}

// release moves the envelope into its Release phase without otherwise
// disturbing its current value.
func (e *envelopeGenerator) release() {
	e.phase = phaseRelease
}

// update applies one tick's worth of slope for the current phase,
// clamping at each phase's boundary and advancing to the next phase
// when the clamp triggers.
func (e *envelopeGenerator) update() {
	current := e.current
	phase := e.phase

	switch phase {
	case phaseAttack:
		current += int16(e.ar)
		if current > 255 {
			current = 255
			phase = phaseDecay
		}
	case phaseDecay:
		current -= int16(e.dr)
		if current < int16(e.sl) {
			current = int16(e.sl)
			phase = phaseSustain
		}
	default:
		if phase == phaseSustain {
			current -= int16(e.sr)
		} else {
			current -= int16(e.rr)
		}
		if current < 0 {
			current = 0
		}
	}

	e.current = current
	e.phase = phase
}
