package backend

import "fmt"

// ProgressFormatter renders elapsed playback time and loop count as an
// hh:mm:ss.cc counter, the shape fbdplayer's console progress line used.
// Unlike the threaded original, a single synchronous pipeline here needs
// no separate buffered/output time tracking - Format renders whatever
// elapsed time the clock bridge reports for the block just played.
type ProgressFormatter struct{}

// NewProgressFormatter constructs a ProgressFormatter. It carries no
// state of its own; the zero value works equally well.
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Format renders elapsedSeconds and loopCount as "hh:mm:ss.cc Loop:n".
func (p *ProgressFormatter) Format(elapsedSeconds float64, loopCount uint32) string {
	hours := int(elapsedSeconds) / 3600
	minutes := (int(elapsedSeconds) % 3600) / 60
	seconds := int(elapsedSeconds) % 60
	centiseconds := int(elapsedSeconds*100) % 100
	return fmt.Sprintf("%02d:%02d:%02d.%02d Loop:%d", hours, minutes, seconds, centiseconds, loopCount)
}
