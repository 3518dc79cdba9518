// Package backend holds the score-to-output glue shared by every
// frontend: loop-aware offline rendering and on-screen progress
// formatting. It has no opinion on where the samples end up.
package backend

import (
	"fmt"

	"github.com/fbdsound/fbdplayer/player/clock"
	"github.com/fbdsound/fbdplayer/player/sequencer"
)

// RenderOnce renders seq through gen one block at a time, stopping as
// soon as the score ends or completes a single pass through its
// outermost loop - whichever comes first. A score with no loop at all
// renders in full; a looping score renders its first pass, cut at the
// start of the block in which the loop first wraps (that block is not
// included), so a WAV export does not loop forever.
func RenderOnce(gen *clock.SampleBlockGenerator, seq *sequencer.Sequencer, blockSize int) ([]float32, error) {
	var out []float32
	for {
		block, err := gen.Next(blockSize)
		if err != nil {
			return nil, fmt.Errorf("backend: render failed: %w", err)
		}
		if block == nil || seq.LoopCount() != 0 {
			return out, nil
		}
		out = append(out, block...)
	}
}
