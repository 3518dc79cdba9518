// Package terminal renders a playing score to the terminal using tcell:
// one volume/envelope meter per channel plus a running loop-time
// counter, refreshed once per rendered block.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/fbdsound/fbdplayer/player/backend"
	"github.com/fbdsound/fbdplayer/player/clock"
	"github.com/fbdsound/fbdplayer/player/sequencer"
)

const (
	meterWidth = 40
	blockSize  = 2048
	frameTime  = time.Second / 30
)

var meterChars = []rune{'░', '▒', '▓', '█'}

// Renderer drives a clock.SampleBlockGenerator purely to advance the
// sequencer and discards the rendered audio - it exists for visual
// monitoring of a score, not for sound output. It is the only consumer
// of the clock.SampleBlockGenerator it is given; it does not play sound
// alongside an audioout.Player.
type Renderer struct {
	screen  tcell.Screen
	seq     *sequencer.Sequencer
	clock   *clock.SampleBlockGenerator
	running bool
}

// New opens a terminal screen for seq, already wired to its PSG via clockBridge.
func New(seq *sequencer.Sequencer, clockBridge *clock.SampleBlockGenerator) (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: failed to initialize terminal: %w", err)
	}

	return &Renderer{
		screen:  screen,
		seq:     seq,
		clock:   clockBridge,
		running: true,
	}, nil
}

// Run drives the sequencer by repeatedly pulling blocks from the clock
// bridge until the score ends or the user quits, redrawing the meters
// after every block.
func (r *Renderer) Run() error {
	defer func() {
		slog.Info("finishing terminal renderer")
		r.screen.Fini()
	}()

	r.screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorGreen))
	r.screen.Clear()

	go r.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	progress := backend.NewProgressFormatter()

	for r.running {
		select {
		case <-ticker.C:
			block, err := r.clock.Next(blockSize)
			if err != nil {
				return err
			}
			if block == nil {
				r.running = false
				break
			}
			r.render(progress.Format(r.clock.ElapseTime(), r.seq.LoopCount()))
			r.screen.Show()
		case <-signals:
			slog.Info("received signal to stop")
			return nil
		}
	}

	return nil
}

func (r *Renderer) handleInput() {
	for r.running {
		ev := r.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				r.running = false
				return
			}
		case *tcell.EventResize:
			r.screen.Sync()
		}
	}
}

func (r *Renderer) render(status string) {
	r.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	row := 0
	drawString(r.screen, 0, row, style, fmt.Sprintf("%s   %s", r.seq.Title(), status))
	row += 2

	for i := 0; i < 3; i++ {
		ch := r.seq.Channel(i)
		if ch == nil {
			continue
		}
		drawMeter(r.screen, row, style, fmt.Sprintf("ch%d", i), ch.Volume())
		row++
	}
}

func drawMeter(screen tcell.Screen, row int, style tcell.Style, label string, volume uint8) {
	drawString(screen, 0, row, style, label)
	filled := int(volume) * meterWidth / 15
	for x := 0; x < meterWidth; x++ {
		char := meterChars[0]
		if x < filled {
			char = meterChars[3]
		}
		screen.SetContent(len(label)+2+x, row, char, nil, style)
	}
}

func drawString(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for i, r := range s {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
