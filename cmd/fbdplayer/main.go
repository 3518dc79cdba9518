// Command fbdplayer plays FBD byte-code scores through the PSG
// emulator: to the default audio device, to a WAV file, or as a
// terminal meter display.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/fbdsound/fbdplayer/player/backend"
	"github.com/fbdsound/fbdplayer/player/backend/audioout"
	"github.com/fbdsound/fbdplayer/player/backend/terminal"
	"github.com/fbdsound/fbdplayer/player/backend/wav"
	"github.com/fbdsound/fbdplayer/player/clock"
	"github.com/fbdsound/fbdplayer/player/data"
	"github.com/fbdsound/fbdplayer/player/psg"
	"github.com/fbdsound/fbdplayer/player/sequencer"
)

func main() {
	app := cli.NewApp()
	app.Name = "fbdplayer"
	app.Description = "Plays FBD byte-code scores through a software PSG"
	app.Usage = "fbdplayer [options] <score.fbd>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Host audio sample rate in Hz",
			Value: psg.DefaultSamplingFrequencyHz,
		},
		cli.Float64Flag{
			Name:  "tick-hz",
			Usage: "Sequencer tick rate in Hz",
			Value: clock.DefaultIntervalRatioHz,
		},
		cli.StringFlag{
			Name:  "output",
			Usage: "Output mode: audio, wav, terminal, or headless",
			Value: "audio",
		},
		cli.StringFlag{
			Name:  "wav-out",
			Usage: "WAV file path, required when --output=wav",
		},
		cli.IntFlag{
			Name:  "loop-limit",
			Usage: "Stop wav/headless output after this many outermost loop iterations (0 = stop at first loop or end of score)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "block-size",
			Usage: "Samples rendered per clock bridge block",
			Value: 2048,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("fbdplayer failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	scorePath := c.Args().First()
	if scorePath == "" {
		cli.ShowAppHelp(c)
		return errors.New("no score path provided")
	}

	scoreData, err := data.NewFromFile(scorePath)
	if err != nil {
		return err
	}

	sg := psg.New(psg.DefaultMasterFrequencyHz, c.Int("sample-rate"))
	seq, err := sequencer.New(sg, scoreData)
	if err != nil {
		return err
	}
	slog.Info("loaded score", "title", seq.Title())

	bridge := clock.New(seq, sg, c.Float64("tick-hz"))
	blockSize := c.Int("block-size")

	switch mode := c.String("output"); mode {
	case "audio":
		return runAudio(bridge, sg)
	case "wav":
		return runWav(bridge, seq, c.String("wav-out"), c.Int("loop-limit"), blockSize, c.Int("sample-rate"))
	case "terminal":
		renderer, err := terminal.New(seq, bridge)
		if err != nil {
			return err
		}
		return renderer.Run()
	case "headless":
		return runHeadless(bridge, seq, c.Int("loop-limit"), blockSize)
	default:
		return fmt.Errorf("fbdplayer: unknown output mode %q", mode)
	}
}

func runAudio(bridge *clock.SampleBlockGenerator, sg *psg.SampleGenerator) error {
	player, err := audioout.NewPlayer(sg.SamplingFrequencyHz())
	if err != nil {
		return err
	}
	defer player.Close()

	player.SetSource(bridge)
	player.Start()

	for !player.Finished() {
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

func runWav(bridge *clock.SampleBlockGenerator, seq *sequencer.Sequencer, path string, loopLimit, blockSize, sampleRate int) error {
	if path == "" {
		return errors.New("fbdplayer: --wav-out is required when --output=wav")
	}

	if loopLimit == 0 {
		samples, err := backend.RenderOnce(bridge, seq, blockSize)
		if err != nil {
			return err
		}
		return wav.Write(path, samples, sampleRate)
	}

	var samples []float32
	for {
		block, err := bridge.Next(blockSize)
		if err != nil {
			return err
		}
		if block == nil || seq.LoopCount() >= uint32(loopLimit) {
			break
		}
		samples = append(samples, block...)
	}

	return wav.Write(path, samples, sampleRate)
}

func runHeadless(bridge *clock.SampleBlockGenerator, seq *sequencer.Sequencer, loopLimit, blockSize int) error {
	progress := backend.NewProgressFormatter()
	for {
		block, err := bridge.Next(blockSize)
		if err != nil {
			return err
		}
		if block == nil {
			break
		}
		fmt.Printf("\r%s", progress.Format(bridge.ElapseTime(), seq.LoopCount()))
		if loopLimit > 0 && seq.LoopCount() >= uint32(loopLimit) {
			break
		} else if loopLimit == 0 && seq.LoopCount() != 0 {
			break
		}
	}
	fmt.Println()
	return nil
}
