package cli

import (
	"context"
	"io"
	"sync"
	"time"

	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/mirror"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/screen"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	previewLink     linkFlags
	previewSend     bool
	previewNoScreen bool
	previewInterval time.Duration
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"ui", "tui"},
	Short:   "Show what the macropad would display",
	Long: `Launch a terminal dashboard that runs the telemetry pipeline and shows
its output live:
  • Now Playing - title, artist and track clock
  • Levels - VU meters and system volume
  • Screen - the 1-bit mirror frame
  • History - tracks seen this session

Lines are not sent anywhere unless --send is given.

Keyboard shortcuts:
  q, Ctrl+C    Quit
  Space        Freeze display
  Tab          Switch panel
  ?            Help`,
	RunE: runPreview,
}

func init() {
	previewLink.register(previewCmd)
	previewCmd.Flags().BoolVar(&previewSend, "send", false, "also send lines to the macropad")
	previewCmd.Flags().BoolVar(&previewNoScreen, "no-screen", false, "do not capture the screen")
	previewCmd.Flags().DurationVar(&previewInterval, "screen-interval", 250*time.Millisecond, "screen capture interval")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	// The dashboard owns the terminal; keep log lines out of it.
	if cfg.Log.File == "" {
		log = log.Level(zerolog.Disabled)
	}

	out := io.Discard
	source := "dry run"
	if previewSend {
		name, port, err := openLink(ctx, &previewLink, true)
		if err != nil {
			return err
		}
		defer closeLink(name, port)
		out = port
		source = name
	}

	p := newPipeline()
	defer p.close()

	updates := make(chan tui.Update, 64)
	push := func(u tui.Update) {
		select {
		case updates <- u:
		default:
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := p.run(ctx, out, func(pl telemetry.Payload) { push(tui.Update{Payload: &pl}) })
		if err != nil {
			push(tui.Update{Err: err})
		}
	}()

	if !previewNoScreen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			captureFrames(ctx, previewInterval, push)
		}()
	}

	err := tui.Run(ctx, updates, source, cfg.Audio.MaxLevel)
	cancel()
	wg.Wait()
	return err
}

// captureFrames converts a screen capture every interval.
func captureFrames(ctx context.Context, interval time.Duration, push func(tui.Update)) {
	display := screen.Display{Index: cfg.Mirror.Display}
	conv := &mirror.Converter{
		Width:     cfg.Mirror.Width,
		Height:    cfg.Mirror.Height,
		Dither:    cfg.Mirror.Dither,
		Threshold: uint8(cfg.Mirror.Threshold),
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		img, err := display.Capture()
		switch {
		case err == nil:
			push(tui.Update{Frame: conv.Convert(img)})
		case verrors.IsTransient(err):
			push(tui.Update{Err: err})
		default:
			push(tui.Update{Err: err})
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
