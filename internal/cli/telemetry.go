package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/audio"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/media"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/meter"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/timeline"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/volume"
	"github.com/spf13/cobra"
)

var (
	telemetryLink   linkFlags
	telemetryDryRun bool
	telemetryNoAuto bool
)

var telemetryCmd = &cobra.Command{
	Use:     "telemetry",
	Aliases: []string{"run"},
	Short:   "Send the now-playing line to the macropad",
	Long: `Send one MET line per tick (25 Hz by default):

  MET:<title>|<artist>|<left>|<right>|<volume>|<elapsed>|<duration>

Media metadata comes from the desktop's media session, VU levels from the
audio loopback and volume from the system mixer. Without --port the
macropad is found by sending IDENTIFY to every serial port.`,
	RunE: runTelemetry,
}

func init() {
	telemetryLink.register(telemetryCmd)
	telemetryCmd.Flags().BoolVar(&telemetryDryRun, "dry-run", false, "print lines to stdout instead of a serial port")
	telemetryCmd.Flags().BoolVar(&telemetryNoAuto, "no-auto", false, "pick the port instead of probing with IDENTIFY")
	rootCmd.AddCommand(telemetryCmd)
}

// pipeline is the set of producers behind the telemetry line.
type pipeline struct {
	source    media.Source
	estimator *timeline.Estimator
	meter     *meter.Meter
	volume    *volume.Poller
}

func newPipeline() *pipeline {
	source, err := media.Open()
	if err != nil {
		log.Warn().Err(err).Msg("media session unavailable, sending idle metadata")
		source = media.None{}
	}

	est := timeline.New(source,
		timeline.WithSessionRefresh(cfg.Telemetry.SessionRefresh()),
		timeline.WithTimelineRefresh(cfg.Telemetry.TimelineRefresh()),
		timeline.WithDriftThreshold(cfg.Telemetry.DriftThreshold()),
		timeline.WithLogger(log.With().Str("component", "timeline").Logger()),
	)

	binder := &audio.MalgoBinder{
		SampleRate: cfg.Audio.SampleRate,
		BlockSize:  cfg.Audio.BlockSize,
		Log:        log.With().Str("component", "audio").Logger(),
	}
	m := meter.New(binder,
		meter.WithGain(cfg.Audio.Gain),
		meter.WithMaxLevel(cfg.Audio.MaxLevel),
		meter.WithBackoff(cfg.Audio.RebindBackoff(), cfg.Audio.NoDeviceBackoff()),
		meter.WithLogger(log.With().Str("component", "meter").Logger()),
	)

	poller := volume.NewPoller(volume.System(), cfg.Volume.PollInterval(), log.With().Str("component", "volume").Logger())

	return &pipeline{source: source, estimator: est, meter: m, volume: poller}
}

// run starts the meter and volume workers, sends lines until ctx is done or
// the write fails, then waits for the workers.
func (p *pipeline) run(ctx context.Context, out io.Writer, onSend func(telemetry.Payload)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = p.meter.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		p.volume.Run(ctx)
	}()

	svc := telemetry.NewService(out, p.estimator, p.meter, p.volume.Updates(), log.With().Str("component", "telemetry").Logger())
	svc.Interval = cfg.Telemetry.Interval()
	svc.SetVolume(cfg.Volume.Initial)
	svc.OnSend = onSend

	err := svc.Run(ctx)
	cancel()
	wg.Wait()
	log.Info().Int("lines", svc.Sent()).Msg("telemetry stopped")
	return err
}

func (p *pipeline) close() {
	if err := p.source.Close(); err != nil {
		log.Debug().Err(err).Msg("close media source")
	}
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	p := newPipeline()
	defer p.close()

	if telemetryDryRun {
		return p.run(ctx, cmd.OutOrStdout(), nil)
	}

	name, port, err := openLink(ctx, &telemetryLink, !telemetryNoAuto)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer closeLink(name, port)

	fmt.Fprintf(cmd.ErrOrStderr(), "Sending telemetry to %s\n", describeLink(name, telemetryLink.port == "" && cfg.Serial.Port == "" && !telemetryNoAuto))
	return p.run(ctx, port, nil)
}
