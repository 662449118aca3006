package cli

import (
	"fmt"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/mirror"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/screen"
	"github.com/spf13/cobra"
)

var (
	mirrorLink     linkFlags
	mirrorNoDither bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror the screen to the macropad display",
	Long: `Capture the primary display, scale it to the macropad's 1-bit
128x64 display and send it as 0x02 followed by the packed bitmap.

A new frame is sent only after the macropad acknowledges the previous one
with 0x06. Without --port or --auto a port picker is shown.`,
	RunE: runMirror,
}

func init() {
	mirrorLink.register(mirrorCmd)
	mirrorCmd.Flags().BoolVar(&mirrorNoDither, "no-dither", false, "threshold pixels instead of dithering")
	rootCmd.AddCommand(mirrorCmd)
}

func newMirror(link mirror.Link) *mirror.Mirror {
	m := mirror.New(link, screen.Display{Index: cfg.Mirror.Display}, log.With().Str("component", "mirror").Logger())
	m.ReadTimeout = cfg.Mirror.ReadTimeout()
	m.Converter = &mirror.Converter{
		Width:     cfg.Mirror.Width,
		Height:    cfg.Mirror.Height,
		Dither:    cfg.Mirror.Dither && !mirrorNoDither,
		Threshold: uint8(cfg.Mirror.Threshold),
	}
	return m
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	name, port, err := openLink(ctx, &mirrorLink, false)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer closeLink(name, port)

	fmt.Fprintf(cmd.ErrOrStderr(), "Mirroring display %d to %s\n", cfg.Mirror.Display, describeLink(name, mirrorLink.auto && mirrorLink.port == ""))

	m := newMirror(port)
	err = m.Run(ctx)
	log.Info().Str("sent", m.Stats().String()).Msg("mirror stopped")
	return err
}
