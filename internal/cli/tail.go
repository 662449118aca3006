package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tail"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailStall     time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow media changes in real-time",
	Long: `Run the telemetry pipeline without a macropad and print what changes.

Events tracked:
  - Track changes, completions and skips
  - Pause/Resume
  - Seeks
  - Volume changes
  - Media session going idle

Templates for --format see .Type, .Emoji, .Time, .Title, .Artist,
.Elapsed, .Duration and .Volume.`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVar(&tailStall, "stall", tail.DefaultStall, "how long the clock must stop before a pause is reported")

	rootCmd.AddCommand(tailCmd)
}

// tailEvent is the JSON form of one event.
type tailEvent struct {
	Type    string             `json:"type"`
	Time    time.Time          `json:"time"`
	Current *telemetry.Payload `json:"current,omitempty"`
}

func runTail(cmd *cobra.Command, args []string) error {
	if _, err := tail.ParseTemplate(tailFormat); err != nil {
		return err
	}
	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	p := newPipeline()
	defer p.close()

	payloads := make(chan telemetry.Payload, 64)
	watcher := tail.NewWatcher(payloads, tailStall)
	go func() {
		_ = watcher.Start(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.run(ctx, io.Discard, func(pl telemetry.Payload) {
			select {
			case payloads <- pl:
			default:
			}
		})
	}()

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return <-errCh
			}
			if jsonOut {
				if err := enc.Encode(tailEvent{Type: event.Type.String(), Time: event.Timestamp, Current: event.Current}); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintln(out, formatter.Format(event))

		case err := <-errCh:
			return err
		}
	}
}
