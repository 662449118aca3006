package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/serial"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

var portsProbe bool

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Long: `Lists the serial ports on this machine. With --probe each port is sent
IDENTIFY and the one answering as the macropad is marked.`,
	RunE: runPorts,
}

func init() {
	portsCmd.Flags().BoolVar(&portsProbe, "probe", false, "send IDENTIFY to each port")
	rootCmd.AddCommand(portsCmd)
}

type portInfo struct {
	core.Port
	Macropad *bool `json:"macropad,omitempty"`
}

func runPorts(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	ports, err := serial.List()
	if err != nil {
		if verrors.Is(err, verrors.ErrNoPorts) {
			if JSONOutput() {
				return printJSON([]portInfo{})
			}
			fmt.Println("No serial ports found")
			return nil
		}
		return err
	}

	infos := make([]portInfo, len(ports))
	for i, p := range ports {
		infos[i] = portInfo{Port: p}
	}
	if portsProbe {
		probePorts(ctx, infos)
	}

	if JSONOutput() {
		return printJSON(infos)
	}
	return outputPortsTable(cmd.OutOrStdout(), infos)
}

// probePorts asks each port to identify itself, closing it afterwards.
func probePorts(ctx context.Context, infos []portInfo) {
	d := discovery()
	for i := range infos {
		if ctx.Err() != nil {
			return
		}
		port, ok, err := d.Probe(ctx, infos[i].Name)
		if err != nil {
			log.Debug().Err(err).Str("port", infos[i].Name).Msg("probe failed")
		}
		if ok {
			_ = port.Close()
		}
		found := ok
		infos[i].Macropad = &found
	}
}

func outputPortsTable(out io.Writer, infos []portInfo) error {
	headers := []string{"PORT", "DESCRIPTION", "USB"}
	if portsProbe {
		headers = append(headers, "MACROPAD")
	}
	t := NewTable(out, headers...)

	usb := 0
	for _, p := range infos {
		id := ""
		if p.IsUSB {
			usb++
			id = p.VID + ":" + p.PID
			if Verbose() && p.SerialNumber != "" {
				id += " #" + p.SerialNumber
			}
		}
		row := []string{p.Name, TruncateString(p.Description, 40), id}
		if p.Macropad != nil {
			row = append(row, StatusIcon(*p.Macropad))
		}
		t.Row(row...)
	}
	t.Flush()

	_, err := fmt.Fprintf(out, "\n%s %s, %s USB\n",
		humanize.Comma(int64(len(infos))),
		english.PluralWord(len(infos), "port", ""),
		humanize.Comma(int64(usb)))
	return err
}
