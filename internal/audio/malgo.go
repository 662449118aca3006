package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"strings"

	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
)

const (
	channels    = 2
	bufferDepth = 8
)

// MalgoBinder captures through miniaudio. On Windows it opens a WASAPI
// loopback of the default render device; elsewhere it records from the
// monitor source of the default sink.
type MalgoBinder struct {
	SampleRate int
	BlockSize  int
	Log        zerolog.Logger
}

// Bind initializes a fresh miniaudio context, picks the loopback device and
// starts capturing.
func (b *MalgoBinder) Bind(ctx context.Context) (Stream, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	dev, id, err := b.pick(mctx)
	if err != nil {
		freeContext(mctx)
		return nil, err
	}

	kind := malgo.Capture
	if runtime.GOOS == "windows" {
		kind = malgo.Loopback
	}
	cfg := malgo.DefaultDeviceConfig(kind)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = channels
	cfg.Capture.DeviceID = id.Pointer()
	cfg.SampleRate = uint32(b.SampleRate)
	cfg.PeriodSizeInFrames = uint32(b.BlockSize)
	cfg.Alsa.NoMMap = 1

	s := &malgoStream{
		blocks:  make(chan []float32, bufferDepth),
		stopped: make(chan struct{}),
	}
	callbacks := malgo.DeviceCallbacks{
		Data: s.onData,
		Stop: s.onStop,
	}

	device, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		freeContext(mctx)
		return nil, fmt.Errorf("open %q: %w", dev.Name, err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		freeContext(mctx)
		return nil, fmt.Errorf("start %q: %w", dev.Name, err)
	}

	b.Log.Info().Str("device", dev.Name).Int("rate", b.SampleRate).Msg("audio capture bound")
	s.device = device
	s.mctx = mctx
	return s, nil
}

// pick enumerates devices and applies SelectLoopback.
func (b *MalgoBinder) pick(mctx *malgo.AllocatedContext) (Device, *malgo.DeviceID, error) {
	playback, err := mctx.Devices(malgo.Playback)
	if err != nil {
		return Device{}, nil, fmt.Errorf("list playback devices: %w", err)
	}
	outputs := toDevices(playback)

	// WASAPI loopback binds render endpoints directly.
	source := playback
	if runtime.GOOS != "windows" {
		capture, err := mctx.Devices(malgo.Capture)
		if err != nil {
			return Device{}, nil, fmt.Errorf("list capture devices: %w", err)
		}
		source = monitors(capture)
	}

	chosen, ok := SelectLoopback(outputs, toDevices(source))
	if !ok {
		return Device{}, nil, verrors.ErrNoAudioDevice
	}
	for i := range source {
		if source[i].ID.String() == chosen.ID {
			return chosen, &source[i].ID, nil
		}
	}
	return Device{}, nil, verrors.ErrNoAudioDevice
}

func toDevices(infos []malgo.DeviceInfo) []Device {
	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, Device{
			ID:      info.ID.String(),
			Name:    info.Name(),
			Default: info.IsDefault != 0,
		})
	}
	return devices
}

// monitors keeps PulseAudio/PipeWire monitor sources, which mirror a sink's
// output.
func monitors(infos []malgo.DeviceInfo) []malgo.DeviceInfo {
	var out []malgo.DeviceInfo
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), "Monitor of ") || strings.HasSuffix(info.Name(), ".monitor") {
			out = append(out, info)
		}
	}
	return out
}

func freeContext(mctx *malgo.AllocatedContext) {
	_ = mctx.Uninit()
	mctx.Free()
}

type malgoStream struct {
	device  *malgo.Device
	mctx    *malgo.AllocatedContext
	blocks  chan []float32
	stopped chan struct{}
}

// onData runs on the audio thread. Blocks are dropped when the reader lags.
func (s *malgoStream) onData(_, input []byte, frames uint32) {
	n := int(frames) * channels
	if len(input) < n*4 {
		n = len(input) / 4
	}
	block := make([]float32, n)
	for i := range block {
		block[i] = math.Float32frombits(binary.LittleEndian.Uint32(input[i*4:]))
	}
	select {
	case s.blocks <- block:
	default:
	}
}

func (s *malgoStream) onStop() {
	select {
	case <-s.stopped:
	default:
		close(s.stopped)
	}
}

func (s *malgoStream) Read(ctx context.Context) ([]float32, error) {
	select {
	case block := <-s.blocks:
		return block, nil
	case <-s.stopped:
		return nil, verrors.Transient("audio read", fmt.Errorf("capture device stopped"))
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *malgoStream) Channels() int {
	return channels
}

func (s *malgoStream) Close() error {
	s.device.Uninit()
	freeContext(s.mctx)
	return nil
}
