// Package mirror streams 1-bit screen thumbnails to the macropad, one frame
// per acknowledgement.
package mirror

import (
	"image"

	"github.com/nfnt/resize"
)

const (
	DefaultWidth     = 128
	DefaultHeight    = 64
	DefaultThreshold = 128
)

// Frame is a packed 1-bit bitmap. Rows are stored top to bottom, each padded
// to a whole byte, pixels MSB-first; a set bit is white.
type Frame struct {
	Width  int
	Height int
	Bits   []byte
}

// NewFrame returns an all-black frame.
func NewFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Bits: make([]byte, Stride(w)*h)}
}

// Stride is the number of bytes in one packed row.
func Stride(width int) int {
	return (width + 7) / 8
}

// Set turns the pixel at x, y white.
func (f *Frame) Set(x, y int) {
	f.Bits[y*Stride(f.Width)+x/8] |= 0x80 >> uint(x%8)
}

// At reports whether the pixel at x, y is white.
func (f *Frame) At(x, y int) bool {
	return f.Bits[y*Stride(f.Width)+x/8]&(0x80>>uint(x%8)) != 0
}

// Lit counts white pixels.
func (f *Frame) Lit() int {
	n := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				n++
			}
		}
	}
	return n
}

// Converter downsamples an image and reduces it to a Frame.
type Converter struct {
	Width  int
	Height int
	// Dither selects Floyd–Steinberg error diffusion. Without it each pixel is
	// compared against Threshold.
	Dither    bool
	Threshold uint8
}

// NewConverter returns a 128x64 dithering converter.
func NewConverter() *Converter {
	return &Converter{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Dither:    true,
		Threshold: DefaultThreshold,
	}
}

// Convert nearest-neighbour scales img to the frame size and binarizes it.
func (c *Converter) Convert(img image.Image) *Frame {
	b := img.Bounds()
	if b.Dx() != c.Width || b.Dy() != c.Height {
		img = resize.Resize(uint(c.Width), uint(c.Height), img, resize.NearestNeighbor)
		b = img.Bounds()
	}

	gray := luma(img, b, c.Width, c.Height)
	f := NewFrame(c.Width, c.Height)
	if c.Dither {
		floydSteinberg(gray, c.Width, c.Height)
		for i, v := range gray {
			if v >= 128 {
				f.Set(i%c.Width, i/c.Width)
			}
		}
		return f
	}
	for i, v := range gray {
		if v >= int(c.Threshold) {
			f.Set(i%c.Width, i/c.Width)
		}
	}
	return f
}

// luma returns ITU-R 601 luminance in 0..255, row-major.
func luma(img image.Image, b image.Rectangle, w, h int) []int {
	out := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out[y*w+x] = int((299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000)
		}
	}
	return out
}

// floydSteinberg quantizes gray in place to 0 or 255, diffusing the error
// to the right and lower neighbours.
func floydSteinberg(gray []int, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			old := gray[i]
			v := 0
			if old >= 128 {
				v = 255
			}
			gray[i] = v
			e := old - v

			if x+1 < w {
				gray[i+1] += e * 7 / 16
			}
			if y+1 < h {
				if x > 0 {
					gray[i+w-1] += e * 3 / 16
				}
				gray[i+w] += e * 5 / 16
				if x+1 < w {
					gray[i+w+1] += e / 16
				}
			}
		}
	}
}
