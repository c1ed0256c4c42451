package render

import (
	"image"
	"image/png"
	"math"
	"os"
)

// farDepth is the depth buffer clear value; any real fragment is nearer.
const farDepth = math.MaxFloat64

// Framebuffer holds a color buffer and a same-dimension depth buffer.
// Pixel data is row-major with the origin at the top-left. After a full
// frame (Clear followed by any order of opaque Write calls) each pixel
// holds the color of the nearest fragment written there.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color   // row-major color data
	Depth  []float64 // row-major depth data
}

// NewFramebuffer creates a framebuffer with the given dimensions,
// cleared to black.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.Clear(ColorBlack)
	return fb
}

// Clear fills the color buffer with bg and resets the depth buffer to
// the far sentinel. Uses copy-doubling to fill both buffers.
func (fb *Framebuffer) Clear(bg Color) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = bg
	fb.Depth[0] = farDepth
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// Write stores a color at (x, y) if its depth passes the nearest-wins
// depth test. Out-of-bounds coordinates are dropped.
func (fb *Framebuffer) Write(x, y int, c Color, depth float64) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	idx := y*fb.Width + x
	if depth >= fb.Depth[idx] {
		return
	}
	fb.Depth[idx] = depth
	fb.Pixels[idx] = c
}

// WriteOver stores a color unconditionally, bypassing the depth test.
// Used for background passes; the depth buffer is left untouched.
func (fb *Framebuffer) WriteOver(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// BlendWrite alpha-composites a color over the stored pixel if its
// depth passes the test against the opaque depth. The depth buffer is
// not written, so transparent layers do not occlude each other; callers
// must order transparent draws back-to-front.
func (fb *Framebuffer) BlendWrite(x, y int, c Color, depth float64) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	idx := y*fb.Width + x
	if depth >= fb.Depth[idx] {
		return
	}
	fb.Pixels[idx] = BlendColor(fb.Pixels[idx], c)
}

// At returns the color at (x, y), or zero if out of bounds.
func (fb *Framebuffer) At(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), or the far sentinel if
// out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return farDepth
	}
	return fb.Depth[y*fb.Width+x]
}

// Frame is a completed color buffer snapshot handed to the display
// sink. It does not alias the framebuffer, so a skipped frame can
// re-present the previous snapshot while the next one is drawn.
type Frame struct {
	Width  int
	Height int
	Pixels []Color
}

// Present returns a snapshot of the color buffer.
func (fb *Framebuffer) Present() *Frame {
	f := &Frame{
		Width:  fb.Width,
		Height: fb.Height,
		Pixels: make([]Color, len(fb.Pixels)),
	}
	copy(f.Pixels, fb.Pixels)
	return f
}

// At returns the snapshot color at (x, y), or zero if out of bounds.
func (f *Frame) At(x, y int) Color {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return Color{}
	}
	return f.Pixels[y*f.Width+x]
}

// DrawLine draws a line using Bresenham's algorithm, bypassing the
// depth test. Debug overlays only.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.WriteOver(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file. Debug captures.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
