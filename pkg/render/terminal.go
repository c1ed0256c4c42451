package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the frame to terminal cells and places them on the
// screen. Two vertically stacked pixels map to one ▀ cell: the
// foreground carries the top pixel, the background the bottom one, so
// the frame height should be twice the terminal height.
func (f *Frame) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < f.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(f.At(col, topY)),
					Bg: cellColor(f.At(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor converts a framebuffer pixel to a terminal cell color.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalPresenter displays rendered frames on a terminal using
// half-block cells.
type TerminalPresenter struct {
	term *uv.Terminal
	cols int
	rows int
}

// NewTerminalPresenter creates a presenter for a terminal of the given
// cell dimensions.
func NewTerminalPresenter(term *uv.Terminal, cols, rows int) *TerminalPresenter {
	return &TerminalPresenter{term: term, cols: cols, rows: rows}
}

// FramebufferSize returns the pixel dimensions a framebuffer should
// have to fill this terminal: one column per cell, two rows per cell.
func (p *TerminalPresenter) FramebufferSize() (width, height int) {
	return p.cols, p.rows * 2
}

// Render writes the frame into the terminal's cell buffer.
func (p *TerminalPresenter) Render(f *Frame) {
	f.Draw(p.term, uv.Rect(0, 0, p.cols, p.rows))
}

// Flush pushes buffered cells to the terminal.
func (p *TerminalPresenter) Flush() error {
	return p.term.Display()
}
