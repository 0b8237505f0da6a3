// Package adapter draws preview images onto terminal cells. Each cell shows
// two vertically stacked pixels using the upper half block glyph.
package adapter

import (
	"errors"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

const upperHalfBlock = '▀'

// ErrNoScreen is returned when the adapter has no screen to draw on.
var ErrNoScreen = errors.New("image adapter has no screen")

// Rect is a cell rectangle on screen.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Cells is an image adapter for tcell screens. It is used from the event
// loop goroutine only.
type Cells struct {
	screen tcell.Screen
	img    image.Image
	area   Rect
}

// NewCells returns an adapter drawing on screen.
func NewCells(screen tcell.Screen) *Cells {
	return &Cells{screen: screen}
}

// Shown reports whether an image is currently displayed.
func (c *Cells) Shown() bool {
	return c.img != nil
}

// ImageShow displays img inside area, replacing any image shown before. The
// image is expected to be pre-scaled to at most area.W x 2*area.H pixels;
// larger images are clipped.
func (c *Cells) ImageShow(img image.Image, area Rect) error {
	if c.screen == nil {
		return ErrNoScreen
	}
	if c.img != nil && c.area != area {
		c.clear()
	}
	c.img = img
	c.area = area
	c.Draw()
	return nil
}

// ImageHide erases the shown image. Hiding when nothing is shown is a no-op.
func (c *Cells) ImageHide() error {
	if c.screen == nil {
		return ErrNoScreen
	}
	if c.img == nil {
		return nil
	}
	c.clear()
	c.img = nil
	c.area = Rect{}
	return nil
}

// Draw paints the shown image again, e.g. after the screen was cleared.
func (c *Cells) Draw() {
	if c.screen == nil || c.img == nil || c.area.Empty() {
		return
	}

	bounds := c.img.Bounds()
	for row := 0; row < c.area.H; row++ {
		top := bounds.Min.Y + row*2
		if top >= bounds.Max.Y {
			break
		}
		for col := 0; col < c.area.W; col++ {
			x := bounds.Min.X + col
			if x >= bounds.Max.X {
				break
			}
			style := tcell.StyleDefault.Foreground(toColor(c.img.At(x, top)))
			if top+1 < bounds.Max.Y {
				style = style.Background(toColor(c.img.At(x, top+1)))
			}
			c.screen.SetContent(c.area.X+col, c.area.Y+row, upperHalfBlock, nil, style)
		}
	}
}

func (c *Cells) clear() {
	for row := 0; row < c.area.H; row++ {
		for col := 0; col < c.area.W; col++ {
			c.screen.SetContent(c.area.X+col, c.area.Y+row, ' ', nil, tcell.StyleDefault)
		}
	}
}

func toColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
