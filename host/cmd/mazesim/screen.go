package main

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"ledmaze/hub75"
	"ledmaze/render"
)

// Status display geometry, the size of the SSD1306 on the board
const (
	statusWidth  = 128
	statusHeight = 64
)

var palette = [8]tcell.Color{
	render.Black: tcell.NewRGBColor(0, 0, 0),
	render.Blue:  tcell.NewRGBColor(40, 80, 255),
	render.Green: tcell.NewRGBColor(0, 220, 60),
	render.Cyan:  tcell.NewRGBColor(0, 200, 220),
	render.Red:   tcell.NewRGBColor(230, 20, 20),
	render.Pink:  tcell.NewRGBColor(230, 60, 200),
	render.Amber: tcell.NewRGBColor(240, 170, 0),
	render.White: tcell.NewRGBColor(255, 255, 255),
}

// drawFrame shows two panel rows per terminal row using the upper half
// block, foreground for the top pixel and background for the bottom one
func drawFrame(s tcell.Screen, f *hub75.Frame, ox, oy int) {
	for y := 0; y < render.Rows/2; y++ {
		for x := 0; x < render.Columns; x++ {
			top := f.Pixel(x, 2*y)
			bottom := f.Pixel(x, 2*y+1)
			style := tcell.StyleDefault.Foreground(palette[top&7]).Background(palette[bottom&7])
			s.SetContent(ox+x, oy+y, '▀', nil, style)
		}
	}
}

// termDisplay is a monochrome drivers.Displayer drawn in braille, 2x4
// pixels per terminal cell
type termDisplay struct {
	pix   [statusHeight][statusWidth]bool
	shown [statusHeight][statusWidth]bool
	dirty bool
}

func (d *termDisplay) Size() (x, y int16) {
	return statusWidth, statusHeight
}

func (d *termDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= statusWidth || y >= statusHeight {
		return
	}
	d.pix[y][x] = c.R|c.G|c.B != 0
}

func (d *termDisplay) Display() error {
	d.shown = d.pix
	d.dirty = true
	return nil
}

// braille dot bit for each pixel of a 2x4 cell
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (d *termDisplay) draw(s tcell.Screen, ox, oy int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
	for cy := 0; cy < statusHeight/4; cy++ {
		for cx := 0; cx < statusWidth/2; cx++ {
			r := rune(0x2800)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if d.shown[cy*4+dy][cx*2+dx] {
						r |= brailleDots[dy][dx]
					}
				}
			}
			s.SetContent(ox+cx, oy+cy, r, nil, style)
		}
	}
	d.dirty = false
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
