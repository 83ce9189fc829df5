package charts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

//nolint:gochecknoglobals // matplotlib "wheat" at alpha 0.3
var panelBackground = color.NRGBA{R: 245, G: 222, B: 179, A: 77}

func (r *Renderer) face(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     r.dpi,
		Hinting: font.HintingFull,
	})
}

// drawTitle centers text in bold within band.
func (r *Renderer) drawTitle(dst draw.Image, band image.Rectangle, text string) error {
	face, err := r.face(gobold.TTF, 16)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	width := d.MeasureString(text).Ceil()
	m := face.Metrics()
	baseline := band.Min.Y + (band.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d.Dot = fixed.P(band.Min.X+(band.Dx()-width)/2, baseline)
	d.DrawString(text)
	return nil
}

// drawPanel writes the monospace text block into cell, left aligned at 10%
// of the cell width and vertically centered, on a translucent box.
func (r *Renderer) drawPanel(dst draw.Image, cell image.Rectangle, text string) error {
	face, err := r.face(gomono.TTF, 11)
	if err != nil {
		return err
	}
	defer face.Close()

	lines := strings.Split(text, "\n")
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	textWidth := 0
	for _, line := range lines {
		textWidth = max(textWidth, d.MeasureString(line).Ceil())
	}
	textHeight := lineHeight * len(lines)

	pad := int(r.pt(6))
	x := cell.Min.X + cell.Dx()/10
	top := cell.Min.Y + (cell.Dy()-textHeight)/2
	box := image.Rect(x-pad, top-pad, x+textWidth+pad, top+textHeight+pad).Intersect(cell)
	draw.Draw(dst, box, image.NewUniform(panelBackground), image.Point{}, draw.Over)

	for i, line := range lines {
		d.Dot = fixed.P(x, top+i*lineHeight+m.Ascent.Ceil())
		d.DrawString(line)
	}
	return nil
}
