package game

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Cocktail-Quest/internal/sim"
)

// layerColours are the debug tints of the six tile layers (F1).
var layerColours = [sim.NumLayers]color.RGBA{
	sim.LayerCollision: {R: 255, G: 50, B: 50, A: 110},
	sim.LayerPath:      {R: 255, G: 220, B: 0, A: 90},
	sim.LayerForest:    {R: 30, G: 200, B: 60, A: 90},
	sim.LayerItem:      {R: 255, G: 140, B: 0, A: 130},
	sim.LayerWater:     {R: 30, G: 160, B: 255, A: 110},
	sim.LayerNap:       {R: 200, G: 0, B: 200, A: 110},
}

const (
	hpBarWidth  = 180
	hpBarHeight = 12
)

// screenRenderer paints the simulations into the world buffer. Both drivers
// render from inside Update, so the target is an offscreen image that Draw
// blits.
type screenRenderer struct {
	target     *ebiten.Image
	assets     *Assets
	face       text.Face
	showLayers bool
}

var _ sim.Renderer = (*screenRenderer)(nil)

func (r *screenRenderer) DrawSprite(s *sim.Sprite) {
	if !s.Ready() {
		return
	}
	img := r.assets.Frame(s)
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	w, h := s.DrawSize()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(s.X, s.Y)
	r.target.DrawImage(img, op)
}

// DrawBoundary paints tile boundaries only while the debug overlay is on;
// otherwise the layers are invisible.
func (r *screenRenderer) DrawBoundary(l sim.Layer, b *sim.Boundary) {
	if !r.showLayers {
		return
	}
	c := layerColours[l]
	vector.FillRect(r.target, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), c, false)
	vector.StrokeRect(r.target, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, color.RGBA{R: c.R, G: c.G, B: c.B, A: 220}, false)
}

// DrawHPBar paints the eased bar of c: under the player, left of the enemy.
func (r *screenRenderer) DrawHPBar(c *sim.BattleCharacter) {
	if !c.Ready() {
		return
	}
	w, h := c.DrawSize()
	var x, y float32
	if c.Anchor == sim.AnchorPlayer {
		x, y = float32(c.X+w/2)-hpBarWidth/2, float32(c.Y+h)+10
	} else {
		x, y = float32(c.X)-hpBarWidth-24, float32(c.Y+h/2)
	}

	vector.FillRect(r.target, x-2, y-22, hpBarWidth+4, hpBarHeight+26, color.RGBA{R: 10, G: 10, B: 14, A: 200}, false)
	drawText(r.target, fmt.Sprintf("%s  %d/%d", c.Data.Name, c.Bar.Value, c.Bar.Max), r.face, float64(x), float64(y-20), color.White)

	vector.FillRect(r.target, x, y, hpBarWidth, hpBarHeight, color.RGBA{R: 50, G: 50, B: 50, A: 255}, false)
	ratio := c.Bar.Ratio()
	vector.FillRect(r.target, x, y, float32(hpBarWidth*ratio), hpBarHeight, hpColour(ratio), false)
	vector.StrokeRect(r.target, x, y, hpBarWidth, hpBarHeight, 1, color.RGBA{R: 220, G: 220, B: 220, A: 255}, false)
}

// hpColour shades a bar green, yellow then red as it empties.
func hpColour(ratio float64) color.RGBA {
	switch {
	case ratio > 0.5:
		return color.RGBA{R: 70, G: 200, B: 90, A: 255}
	case ratio > 0.2:
		return color.RGBA{R: 230, G: 200, B: 50, A: 255}
	default:
		return color.RGBA{R: 220, G: 60, B: 50, A: 255}
	}
}

func rectXYWH(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}
