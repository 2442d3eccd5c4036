package game

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// directionKeys maps each direction to the keys that hold it.
var directionKeys = [event.NumDirections][]ebiten.Key{
	event.DirDown:  {ebiten.KeyArrowDown, ebiten.KeyS},
	event.DirUp:    {ebiten.KeyArrowUp, ebiten.KeyW},
	event.DirLeft:  {ebiten.KeyArrowLeft, ebiten.KeyA},
	event.DirRight: {ebiten.KeyArrowRight, ebiten.KeyD},
}

// padButton is one arrow of the on-screen d-pad.
type padButton struct {
	Dir  event.Direction
	Rect image.Rectangle
}

const padSize = 56

// padLayout places the d-pad in the bottom-left corner of a screen of height h.
func padLayout(h int) []padButton {
	cx, cy := 24+padSize+padSize/2, h-24-padSize-padSize/2
	at := func(dx, dy int) image.Rectangle {
		x := cx + dx*padSize - padSize/2
		y := cy + dy*padSize - padSize/2
		return image.Rect(x, y, x+padSize, y+padSize)
	}
	return []padButton{
		{Dir: event.DirUp, Rect: at(0, -1)},
		{Dir: event.DirDown, Rect: at(0, 1)},
		{Dir: event.DirLeft, Rect: at(-1, 0)},
		{Dir: event.DirRight, Rect: at(1, 0)},
	}
}

// padHit returns the direction under pt, if any.
func padHit(pad []padButton, pt image.Point) (event.Direction, bool) {
	for _, b := range pad {
		if pt.In(b.Rect) {
			return b.Dir, true
		}
	}
	return 0, false
}

// dirEdges returns the Key events that turn prev into cur: releases first so
// a swap of directions never leaves two held at once.
func dirEdges(prev, cur [event.NumDirections]bool) []event.Key {
	var out []event.Key
	for d := 0; d < event.NumDirections; d++ {
		if prev[d] && !cur[d] {
			out = append(out, event.Key{Dir: event.Direction(d)})
		}
	}
	for d := 0; d < event.NumDirections; d++ {
		if cur[d] && !prev[d] {
			out = append(out, event.Key{Dir: event.Direction(d), Pressed: true})
		}
	}
	return out
}

// controls merges the keyboard and the virtual d-pad into one held state and
// publishes a Key event on every edge.
type controls struct {
	held [event.NumDirections]bool
	pad  []padButton
}

func newControls(h int) *controls {
	return &controls{pad: padLayout(h)}
}

// poll samples the devices and publishes the changes to bus.
func (c *controls) poll(bus *event.Bus) {
	var cur [event.NumDirections]bool
	for d, keys := range directionKeys {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				cur[d] = true
			}
		}
	}
	for _, pt := range pointers() {
		if d, ok := padHit(c.pad, pt); ok {
			cur[d] = true
		}
	}
	for _, ev := range dirEdges(c.held, cur) {
		bus.Publish(ev)
	}
	c.held = cur
}

// reset forgets the held state without publishing, for a fresh session bus.
func (c *controls) reset() { c.held = [event.NumDirections]bool{} }

// pointers returns every held mouse button or touch position.
func pointers() []image.Point {
	var pts []image.Point
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		pts = append(pts, image.Pt(x, y))
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		pts = append(pts, image.Pt(x, y))
	}
	return pts
}

// taps returns the positions of clicks and touches that started this tick.
func taps() []image.Point {
	var pts []image.Point
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		pts = append(pts, image.Pt(x, y))
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		pts = append(pts, image.Pt(x, y))
	}
	return pts
}
