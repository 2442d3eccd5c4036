package sim

import "strings"

// Frames is a sprite's frame-animation state.
type Frames struct {
	Max     int // number of frames in the strip
	Current int
	Elapsed int // ticks since the sprite started animating
	Hold    int // ticks per frame
}

// Sprite is the positioned-renderable capability every entity is built from.
//
// Sprites are constructed pending with zero geometry. The asset loader calls
// Resolve once the backing image's size is known; until then the sprite is not
// Ready, draws are skipped and simulations do not move it.
type Sprite struct {
	Rect
	Image  string
	Frames Frames
	Moving bool

	// DrawW/DrawH override the natural size when drawing; zero keeps it.
	DrawW, DrawH float64

	ready   bool
	onReady []func()
}

// NewSprite creates a pending sprite at (x, y) showing image.
func NewSprite(image string, x, y float64, frames int) *Sprite {
	if frames < 1 {
		frames = 1
	}
	return &Sprite{
		Rect:   Rect{X: x, Y: y},
		Image:  image,
		Frames: Frames{Max: frames, Hold: 10},
	}
}

// Ready reports whether the natural size is known.
func (s *Sprite) Ready() bool { return s.ready }

// Resolve fixes the natural size of one frame and marks the sprite ready.
// Deferred placement callbacks run once, in registration order.
func (s *Sprite) Resolve(w, h float64) {
	if s.ready {
		return
	}
	s.W, s.H = w, h
	s.ready = true
	pending := s.onReady
	s.onReady = nil
	for _, fn := range pending {
		fn()
	}
}

// WhenReady runs fn now if the sprite is ready, otherwise right after Resolve.
func (s *Sprite) WhenReady(fn func()) {
	if s.ready {
		fn()
		return
	}
	s.onReady = append(s.onReady, fn)
}

// DrawSize returns the size the sprite is painted at.
func (s *Sprite) DrawSize() (float64, float64) {
	w, h := s.W, s.H
	if s.DrawW > 0 {
		w = s.DrawW
	}
	if s.DrawH > 0 {
		h = s.DrawH
	}
	return w, h
}

// Animate advances the frame strip while Moving.
func (s *Sprite) Animate() {
	if s.Frames.Max <= 1 || !s.Moving {
		return
	}
	s.Frames.Elapsed++
	if s.Frames.Hold <= 0 || s.Frames.Elapsed%s.Frames.Hold != 0 {
		return
	}
	s.Frames.Current = (s.Frames.Current + 1) % s.Frames.Max
}

// Assets resolves sprite geometry. The ebiten shell resolves on a later frame;
// headless runs resolve immediately.
type Assets interface {
	Request(s *Sprite)
}

// Placeholder sizes used when no real image exists for a key family.
var (
	PlayerSize = Vec{X: 40, Y: 40}
	EnemySize  = Vec{X: 96, Y: 96}
)

// SizeTable maps an image key, or its family prefix before the first '/', to a size.
type SizeTable map[string]Vec

// Lookup returns the size for key, trying the exact key first and then its family.
func (t SizeTable) Lookup(key string) (Vec, bool) {
	if v, ok := t[key]; ok {
		return v, true
	}
	if i := strings.IndexByte(key, '/'); i > 0 {
		if v, ok := t[key[:i]]; ok {
			return v, true
		}
	}
	return Vec{}, false
}

// DefaultSizes returns the placeholder size table for a map of mapSize pixels.
func DefaultSizes(mapSize Vec) SizeTable {
	return SizeTable{
		"player": PlayerSize,
		"enemy":  EnemySize,
		"map":    mapSize,
	}
}

// InstantAssets resolves every request synchronously from a size table.
type InstantAssets struct {
	Sizes    SizeTable
	Fallback Vec
	Deferred bool // queue requests until Flush instead of resolving at once

	queue []*Sprite
}

func (a *InstantAssets) Request(s *Sprite) {
	if a.Deferred {
		a.queue = append(a.queue, s)
		return
	}
	a.resolve(s)
}

// Flush resolves every queued request.
func (a *InstantAssets) Flush() {
	q := a.queue
	a.queue = nil
	for _, s := range q {
		a.resolve(s)
	}
}

func (a *InstantAssets) resolve(s *Sprite) {
	size, ok := a.Sizes.Lookup(s.Image)
	if !ok {
		size = a.Fallback
		if size.X == 0 || size.Y == 0 {
			size = Vec{X: CellSize, Y: CellSize}
		}
	}
	s.Resolve(size.X, size.Y)
}
