package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// toastLifetime is how many ticks a map toast stays visible (~2 seconds).
const toastLifetime = 120

// toastMax caps how many toasts stack above the player.
const toastMax = 4

// ToastKind picks a toast's accent colour.
type ToastKind uint8

const (
	ToastItem ToastKind = iota
	ToastHeal
	ToastLevel
	ToastInfo
)

var toastAccents = [...]color.RGBA{
	ToastItem:  {R: 230, G: 190, B: 60, A: 255},
	ToastHeal:  {R: 80, G: 170, B: 240, A: 255},
	ToastLevel: {R: 120, G: 220, B: 110, A: 255},
	ToastInfo:  {R: 180, G: 180, B: 180, A: 255},
}

// Toast is a short message floating above the player on the map screen.
type Toast struct {
	Kind ToastKind
	Text string
	age  int
}

// Alpha fades the toast out over the last 30% of its life.
func (t *Toast) Alpha() float32 {
	progress := float64(t.age) / float64(toastLifetime)
	if progress <= 0.70 {
		return 1
	}
	a := float32(1 - (progress-0.70)/0.30)
	if a < 0 {
		return 0
	}
	return a
}

// Toasts is the stack of live toasts, oldest first.
type Toasts struct {
	items []*Toast
}

// Push adds a toast, dropping the oldest past toastMax.
func (ts *Toasts) Push(kind ToastKind, msg string) {
	ts.items = append(ts.items, &Toast{Kind: kind, Text: msg})
	if len(ts.items) > toastMax {
		ts.items = ts.items[len(ts.items)-toastMax:]
	}
}

// Tick ages every toast and prunes expired ones.
func (ts *Toasts) Tick() {
	kept := ts.items[:0]
	for _, t := range ts.items {
		t.age++
		if t.age < toastLifetime {
			kept = append(kept, t)
		}
	}
	ts.items = kept
}

// Live returns the visible toasts, oldest first.
func (ts *Toasts) Live() []*Toast { return ts.items }

// Clear drops every toast.
func (ts *Toasts) Clear() { ts.items = ts.items[:0] }

// Draw stacks the toasts above (cx, top), newest lowest, each drifting up as it ages.
func (ts *Toasts) Draw(screen *ebiten.Image, face text.Face, cx, top float32) {
	const lineH = 24
	const padX = 8
	y := top - 8
	for i := len(ts.items) - 1; i >= 0; i-- {
		t := ts.items[i]
		alpha := t.Alpha()
		if alpha < 0.05 {
			continue
		}
		w, _ := text.Measure(t.Text, face, 0)
		bgW := float32(w) + padX*2
		drift := float32(t.age) / 6
		bgX := cx - bgW/2
		bgY := y - lineH - drift

		vector.FillRect(screen, bgX, bgY, bgW, lineH, color.RGBA{R: 20, G: 22, B: 20, A: uint8(210 * alpha)}, false)
		accent := toastAccents[t.Kind]
		accent.A = uint8(float32(accent.A) * alpha)
		vector.FillRect(screen, bgX, bgY, 3, lineH, accent, false)

		drawTextAlpha(screen, t.Text, face, float64(bgX+padX), float64(bgY+3), color.White, alpha)
		y = bgY - 2 + drift
	}
}
