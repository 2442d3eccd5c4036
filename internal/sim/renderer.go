package sim

import "fmt"

// Renderer paints entities for one frame. The simulations call it from their
// render step in back-to-front order.
type Renderer interface {
	DrawSprite(s *Sprite)
	DrawBoundary(l Layer, b *Boundary)
	DrawHPBar(c *BattleCharacter)
}

// RecordingRenderer stores draw calls as short strings. Used by tests and the
// headless report.
type RecordingRenderer struct {
	Ops []string
}

func (r *RecordingRenderer) DrawSprite(s *Sprite) {
	if !s.Ready() {
		return
	}
	r.Ops = append(r.Ops, "sprite:"+s.Image)
}

func (r *RecordingRenderer) DrawBoundary(l Layer, b *Boundary) {
	r.Ops = append(r.Ops, fmt.Sprintf("layer:%s:%d", l, b.Index))
}

func (r *RecordingRenderer) DrawHPBar(c *BattleCharacter) {
	r.Ops = append(r.Ops, fmt.Sprintf("bar:%s:%d/%d", c.Data.Key, c.Bar.Value, c.Bar.Max))
}

// Reset clears the recorded operations.
func (r *RecordingRenderer) Reset() { r.Ops = r.Ops[:0] }
