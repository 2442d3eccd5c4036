package sim

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// Direction is the player's facing / intended direction.
type Direction = event.Direction

const (
	StepMove     = 24.0 // px per step
	SpeedDefault = 2.4  // px per tick on plain ground
	SpeedPath    = 4.0
	SpeedForest  = 1.0

	walkFrames = 4
)

// Combatant is the HP behaviour shared by the map player and both battle characters.
type Combatant interface {
	GainHP(amount int) (content.HPChange, bool)
	LoseHP(amount int) (content.HPChange, bool)
	Alive() bool
}

// Player is the map-screen character. It owns the movement state machine; its
// Data record is the save data shared with the battle screen.
type Player struct {
	*Sprite
	Data *content.PlayerData

	State    Direction
	Velocity float64
	Moved    float64 // progress within the current step

	owned mapset.Set[string]
}

// NewPlayer creates a pending player sprite facing down.
func NewPlayer(data *content.PlayerData) *Player {
	p := &Player{
		Data:     data,
		State:    event.DirDown,
		Velocity: SpeedDefault,
		owned:    mapset.New[string](),
	}
	p.Sprite = NewSprite(p.imageFor(event.DirDown), 0, 0, walkFrames)
	for _, it := range data.Item {
		p.owned.Put(it)
	}
	return p
}

func (p *Player) imageFor(d Direction) string {
	if img, ok := p.Data.Images[d.String()]; ok {
		return img
	}
	return "player/" + p.Data.Key + "/" + d.String()
}

// ChangeDirection turns the player. A real change swaps the walking strip and
// restarts both the step and the animation.
func (p *Player) ChangeDirection(d Direction) bool {
	if d == p.State {
		return false
	}
	p.State = d
	p.Image = p.imageFor(d)
	p.Moved = 0
	p.Frames.Current = 0
	return true
}

// PeekNextStepOffset returns the displacement one tick of movement would apply.
func (p *Player) PeekNextStepOffset() Vec {
	switch p.State {
	case event.DirUp:
		return Vec{Y: -p.Velocity}
	case event.DirDown:
		return Vec{Y: p.Velocity}
	case event.DirLeft:
		return Vec{X: -p.Velocity}
	case event.DirRight:
		return Vec{X: p.Velocity}
	default:
		return Vec{}
	}
}

// AdvanceStep moves one tick further into the current step.
func (p *Player) AdvanceStep() {
	p.Moving = true
	p.Moved = math.Round((p.Moved+p.Velocity)*10) / 10
}

// Stop ends movement and settles on an idle (even) frame.
func (p *Player) Stop() {
	p.Moving = false
	p.Moved = 0
	p.Frames.Current -= p.Frames.Current % 2
}

// MidStep reports 0 < Moved < StepMove.
func (p *Player) MidStep() bool {
	return p.Moved > 0 && p.Moved < StepMove
}

// StepDone reports whether the current step has reached StepMove.
func (p *Player) StepDone() bool {
	return p.Moved >= StepMove
}

// CompleteStep counts one finished step. Call exactly once per crossing of StepMove.
func (p *Player) CompleteStep() {
	p.Data.Step++
	p.Moved = 0
}

// TryLevelUp levels the player once if every tracked stat has reached its
// threshold, then doubles every threshold. It never loops.
func (p *Player) TryLevelUp() bool {
	cond := p.Data.LvUpCondition
	if len(cond) == 0 {
		return false
	}
	for stat, threshold := range cond {
		v, ok := p.Data.Stat(stat)
		if !ok || v < threshold {
			return false
		}
	}
	p.Data.Lv++
	for stat := range cond {
		cond[stat] *= 2
	}
	return true
}

// CollectItem adds key to the bag unless it is already owned.
func (p *Player) CollectItem(key string) bool {
	if key == "" || p.owned.Has(key) {
		return false
	}
	p.owned.Put(key)
	p.Data.Item = append(p.Data.Item, key)
	return true
}

// Owns reports whether key is in the bag.
func (p *Player) Owns(key string) bool {
	return p.owned.Has(key)
}

func (p *Player) GainHP(amount int) (content.HPChange, bool) {
	return p.Data.Gain(amount)
}

func (p *Player) LoseHP(amount int) (content.HPChange, bool) {
	return p.Data.Lose(amount)
}

func (p *Player) Alive() bool { return p.Data.HP > 0 }
