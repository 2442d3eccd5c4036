package sim

import "github.com/Garsondee/Cocktail-Quest/internal/content"

// Anchor selects a battle character's fixed screen position.
type Anchor uint8

const (
	AnchorPlayer Anchor = iota // bottom-left third
	AnchorEnemy                // top-right area
)

// heroScale enlarges the player's battle pose over its natural size.
const heroScale = 2.5

// HPBar mirrors a character's HP. Shown eases toward Value for the drain animation.
type HPBar struct {
	Value int
	Max   int
	Shown float64
}

// Ratio returns the displayed fill fraction.
func (b HPBar) Ratio() float64 {
	if b.Max <= 0 {
		return 0
	}
	return b.Shown / float64(b.Max)
}

// BattleCharacter is one side of an encounter.
type BattleCharacter struct {
	*Sprite
	Data       content.CharacterData
	IsPlayer   bool
	Bar        HPBar
	Anchor     Anchor
	SucceedRun bool

	canvas Vec
}

// NewBattleCharacter creates a pending battle character. It positions itself at
// its anchor once the asset loader resolves its image.
func NewBattleCharacter(data content.CharacterData, isPlayer bool, canvas Vec) *BattleCharacter {
	img := data.Images["battle"]
	if img == "" {
		if isPlayer {
			img = "player/" + data.Key + "/battle"
		} else {
			img = "enemy/" + data.Key + "/battle"
		}
	}
	bc := &BattleCharacter{
		Sprite:   NewSprite(img, 0, 0, 2),
		Data:     data,
		IsPlayer: isPlayer,
		Anchor:   AnchorEnemy,
		canvas:   canvas,
	}
	if isPlayer {
		bc.Anchor = AnchorPlayer
	}
	bc.Moving = true // idle bob
	bc.Frames.Hold = 30
	bc.syncBar()
	bc.Bar.Shown = float64(bc.Bar.Value)
	bc.WhenReady(bc.place)
	return bc
}

func (bc *BattleCharacter) place() {
	if bc.IsPlayer {
		bc.DrawW, bc.DrawH = bc.W*heroScale, bc.H*heroScale
	}
	w, h := bc.DrawSize()
	switch bc.Anchor {
	case AnchorPlayer:
		bc.MoveTo(bc.canvas.X/3-w, bc.canvas.Y*2/3-h)
	case AnchorEnemy:
		bc.MoveTo(bc.canvas.X*3/4-w/2, bc.canvas.Y/8)
	}
}

func (bc *BattleCharacter) syncBar() {
	bc.Bar.Max = bc.Data.MaxHP
	v := bc.Data.HP
	if v < 0 {
		v = 0
	}
	if v > bc.Bar.Max {
		v = bc.Bar.Max
	}
	bc.Bar.Value = v
}

// GainHP heals and keeps the bar in step.
func (bc *BattleCharacter) GainHP(amount int) (content.HPChange, bool) {
	ch, ok := bc.Data.Gain(amount)
	if ok {
		bc.syncBar()
	}
	return ch, ok
}

// LoseHP damages and keeps the bar in step.
func (bc *BattleCharacter) LoseHP(amount int) (content.HPChange, bool) {
	ch, ok := bc.Data.Lose(amount)
	if ok {
		bc.syncBar()
	}
	return ch, ok
}

func (bc *BattleCharacter) Alive() bool { return bc.Data.HP > 0 }

// Update eases the displayed bar toward the real value and animates the pose.
func (bc *BattleCharacter) Update() {
	target := float64(bc.Bar.Value)
	const rate = 0.1 // hp per tick
	switch {
	case bc.Bar.Shown > target+rate:
		bc.Bar.Shown -= rate
	case bc.Bar.Shown < target-rate:
		bc.Bar.Shown += rate
	default:
		bc.Bar.Shown = target
	}
	bc.Animate()
}
