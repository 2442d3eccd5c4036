package event

import "errors"

// Event is implemented by every payload type below.
type Event interface {
	Kind() Kind
}

// Direction is one of the four cardinal input directions.
type Direction uint8

const (
	DirDown Direction = iota // default, facing the camera
	DirUp
	DirLeft
	DirRight
	dirCount // sentinel
)

// NumDirections is the number of input directions.
const NumDirections = int(dirCount)

func (d Direction) String() string {
	switch d {
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool { return d < dirCount }

type Step struct{ Step int }

// LevelUp carries the level the player just reached.
type LevelUp struct{ Lv int }

type ItemGet struct {
	Key  string
	Name string
}

// RecoverHP is published by water (1 HP) and nap (2 HP) zones.
type RecoverHP struct {
	Amount int
	HP     int
	Source string
}

type LoseHP struct {
	Amount int
	HP     int
}

type Encounter struct{ EnemyKey string }

type BattleStart struct{ EnemyKey string }

// BattleEnd closes an encounter. Beat is false when the player ran.
type BattleEnd struct {
	EnemyKey string
	Beat     bool
}

type Run struct{}

type FailToRun struct{}

type SetItem struct{ Items []string }

type BattleDialog struct{ Text string }

type BattleReady struct{}

type MapStart struct{}

type MapEnd struct{}

// Key reports a change in a direction key's held state. Virtual buttons and the
// keyboard publish the same event.
type Key struct {
	Dir     Direction
	Pressed bool
}

type Mix struct{ Items []string }

type CocktailReveal struct {
	EnemyKey string
	Name     string
}

type GameOver struct{ EnemyKey string }

func (Step) Kind() Kind           { return KindStep }
func (LevelUp) Kind() Kind        { return KindLevelUp }
func (ItemGet) Kind() Kind        { return KindItemGet }
func (RecoverHP) Kind() Kind      { return KindRecoverHP }
func (LoseHP) Kind() Kind         { return KindLoseHP }
func (Encounter) Kind() Kind      { return KindEncounter }
func (BattleStart) Kind() Kind    { return KindBattleStart }
func (BattleEnd) Kind() Kind      { return KindBattleEnd }
func (Run) Kind() Kind            { return KindRun }
func (FailToRun) Kind() Kind      { return KindFailToRun }
func (SetItem) Kind() Kind        { return KindSetItem }
func (BattleDialog) Kind() Kind   { return KindBattleDialog }
func (BattleReady) Kind() Kind    { return KindBattleReady }
func (MapStart) Kind() Kind       { return KindMapStart }
func (MapEnd) Kind() Kind         { return KindMapEnd }
func (Key) Kind() Kind            { return KindKey }
func (Mix) Kind() Kind            { return KindMix }
func (CocktailReveal) Kind() Kind { return KindCocktailReveal }
func (GameOver) Kind() Kind       { return KindGameOver }

// Validate rejects a level-up that carries no level.
func (e LevelUp) Validate() error {
	if e.Lv <= 0 {
		return errors.New("levelUp published without a level")
	}
	return nil
}

func (e Encounter) Validate() error {
	if e.EnemyKey == "" {
		return errors.New("encounter published without an enemy key")
	}
	return nil
}

func (e BattleStart) Validate() error {
	if e.EnemyKey == "" {
		return errors.New("battleStart published without an enemy key")
	}
	return nil
}

func (e Key) Validate() error {
	if !e.Dir.Valid() {
		return errors.New("key event with invalid direction")
	}
	return nil
}
