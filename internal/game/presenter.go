package game

import (
	"fmt"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// presenter turns bus traffic into what the HUD shows: map toasts, the battle
// dialog box, the cocktail name and the ingredient picker contents.
type presenter struct {
	db *content.Database

	tick   int
	dialog *DialogLog
	toasts Toasts
	picker Picker

	enemyKey    string
	enemyName   string
	cocktail    string
	runBlocked  bool
	gameOver    bool
	lastOutcome string

	unsubs []func()
}

func newPresenter(bus *event.Bus, db *content.Database) *presenter {
	p := &presenter{db: db, dialog: NewDialogLog()}
	p.unsubs = []func(){
		event.On(bus, p.onItemGet),
		event.On(bus, p.onRecoverHP),
		event.On(bus, p.onLevelUp),
		event.On(bus, p.onLoseHP),
		event.On(bus, p.onBattleStart),
		event.On(bus, p.onSetItem),
		event.On(bus, p.onDialog),
		event.On(bus, p.onCocktail),
		event.On(bus, p.onFailToRun),
		event.On(bus, p.onBattleEnd),
		event.On(bus, p.onMapStart),
		event.On(bus, p.onGameOver),
	}
	return p
}

// Tick advances toast lifetimes. Called once per ebiten update.
func (p *presenter) Tick() {
	p.tick++
	p.toasts.Tick()
}

func (p *presenter) close() {
	for _, u := range p.unsubs {
		u()
	}
	p.unsubs = nil
}

func (p *presenter) onItemGet(ev event.ItemGet) {
	p.toasts.Push(ToastItem, fmt.Sprintf("Got %s!", ev.Name))
}

func (p *presenter) onRecoverHP(ev event.RecoverHP) {
	p.toasts.Push(ToastHeal, fmt.Sprintf("+%d HP (%s)", ev.Amount, ev.Source))
}

func (p *presenter) onLevelUp(ev event.LevelUp) {
	p.toasts.Push(ToastLevel, fmt.Sprintf("Level up! Lv %d", ev.Lv))
}

func (p *presenter) onLoseHP(ev event.LoseHP) {
	p.dialog.Add(p.tick, fmt.Sprintf("You lost %d HP.", ev.Amount))
}

func (p *presenter) onBattleStart(ev event.BattleStart) {
	p.dialog.Clear()
	p.picker.Set(nil)
	p.enemyKey = ev.EnemyKey
	p.enemyName = ev.EnemyKey
	if e, err := p.db.Enemy(ev.EnemyKey); err == nil {
		p.enemyName = e.Name
	}
	p.cocktail = ""
	p.runBlocked = false
	p.lastOutcome = ""
}

func (p *presenter) onSetItem(ev event.SetItem) {
	names := make([]string, len(ev.Items))
	for i, k := range ev.Items {
		names[i] = p.db.ItemName(k)
	}
	p.picker.SetNamed(ev.Items, names)
}

func (p *presenter) onDialog(ev event.BattleDialog) {
	p.dialog.Add(p.tick, ev.Text)
}

func (p *presenter) onCocktail(ev event.CocktailReveal) {
	p.cocktail = ev.Name
}

func (p *presenter) onFailToRun(event.FailToRun) {
	p.runBlocked = true
}

func (p *presenter) onBattleEnd(ev event.BattleEnd) {
	if ev.Beat {
		p.lastOutcome = "Beat " + p.enemyName
	} else {
		p.lastOutcome = "Escaped " + p.enemyName
	}
	p.picker.ClearSelection()
}

func (p *presenter) onMapStart(event.MapStart) {
	p.toasts.Clear()
	if p.lastOutcome != "" {
		p.toasts.Push(ToastInfo, p.lastOutcome)
		p.lastOutcome = ""
	}
}

func (p *presenter) onGameOver(event.GameOver) {
	p.gameOver = true
}
