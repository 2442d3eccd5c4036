package sim

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// BattlePhase is the encounter state machine.
type BattlePhase uint8

const (
	BattleIdle BattlePhase = iota // no encounter
	BattleIntro
	BattleAwaitingAction
	BattleResolvingRun
	BattleResolvingMix
	BattleConcluded
	battlePhaseCount
)

var battlePhaseNames = [battlePhaseCount]string{
	"idle", "intro", "awaitingAction", "resolvingRun", "resolvingMix", "concluded",
}

func (p BattlePhase) String() string {
	if p >= battlePhaseCount {
		return "unknown"
	}
	return battlePhaseNames[p]
}

// Default presentation delays.
const (
	DefaultDialogDelay = 900 * time.Millisecond
	DefaultEndDelay    = 1500 * time.Millisecond
)

// BattleConfig tunes an encounter.
type BattleConfig struct {
	Canvas      Vec
	DialogDelay time.Duration // between consecutive dialog lines
	EndDelay    time.Duration // from the outcome line to BattleEnd
}

// BattleOutcome is the result of the last concluded encounter.
type BattleOutcome uint8

const (
	OutcomeNone BattleOutcome = iota
	OutcomeWon
	OutcomeRan
	OutcomeLost
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeRan:
		return "ran"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// BattleStats counts outcomes over every encounter of the session.
type BattleStats struct {
	Encounters int
	Won        int
	Ran        int
	FailedRuns int
	Mismatches int
	Lost       int
}

// BattleSim owns the two battle characters of one encounter and resolves the
// player's run and mix actions into events.
type BattleSim struct {
	env Env
	cfg BattleConfig
	log logrus.FieldLogger

	Player *BattleCharacter
	Enemy  *BattleCharacter
	Stats  BattleStats

	data        *content.PlayerData
	enemy       content.Enemy
	phase       BattlePhase
	outcome     BattleOutcome
	runDisabled bool
	epoch       event.Epoch

	unsubs []func()
}

// NewBattleSim creates an idle battle screen. It listens for the Run and Mix
// actions published by the presentation layer.
func NewBattleSim(env Env, cfg BattleConfig) *BattleSim {
	env = env.withDefaults()
	if cfg.DialogDelay <= 0 {
		cfg.DialogDelay = DefaultDialogDelay
	}
	if cfg.EndDelay <= 0 {
		cfg.EndDelay = DefaultEndDelay
	}
	b := &BattleSim{env: env, cfg: cfg, log: env.Log.WithField("screen", "battle")}
	b.unsubs = append(b.unsubs,
		event.On(env.Bus, func(event.Run) { b.AttemptRun() }),
		event.On(env.Bus, func(m event.Mix) { b.SubmitIngredients(m.Items) }),
	)
	return b
}

// Close releases the bus subscriptions.
func (b *BattleSim) Close() {
	for _, u := range b.unsubs {
		u()
	}
	b.unsubs = nil
}

func (b *BattleSim) Phase() BattlePhase         { return b.phase }
func (b *BattleSim) Outcome() BattleOutcome     { return b.outcome }
func (b *BattleSim) RunDisabled() bool          { return b.runDisabled }
func (b *BattleSim) EnemyRecord() content.Enemy { return b.enemy }

// Ready reports whether both characters have resolved.
func (b *BattleSim) Ready() bool {
	return b.Player != nil && b.Enemy != nil && b.Player.Ready() && b.Enemy.Ready()
}

// Begin starts an encounter against enemyKey for data. Both characters are
// rebuilt from the records and the intro dialog is scheduled.
func (b *BattleSim) Begin(data *content.PlayerData, enemyKey string) error {
	enemy, err := b.env.DB.Enemy(enemyKey)
	if err != nil {
		return fmt.Errorf("begin battle: %w", err)
	}
	b.epoch.Bump()
	b.data = data
	b.enemy = enemy
	b.phase = BattleIntro
	b.outcome = OutcomeNone
	b.runDisabled = false
	b.Stats.Encounters++

	b.Player = NewBattleCharacter(data.CharacterData, true, b.cfg.Canvas)
	b.Enemy = NewBattleCharacter(enemy.CharacterData, false, b.cfg.Canvas)
	b.Enemy.Data.HP = enemy.MaxHP
	b.Enemy.syncBar()
	b.env.Assets.Request(b.Player.Sprite)
	b.env.Assets.Request(b.Enemy.Sprite)

	b.log.WithField("enemy", enemyKey).Info("battle start")
	b.env.Bus.Publish(event.BattleStart{EnemyKey: enemyKey})
	b.env.Bus.Publish(event.SetItem{Items: append([]string(nil), data.Item...)})

	d := b.cfg.DialogDelay
	b.say(0, fmt.Sprintf("A %s appears!", enemy.Name))
	b.later(d, event.CocktailReveal{EnemyKey: enemyKey, Name: enemy.Cocktail.Name})
	b.say(d, fmt.Sprintf("The %s wants a %s.", enemy.Name, enemy.Cocktail.Name))
	b.say(2*d, "What will you mix?")
	b.after(2*d, func() {
		b.phase = BattleAwaitingAction
		b.env.Bus.Publish(event.BattleReady{})
	})
	return nil
}

// End discards the encounter. Anything it still had scheduled is dropped.
func (b *BattleSim) End() {
	b.epoch.Bump()
	b.phase = BattleIdle
	b.Player = nil
	b.Enemy = nil
}

func (b *BattleSim) after(d time.Duration, fn func()) {
	b.env.Sched.AfterGuarded(d, b.epoch.Guard(), fn)
}

func (b *BattleSim) later(d time.Duration, ev event.Event) {
	b.env.Sched.Publish(b.env.Bus, d, b.epoch.Guard(), ev)
}

func (b *BattleSim) say(d time.Duration, text string) {
	b.later(d, event.BattleDialog{Text: text})
}

// AttemptRun tries to flee. It is rejected outside awaitingAction and after a
// failed attempt in the same encounter.
func (b *BattleSim) AttemptRun() bool {
	if b.phase != BattleAwaitingAction || b.runDisabled {
		b.log.WithField("phase", b.phase.String()).Warn("run rejected")
		return false
	}
	b.phase = BattleResolvingRun
	b.env.Bus.Publish(event.BattleDialog{Text: "..."})

	rate := b.enemy.RateRun
	if rate <= 0 {
		rate = b.data.RateRun
	}
	d := b.cfg.DialogDelay
	if b.env.Rand.Float64() < rate {
		b.Player.SucceedRun = true
		b.phase = BattleConcluded
		b.outcome = OutcomeRan
		b.Stats.Ran++
		b.record(false)
		b.say(d, "You got away safely.")
		b.later(d+b.cfg.EndDelay, event.BattleEnd{EnemyKey: b.enemy.Key, Beat: false})
		return true
	}
	b.runDisabled = true
	b.Stats.FailedRuns++
	b.say(d, "You couldn't get away!")
	b.after(d, func() {
		b.phase = BattleAwaitingAction
		b.env.Bus.Publish(event.FailToRun{})
	})
	return true
}

// SubmitIngredients mixes items against the enemy's cocktail. Items the player
// does not own are invalid input and rejected.
func (b *BattleSim) SubmitIngredients(items []string) bool {
	if b.phase != BattleAwaitingAction {
		b.log.WithField("phase", b.phase.String()).Warn("mix rejected")
		return false
	}
	if len(items) == 0 || !b.owns(items) {
		b.log.WithField("items", items).Warn("mix rejected: unknown ingredients")
		return false
	}
	b.phase = BattleResolvingMix
	b.env.Bus.Publish(event.BattleDialog{Text: "..."})
	b.env.Bus.Publish(event.BattleDialog{Text: "You mixed " + b.names(items) + "."})

	d := b.cfg.DialogDelay
	if SameIngredients(items, b.enemy.Cocktail.Ingredient) {
		b.Enemy.LoseHP(b.Enemy.Data.HP)
		b.phase = BattleConcluded
		b.outcome = OutcomeWon
		b.Stats.Won++
		b.record(true)
		b.say(d, fmt.Sprintf("The %s loved the %s!", b.enemy.Name, b.enemy.Cocktail.Name))
		b.later(d+b.cfg.EndDelay, event.BattleEnd{EnemyKey: b.enemy.Key, Beat: true})
		return true
	}

	b.Stats.Mismatches++
	ch, _ := b.Player.LoseHP(1)
	b.data.Vitals = b.Player.Data.Vitals
	b.env.Bus.Publish(event.LoseHP{Amount: ch.Amount, HP: ch.HP})
	b.say(d, fmt.Sprintf("The %s hated it!", b.enemy.Name))
	if !b.Player.Alive() {
		b.phase = BattleConcluded
		b.outcome = OutcomeLost
		b.Stats.Lost++
		b.log.WithField("enemy", b.enemy.Key).Info("game over")
		b.say(2*d, "You passed out.")
		b.later(2*d+b.cfg.EndDelay, event.GameOver{EnemyKey: b.enemy.Key})
		return true
	}
	b.after(d, func() { b.phase = BattleAwaitingAction })
	return true
}

func (b *BattleSim) owns(items []string) bool {
	for _, it := range items {
		found := false
		for _, o := range b.data.Item {
			if o == it {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (b *BattleSim) names(items []string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = b.env.DB.ItemName(it)
	}
	return strings.Join(out, ", ")
}

// record notes the encounter in the player's book. Only a win counts as a beat.
func (b *BattleSim) record(won bool) {
	if b.data.Book == nil {
		b.data.Book = map[string]bool{}
	}
	if won {
		b.data.Beat++
		b.data.Book[b.enemy.Key] = true
		return
	}
	if _, seen := b.data.Book[b.enemy.Key]; !seen {
		b.data.Book[b.enemy.Key] = false
	}
}

// SameIngredients reports unordered exact equality: same length and the same
// elements once sorted. Duplicates count.
func SameIngredients(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	a := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(a)
	sort.Strings(w)
	for i := range a {
		if a[i] != w[i] {
			return false
		}
	}
	return true
}

// Update animates both characters and eases their bars.
func (b *BattleSim) Update() {
	if b.Player == nil || !b.Ready() {
		return
	}
	b.Player.Update()
	b.Enemy.Update()
}

// Render paints the enemy, the player and both HP bars.
func (b *BattleSim) Render(r Renderer) {
	if b.Player == nil || b.Enemy == nil {
		return
	}
	r.DrawSprite(b.Enemy.Sprite)
	r.DrawSprite(b.Player.Sprite)
	r.DrawHPBar(b.Enemy)
	r.DrawHPBar(b.Player)
}
