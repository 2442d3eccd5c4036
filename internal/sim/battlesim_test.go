package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

func TestSameIngredients(t *testing.T) {
	cases := []struct {
		got, want []string
		match     bool
	}{
		{[]string{"mint", "lime"}, []string{"lime", "mint"}, true},
		{[]string{"lime", "mint"}, []string{"lime", "mint"}, true},
		{[]string{"lime", "lime"}, []string{"lime", "mint"}, false},
		{[]string{"lime"}, []string{"lime", "mint"}, false},
		{[]string{"lime", "mint", "mint"}, []string{"lime", "mint"}, false},
		{nil, nil, true},
	}
	for _, c := range cases {
		if got := SameIngredients(c.got, c.want); got != c.match {
			t.Errorf("SameIngredients(%v, %v) = %v, want %v", c.got, c.want, got, c.match)
		}
	}
}

type battleFixture struct {
	b     *BattleSim
	bus   *event.Bus
	sched *event.Scheduler
	clock *event.ManualClock
	rec   *event.Recorder
	data  *content.PlayerData
}

// newBattleFixture starts an encounter with a slime whose run chance is
// enemyRate and lets the intro finish.
func newBattleFixture(t *testing.T, enemyRate, playerRate float64) *battleFixture {
	t.Helper()
	db := &content.Database{
		Enemies: map[string]content.Enemy{
			"slime": {
				CharacterData: content.CharacterData{Key: "slime", Name: "Slime", Vitals: content.Vitals{HP: 3, MaxHP: 3}},
				Cocktail:      content.Cocktail{Name: "Lime Fizz", Ingredient: []string{"lime", "soda"}},
				Rank:          1,
				RateRun:       enemyRate,
			},
		},
		Items: map[string]content.Item{
			"lime": {Key: "lime", Name: "Lime", Lv: 1},
			"soda": {Key: "soda", Name: "Soda", Lv: 1},
			"mint": {Key: "mint", Name: "Mint", Lv: 1},
		},
	}
	f := &battleFixture{
		bus:   event.NewBus(quietLogger()),
		clock: event.NewManualClock(time.Unix(1000, 0)),
		data: &content.PlayerData{
			CharacterData: content.CharacterData{Key: "bartender", Name: "Bartender", Vitals: content.Vitals{HP: 10, MaxHP: 10}},
			Item:          []string{"lime", "soda", "mint"},
			Lv:            1,
			RateRun:       playerRate,
		},
	}
	f.sched = event.NewScheduler(f.clock)
	f.rec = event.Record(f.bus)
	f.b = NewBattleSim(Env{
		Bus:    f.bus,
		Sched:  f.sched,
		Clock:  f.clock,
		DB:     db,
		Assets: &InstantAssets{Sizes: DefaultSizes(Vec{})},
		Rand:   rand.New(rand.NewSource(7)), // #nosec G404 -- test
		Log:    quietLogger(),
	}, BattleConfig{Canvas: Vec{X: 1024, Y: 576}})
	t.Cleanup(f.b.Close)
	if err := f.b.Begin(f.data, "slime"); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *battleFixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.sched.RunDue()
}

func (f *battleFixture) finishIntro(t *testing.T) {
	t.Helper()
	f.advance(2 * DefaultDialogDelay)
	if f.b.Phase() != BattleAwaitingAction {
		t.Fatalf("phase after intro = %s", f.b.Phase())
	}
}

func TestBattle_IntroSequence(t *testing.T) {
	f := newBattleFixture(t, 1, 1)
	if f.rec.Count(event.KindBattleStart) != 1 || f.rec.Count(event.KindSetItem) != 1 {
		t.Fatal("battleStart and setItem should publish at once")
	}
	if f.rec.Count(event.KindBattleDialog) != 0 {
		t.Fatal("dialog published before the scheduler ran")
	}
	if f.b.AttemptRun() {
		t.Fatal("run accepted during the intro")
	}
	f.advance(0)
	if f.rec.Count(event.KindBattleDialog) != 1 || f.rec.Count(event.KindCocktailReveal) != 0 {
		t.Fatalf("after 0ms: dialogs=%d reveals=%d", f.rec.Count(event.KindBattleDialog), f.rec.Count(event.KindCocktailReveal))
	}
	f.advance(DefaultDialogDelay)
	rev := f.rec.OfKind(event.KindCocktailReveal)
	if len(rev) != 1 || rev[0].(event.CocktailReveal).Name != "Lime Fizz" {
		t.Fatalf("reveal = %v", rev)
	}
	f.finishIntro(t)
	if f.rec.Count(event.KindBattleReady) != 1 {
		t.Fatal("battleReady missing")
	}
	if !f.b.Ready() {
		t.Fatal("characters not resolved")
	}
}

func TestBattle_MixMatchWins(t *testing.T) {
	f := newBattleFixture(t, 1, 1)
	f.finishIntro(t)
	if !f.b.SubmitIngredients([]string{"soda", "lime"}) {
		t.Fatal("mix rejected")
	}
	if f.b.Outcome() != OutcomeWon || f.b.Phase() != BattleConcluded {
		t.Fatalf("outcome=%s phase=%s", f.b.Outcome(), f.b.Phase())
	}
	if f.b.Enemy.Data.HP != 0 || f.b.Enemy.Bar.Value != 0 {
		t.Fatalf("enemy hp=%d bar=%d", f.b.Enemy.Data.HP, f.b.Enemy.Bar.Value)
	}
	if f.data.Beat != 1 || !f.data.Book["slime"] {
		t.Fatalf("beat=%d book=%v", f.data.Beat, f.data.Book)
	}
	f.advance(DefaultDialogDelay + DefaultEndDelay)
	ends := f.rec.OfKind(event.KindBattleEnd)
	if len(ends) != 1 || !ends[0].(event.BattleEnd).Beat {
		t.Fatalf("battleEnd = %v", ends)
	}
}

func TestBattle_MixMismatchCostsOneHP(t *testing.T) {
	f := newBattleFixture(t, 1, 1)
	f.finishIntro(t)
	if !f.b.SubmitIngredients([]string{"lime", "lime"}) {
		t.Fatal("mix rejected")
	}
	loss := f.rec.OfKind(event.KindLoseHP)
	if len(loss) != 1 || loss[0].(event.LoseHP).Amount != 1 || loss[0].(event.LoseHP).HP != 9 {
		t.Fatalf("loseHp = %v", loss)
	}
	if f.data.HP != 9 || f.b.Player.Bar.Value != 9 {
		t.Fatalf("save hp=%d bar=%d", f.data.HP, f.b.Player.Bar.Value)
	}
	if f.b.SubmitIngredients([]string{"lime", "soda"}) {
		t.Fatal("second mix accepted while the first resolves")
	}
	f.advance(DefaultDialogDelay)
	if f.b.Phase() != BattleAwaitingAction {
		t.Fatalf("phase = %s", f.b.Phase())
	}
}

func TestBattle_MixRejectsUnownedItems(t *testing.T) {
	f := newBattleFixture(t, 1, 1)
	f.finishIntro(t)
	if f.b.SubmitIngredients([]string{"gin", "tonic"}) {
		t.Fatal("unowned ingredients accepted")
	}
	if f.b.SubmitIngredients(nil) {
		t.Fatal("empty mix accepted")
	}
	if f.rec.Count(event.KindLoseHP) != 0 || f.b.Phase() != BattleAwaitingAction {
		t.Fatal("rejected mix changed state")
	}
}

func TestBattle_ZeroHPIsGameOver(t *testing.T) {
	f := newBattleFixture(t, 1, 1)
	f.data.HP = 1
	f.b.Player.Data.HP = 1
	f.finishIntro(t)
	f.b.SubmitIngredients([]string{"mint"})
	if f.b.Outcome() != OutcomeLost || f.b.Phase() != BattleConcluded {
		t.Fatalf("outcome=%s phase=%s", f.b.Outcome(), f.b.Phase())
	}
	f.advance(2*DefaultDialogDelay + DefaultEndDelay)
	if f.rec.Count(event.KindGameOver) != 1 || f.rec.Count(event.KindBattleEnd) != 0 {
		t.Fatalf("gameOver=%d battleEnd=%d", f.rec.Count(event.KindGameOver), f.rec.Count(event.KindBattleEnd))
	}
}

func TestBattle_RunSucceeds(t *testing.T) {
	f := newBattleFixture(t, 1, 0)
	f.finishIntro(t)
	f.bus.Publish(event.Run{})
	if f.b.Outcome() != OutcomeRan || !f.b.Player.SucceedRun {
		t.Fatalf("outcome=%s", f.b.Outcome())
	}
	if beaten, seen := f.data.Book["slime"]; !seen || beaten || f.data.Beat != 0 {
		t.Fatalf("book=%v beat=%d", f.data.Book, f.data.Beat)
	}
	f.advance(DefaultDialogDelay + DefaultEndDelay)
	ends := f.rec.OfKind(event.KindBattleEnd)
	if len(ends) != 1 || ends[0].(event.BattleEnd).Beat {
		t.Fatalf("battleEnd = %v", ends)
	}
}

func TestBattle_FailedRunDisablesRun(t *testing.T) {
	// Enemy rate 0 falls back to the player's rate, also 0.
	f := newBattleFixture(t, 0, 0)
	f.finishIntro(t)
	if !f.b.AttemptRun() {
		t.Fatal("first run rejected")
	}
	if !f.b.RunDisabled() || f.b.Outcome() != OutcomeNone {
		t.Fatalf("disabled=%v outcome=%s", f.b.RunDisabled(), f.b.Outcome())
	}
	f.advance(DefaultDialogDelay)
	if f.rec.Count(event.KindFailToRun) != 1 || f.b.Phase() != BattleAwaitingAction {
		t.Fatalf("failToRun=%d phase=%s", f.rec.Count(event.KindFailToRun), f.b.Phase())
	}
	if f.b.AttemptRun() {
		t.Fatal("run accepted after a failed attempt")
	}
	if !f.b.SubmitIngredients([]string{"lime", "soda"}) {
		t.Fatal("mix should still be allowed")
	}
}

func TestBattle_EndDropsScheduledWork(t *testing.T) {
	f := newBattleFixture(t, 1, 1)
	f.b.End()
	f.advance(10 * time.Second)
	if f.rec.Count(event.KindBattleReady) != 0 || f.rec.Count(event.KindBattleDialog) != 0 {
		t.Fatal("intro fired after End")
	}
	if f.sched.Stale() == 0 {
		t.Fatal("expected stale tasks to be dropped")
	}
	if f.b.Player != nil || f.b.Phase() != BattleIdle {
		t.Fatal("encounter not discarded")
	}
}

func TestBattle_RenderDrawsBothSidesWithBars(t *testing.T) {
	f := newBattleFixture(t, 1, 1)
	r := &RecordingRenderer{}
	f.b.Render(r)
	want := []string{"sprite:enemy/slime/battle", "sprite:player/bartender/battle", "bar:slime:3/3", "bar:bartender:10/10"}
	if len(r.Ops) != len(want) {
		t.Fatalf("ops = %v", r.Ops)
	}
	for i := range want {
		if r.Ops[i] != want[i] {
			t.Fatalf("op %d = %q, want %q", i, r.Ops[i], want[i])
		}
	}
}
