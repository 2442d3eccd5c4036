package sim

import (
	"testing"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

func newTestPlayer() *Player {
	return NewPlayer(&content.PlayerData{
		CharacterData: content.CharacterData{Key: "bartender", Vitals: content.Vitals{HP: 5, MaxHP: 10}},
		Lv:            1,
		Item:          []string{"lime"},
	})
}

func TestPlayer_HPClamps(t *testing.T) {
	p := newTestPlayer()
	ch, ok := p.GainHP(8)
	if !ok || ch.Amount != 5 || ch.HP != 10 {
		t.Fatalf("GainHP(8) from 5/10 = %+v, %v; want {5 10}", ch, ok)
	}
	p.Data.HP = 2
	ch, ok = p.LoseHP(5)
	if !ok || ch.Amount != 2 || ch.HP != 0 {
		t.Fatalf("LoseHP(5) from 2 = %+v, %v; want {2 0}", ch, ok)
	}
	if p.Alive() {
		t.Fatal("player at 0 HP reports alive")
	}
	if _, ok := p.LoseHP(-1); ok {
		t.Fatal("negative amount accepted")
	}
}

func TestPlayer_TryLevelUpDoublesThresholds(t *testing.T) {
	p := newTestPlayer()
	p.Data.Step = 10
	p.Data.LvUpCondition = map[string]int{"step": 10}
	if !p.TryLevelUp() {
		t.Fatal("expected level up")
	}
	if p.Data.Lv != 2 || p.Data.LvUpCondition["step"] != 20 {
		t.Fatalf("lv=%d cond=%v", p.Data.Lv, p.Data.LvUpCondition)
	}
	if p.TryLevelUp() {
		t.Fatal("second call without more steps leveled again")
	}
}

func TestPlayer_TryLevelUpNeedsEveryStat(t *testing.T) {
	p := newTestPlayer()
	p.Data.Step = 500
	p.Data.LvUpCondition = map[string]int{"step": 300, "beat": 2}
	if p.TryLevelUp() {
		t.Fatal("leveled with beat below threshold")
	}
	p.Data.LvUpCondition = nil
	if p.TryLevelUp() {
		t.Fatal("leveled without a condition")
	}
}

func TestPlayer_CollectItemRejectsDuplicates(t *testing.T) {
	p := newTestPlayer()
	if !p.CollectItem("mint") {
		t.Fatal("first collect rejected")
	}
	n := len(p.Data.Item)
	if p.CollectItem("mint") {
		t.Fatal("second collect accepted")
	}
	if len(p.Data.Item) != n {
		t.Fatalf("item list grew to %d", len(p.Data.Item))
	}
	if p.CollectItem("lime") {
		t.Fatal("starting item collected again")
	}
}

func TestPlayer_MovementStateMachine(t *testing.T) {
	p := newTestPlayer()
	if p.ChangeDirection(event.DirDown) {
		t.Fatal("same direction reported a change")
	}
	p.Frames.Current = 3
	p.Moved = 7
	if !p.ChangeDirection(event.DirLeft) {
		t.Fatal("new direction not applied")
	}
	if p.Moved != 0 || p.Frames.Current != 0 || p.Image != "player/bartender/left" {
		t.Fatalf("after turn: moved=%v frame=%d image=%s", p.Moved, p.Frames.Current, p.Image)
	}
	if off := p.PeekNextStepOffset(); off.X != -SpeedDefault || off.Y != 0 {
		t.Fatalf("offset = %+v", off)
	}

	for i := 0; i < 10; i++ {
		p.AdvanceStep()
	}
	if !p.StepDone() || p.Moved != StepMove {
		t.Fatalf("after 10 ticks at 2.4 moved = %v", p.Moved)
	}
	p.CompleteStep()
	if p.Data.Step != 1 || p.Moved != 0 {
		t.Fatalf("step=%d moved=%v", p.Data.Step, p.Moved)
	}

	p.AdvanceStep()
	p.Frames.Current = 3
	p.Stop()
	if p.Moving || p.Moved != 0 || p.Frames.Current != 2 {
		t.Fatalf("stop left moving=%v moved=%v frame=%d", p.Moving, p.Moved, p.Frames.Current)
	}
}

func TestPlayer_AdvanceStepRounds(t *testing.T) {
	p := newTestPlayer()
	p.Velocity = 0.1
	for i := 0; i < 30; i++ {
		p.AdvanceStep()
	}
	if p.Moved != 3 {
		t.Fatalf("moved = %v, want exactly 3", p.Moved)
	}
}

func TestCombatantImplementations(t *testing.T) {
	var _ Combatant = (*Player)(nil)
	var _ Combatant = (*BattleCharacter)(nil)
}
