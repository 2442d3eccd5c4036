package main

import (
	"io"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
	"github.com/Garsondee/Cocktail-Quest/internal/sim"
)

func TestChooseAction_MixesKnownCocktail(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	act, items := chooseAction(rng, []string{"soda", "lime", "mint"}, []string{"lime", "soda"}, false, 1)
	if act != actionMix {
		t.Fatalf("expected mix, got %v", act)
	}
	if !reflect.DeepEqual(items, []string{"lime", "soda"}) {
		t.Fatalf("items=%v", items)
	}
}

func TestChooseAction_RunsWhenMissingIngredient(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	act, _ := chooseAction(rng, []string{"lime"}, []string{"lime", "soda"}, false, 1)
	if act != actionRun {
		t.Fatalf("expected run, got %v", act)
	}
}

func TestChooseAction_GuessesOnceRunDisabled(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	act, items := chooseAction(rng, []string{"lime"}, []string{"lime", "soda"}, true, 1)
	if act != actionMix || len(items) != 1 || items[0] != "lime" {
		t.Fatalf("expected a one-item guess, got %v %v", act, items)
	}
}

func TestWanderer_ReleasesBeforeTurning(t *testing.T) {
	w := newWanderer(rand.New(rand.NewSource(3)))
	first := w.tick()
	if len(first) != 1 || !first[0].Pressed {
		t.Fatalf("first tick should only press, got %v", first)
	}
	w.framesLeft = 0
	second := w.tick()
	if len(second) != 2 {
		t.Fatalf("turn should release then press, got %v", second)
	}
	if second[0] != (event.Key{Dir: first[0].Dir}) {
		t.Fatalf("expected release of %s, got %+v", first[0].Dir, second[0])
	}
	w.reset()
	if got := w.tick(); len(got) != 1 || !got[0].Pressed {
		t.Fatalf("after reset expected a bare press, got %v", got)
	}
}

func TestFirstFrame(t *testing.T) {
	entries := []sim.SimLogEntry{
		{Frame: 3, Category: "step", Value: "1"},
		{Frame: 9, Category: "encounter", Value: "slime"},
		{Frame: 12, Category: "encounter", Value: "bat"},
	}
	if got := firstFrame(entries, "encounter", "bat"); got != 12 {
		t.Fatalf("firstFrame=%d, want 12", got)
	}
	if got := firstFrame(entries, "levelUp", ""); got != -1 {
		t.Fatalf("missing category should give -1, got %d", got)
	}
}

func TestRunScenarioWander_Deterministic(t *testing.T) {
	db, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	opts := reportOptions{frames: 900, variant: "bartender", rateEncounter: -1, skill: 0.7, db: db, log: log}

	a, err := runScenarioWander(1, 42, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := runScenarioWander(1, 42, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.mapStats != b.mapStats || a.battleStats != b.battleStats {
		t.Fatalf("same seed diverged:\n%+v\n%+v", a, b)
	}
	if a.frames > opts.frames {
		t.Fatalf("ran %d frames, budget %d", a.frames, opts.frames)
	}
	if a.mapStats.Steps == 0 {
		t.Fatal("the wanderer never completed a step")
	}
	if a.schedStale != b.schedStale || a.schedPending != b.schedPending {
		t.Fatalf("scheduler stats diverged: %+v vs %+v", a, b)
	}
	if a.schedPending == 0 && a.nextDueIn >= 0 {
		t.Fatalf("next due %v with nothing pending", a.nextDueIn)
	}
}

func TestPrintRun_SchedulerLine(t *testing.T) {
	var buf strings.Builder
	printRun(&buf, runStats{runIndex: 1, schedPending: 2, schedStale: 3, nextDueIn: 1500 * time.Millisecond})
	if !strings.Contains(buf.String(), "scheduler: pending=2 stale_dropped=3 next_due_in=1.5s") {
		t.Fatalf("report missing scheduler line:\n%s", buf.String())
	}
	if formatDue(-1) != "none" {
		t.Fatal("idle scheduler should print none")
	}
}

func TestFormatBook(t *testing.T) {
	got := formatBook(map[string]bool{"slime": true, "bat": false})
	if got != "bat=met,slime=beat" {
		t.Fatalf("formatBook=%q", got)
	}
	if formatBook(nil) != "none" {
		t.Fatal("empty book should print none")
	}
}
