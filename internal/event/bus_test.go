package event

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietBus() *Bus {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewBus(l)
}

func TestBus_FanOutInRegistrationOrder(t *testing.T) {
	b := quietBus()
	var order []int
	b.Subscribe(KindStep, func(Event) { order = append(order, 1) })
	b.Subscribe(KindStep, func(Event) { order = append(order, 2) })
	b.Subscribe(KindLevelUp, func(Event) { order = append(order, 99) })

	b.Publish(Step{Step: 1})
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers [1 2], got %v", order)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := quietBus()
	calls := 0
	off := b.Subscribe(KindMapStart, func(Event) { calls++ })
	b.Publish(MapStart{})
	off()
	b.Publish(MapStart{})
	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
	off()
	b.Publish(MapStart{})
	if calls != 1 {
		t.Fatalf("second unsubscribe revived the handler, calls=%d", calls)
	}
}

func TestBus_TypedOn(t *testing.T) {
	b := quietBus()
	var got string
	On(b, func(e Encounter) { got = e.EnemyKey })
	b.Publish(Encounter{EnemyKey: "slime"})
	if got != "slime" {
		t.Fatalf("typed handler got %q, want slime", got)
	}
}

func TestBus_NestedPublishIsSynchronous(t *testing.T) {
	b := quietBus()
	var seq []Kind
	b.Subscribe(KindEncounter, func(Event) {
		seq = append(seq, KindEncounter)
		b.Publish(MapEnd{})
		seq = append(seq, KindEncounter)
	})
	b.Subscribe(KindMapEnd, func(Event) { seq = append(seq, KindMapEnd) })
	b.Publish(Encounter{EnemyKey: "x"})
	want := []Kind{KindEncounter, KindMapEnd, KindEncounter}
	if len(seq) != len(want) {
		t.Fatalf("got %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("got %v, want %v", seq, want)
		}
	}
}

func TestBus_LevelUpWithoutLevelPanics(t *testing.T) {
	b := quietBus()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for levelUp without a level")
		}
	}()
	b.Publish(LevelUp{})
}

func TestKind_NamesCoverEveryKind(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds() {
		name := k.String()
		if name == "" || name == "unknown" {
			t.Fatalf("kind %d has no name", k)
		}
		if seen[name] {
			t.Fatalf("duplicate kind name %q", name)
		}
		seen[name] = true
	}
}

func TestRecorder_CountsByKind(t *testing.T) {
	b := quietBus()
	r := Record(b)
	b.Publish(Step{Step: 1})
	b.Publish(Step{Step: 2})
	b.Publish(BattleEnd{Beat: true})
	if r.Count(KindStep) != 2 || r.Count(KindBattleEnd) != 1 {
		t.Fatalf("unexpected counts: step=%d battleEnd=%d", r.Count(KindStep), r.Count(KindBattleEnd))
	}
	r.Stop()
	b.Publish(Step{Step: 3})
	if r.Count(KindStep) != 2 {
		t.Fatal("stopped recorder should not capture")
	}
}
