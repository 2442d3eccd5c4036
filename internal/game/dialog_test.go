package game

import (
	"fmt"
	"testing"
)

func TestDialogLog_RecentOrder(t *testing.T) {
	dl := NewDialogLog()
	dl.Add(1, "A Sour Slime appears!")
	dl.Add(2, "What will you mix?")
	got := dl.Recent(0)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Text != "A Sour Slime appears!" || got[1].Tick != 2 {
		t.Fatalf("entries out of order: %+v", got)
	}
}

func TestDialogLog_WrapsAtCapacity(t *testing.T) {
	dl := NewDialogLog()
	for i := 0; i < dialogMaxEntries+5; i++ {
		dl.Add(i, fmt.Sprintf("line %d", i))
	}
	if dl.Len() != dialogMaxEntries {
		t.Fatalf("Len=%d, want %d", dl.Len(), dialogMaxEntries)
	}
	all := dl.Recent(0)
	if all[0].Text != "line 5" {
		t.Fatalf("oldest kept line=%q, want line 5", all[0].Text)
	}
	last := dl.Recent(2)
	if len(last) != 2 || last[1].Text != fmt.Sprintf("line %d", dialogMaxEntries+4) {
		t.Fatalf("Recent(2)=%+v", last)
	}
}

func TestDialogLog_Clear(t *testing.T) {
	dl := NewDialogLog()
	dl.Add(1, "x")
	dl.Clear()
	if dl.Len() != 0 || len(dl.Recent(0)) != 0 {
		t.Fatal("Clear should drop every line")
	}
	dl.Add(2, "y")
	if got := dl.Recent(0); len(got) != 1 || got[0].Text != "y" {
		t.Fatalf("after Clear+Add got %+v", got)
	}
}
