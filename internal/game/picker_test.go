package game

import (
	"reflect"
	"testing"
)

func TestPicker_ToggleKeepsSelectionOrder(t *testing.T) {
	var p Picker
	p.SetNamed([]string{"lime", "mint", "soda"}, []string{"Lime", "Mint", "Soda Water"})
	p.Toggle(2)
	p.Toggle(0)
	if got := p.Chosen(); !reflect.DeepEqual(got, []string{"soda", "lime"}) {
		t.Fatalf("Chosen=%v", got)
	}
	p.Toggle(2)
	if got := p.Chosen(); !reflect.DeepEqual(got, []string{"lime"}) {
		t.Fatalf("after untoggle Chosen=%v", got)
	}
	if !p.Selected(0) || p.Selected(2) {
		t.Fatal("Selected out of sync with Chosen")
	}
	if p.Name(2) != "Soda Water" {
		t.Fatalf("Name(2)=%q", p.Name(2))
	}
}

func TestPicker_OutOfRangeIgnored(t *testing.T) {
	var p Picker
	p.Set([]string{"lime"})
	if p.Toggle(5) || p.Toggle(-1) {
		t.Fatal("out-of-range toggle should be rejected")
	}
	if len(p.Chosen()) != 0 {
		t.Fatal("nothing should be chosen")
	}
}

func TestPicker_SetClearsSelection(t *testing.T) {
	var p Picker
	p.Set([]string{"lime", "mint"})
	p.Toggle(1)
	p.Set([]string{"lime", "mint", "sugar"})
	if len(p.Chosen()) != 0 {
		t.Fatal("Set should clear the selection")
	}
	if p.Len() != 3 || p.Name(2) != "sugar" {
		t.Fatalf("Len=%d Name(2)=%q", p.Len(), p.Name(2))
	}
}
