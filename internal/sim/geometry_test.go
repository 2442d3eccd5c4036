package sim

import (
	"testing"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
)

func TestOverlaps_SymmetricAndInclusive(t *testing.T) {
	cases := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 0, 10, 10}, false},
		{"touching x", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, true},
		{"touching y", Rect{0, 0, 10, 10}, Rect{0, 10, 10, 10}, true},
		{"corner", Rect{0, 0, 10, 10}, Rect{10, 10, 5, 5}, true},
		{"contained", Rect{0, 0, 48, 48}, Rect{4, 4, 40, 40}, true},
		{"gap below", Rect{0, 0, 10, 10}, Rect{0, 10.1, 10, 10}, false},
	}
	for _, c := range cases {
		if got := Overlaps(c.a, c.b); got != c.want {
			t.Errorf("%s: Overlaps(a,b) = %v, want %v", c.name, got, c.want)
		}
		if Overlaps(c.a, c.b) != Overlaps(c.b, c.a) {
			t.Errorf("%s: not symmetric", c.name)
		}
	}
}

func TestBuildTileLayer(t *testing.T) {
	if got := BuildTileLayer(make([]int, 140), 70, 48, Vec{}); len(got) != 0 {
		t.Fatalf("all-zero grid produced %d boundaries", len(got))
	}

	grid := make([]int, 70*3)
	grid[2*70+5] = 1
	off := Vec{X: -100, Y: 30}
	got := BuildTileLayer(grid, 70, 48, off)
	if len(got) != 1 {
		t.Fatalf("got %d boundaries, want 1", len(got))
	}
	b := got[0]
	if b.X != 5*48-100 || b.Y != 2*48+30 || b.W != 48 || b.H != 48 {
		t.Fatalf("boundary at %+v", b.Rect)
	}
	if b.Index != 2*70+5 {
		t.Fatalf("index = %d", b.Index)
	}
}

func TestBuildTileLayer_RowMajorOrder(t *testing.T) {
	grid := []int{0, 1, 1, 1, 0, 0}
	got := BuildTileLayer(grid, 3, 48, Vec{})
	for i := 1; i < len(got); i++ {
		if got[i].Index <= got[i-1].Index {
			t.Fatalf("boundaries out of row-major order: %d after %d", got[i].Index, got[i-1].Index)
		}
	}
	if got[2].X != 0 || got[2].Y != 48 {
		t.Fatalf("second-row cell at (%v,%v)", got[2].X, got[2].Y)
	}
}

func TestTileMap_BlockedLooksAhead(t *testing.T) {
	tm, err := NewTileMap(testMap(map[string][]cell{"collision": {{testStartRow, testStartCol + 1}}}))
	if err != nil {
		t.Fatal(err)
	}
	player := Rect{X: 492, Y: 268, W: 40, H: 40}
	if tm.Blocked(player, Vec{X: 2.4}) {
		t.Fatal("first tick toward a wall 4px away should not be blocked")
	}
	if !tm.Blocked(player, Vec{X: 4}) {
		t.Fatal("a move that reaches the wall edge must be blocked")
	}
	if tm.Blocked(player, Vec{X: -4}) {
		t.Fatal("moving away from the wall must not be blocked")
	}
}

func TestTileMap_ShiftMovesEveryLayer(t *testing.T) {
	md := testMap(map[string][]cell{
		"collision": {{0, 0}},
		"nap":       {{6, 8}},
	})
	tm, err := NewTileMap(md)
	if err != nil {
		t.Fatal(err)
	}
	before := tm.Layer(LayerNap)[0].X
	tm.Shift(-10, 5)
	if got := tm.Layer(LayerNap)[0].X; got != before-10 {
		t.Fatalf("nap X = %v, want %v", got, before-10)
	}
	if got := tm.Layer(LayerCollision)[0].Y; got != md.Offset.Y+5 {
		t.Fatalf("collision Y = %v", got)
	}
	if sz := tm.Size(); sz.X != testCols*CellSize || sz.Y != testRows*CellSize {
		t.Fatalf("size = %+v", sz)
	}
}

func TestLayerNamesMatchContent(t *testing.T) {
	for l := Layer(0); l < layerCount; l++ {
		if l.String() != content.LayerNames[l] {
			t.Fatalf("layer %d = %q", l, l)
		}
	}
}
