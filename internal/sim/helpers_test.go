package sim

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
)

// Test maps are 9x7 with the player's start cell at row 3, col 4. The offset
// puts that cell under the centred 40x40 player on the default canvas.
const (
	testCols     = 9
	testRows     = 7
	testStartRow = 3
	testStartCol = 4
)

type cell struct{ row, col int }

func testMap(marks map[string][]cell) content.MapData {
	md := content.MapData{
		Name:       "test",
		Columns:    testCols,
		Offset:     content.Point{X: 488 - testStartCol*CellSize, Y: 264 - testStartRow*CellSize},
		Background: "map/background",
		Foreground: "map/foreground",
		Layers:     map[string][]string{},
	}
	for _, name := range content.LayerNames {
		grid := make([][]byte, testRows)
		for r := range grid {
			grid[r] = []byte(strings.Repeat(".", testCols))
		}
		for _, c := range marks[name] {
			grid[c.row][c.col] = '1'
		}
		rows := make([]string, testRows)
		for r := range grid {
			rows[r] = string(grid[r])
		}
		md.Layers[name] = rows
	}
	return md
}

// row returns every cell of row r.
func row(r int) []cell {
	out := make([]cell, testCols)
	for c := range out {
		out[c] = cell{r, c}
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newHarness(t *testing.T, opts ...HarnessOption) *Harness {
	t.Helper()
	h, err := NewHarness(opts...)
	if err != nil {
		t.Fatalf("harness: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

// settle waits out the fade-in and the post-resume cooldown.
func settle(t *testing.T, h *Harness) {
	t.Helper()
	h.Wait(h.cfg.Transition + h.cfg.TriggerInterval + 100*time.Millisecond)
	if p := h.Director.Phase(ScreenMap); p != PhaseActive {
		t.Fatalf("map phase = %s, want active", p)
	}
}

func allItems(t *testing.T) []string {
	t.Helper()
	db, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	return db.ItemPool(99)
}
