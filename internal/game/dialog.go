package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	dialogMaxEntries = 32
	dialogLineHeight = 22
	dialogVisible    = 4
)

// DialogEntry is a single line in the battle dialog box.
type DialogEntry struct {
	Tick int
	Text string
}

// DialogLog is a ring buffer of battle dialog lines. The newest lines are
// shown in the dialog box at the bottom of the battle screen.
type DialogLog struct {
	entries []DialogEntry
	head    int
	count   int
}

// NewDialogLog creates a dialog log with a fixed capacity.
func NewDialogLog() *DialogLog {
	return &DialogLog{entries: make([]DialogEntry, dialogMaxEntries)}
}

// Add appends a line, overwriting the oldest once full.
func (dl *DialogLog) Add(tick int, msg string) {
	dl.entries[dl.head] = DialogEntry{Tick: tick, Text: msg}
	dl.head = (dl.head + 1) % dialogMaxEntries
	if dl.count < dialogMaxEntries {
		dl.count++
	}
}

// Len returns the number of stored lines.
func (dl *DialogLog) Len() int { return dl.count }

// Clear drops every line. Called when a new encounter starts.
func (dl *DialogLog) Clear() {
	dl.head = 0
	dl.count = 0
}

// Recent returns up to n lines in chronological order (oldest first).
// n <= 0 returns everything.
func (dl *DialogLog) Recent(n int) []DialogEntry {
	if n <= 0 || n > dl.count {
		n = dl.count
	}
	result := make([]DialogEntry, n)
	for i := 0; i < n; i++ {
		idx := (dl.head - n + i + dialogMaxEntries) % dialogMaxEntries
		result[i] = dl.entries[idx]
	}
	return result
}

// Draw renders the dialog box along the bottom of the battle screen.
func (dl *DialogLog) Draw(screen *ebiten.Image, face text.Face, x, y, w float32) {
	h := float32(dialogVisible*dialogLineHeight + 16)
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 14, G: 10, B: 18, A: 235}, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{R: 200, G: 180, B: 140, A: 255}, false)

	entries := dl.Recent(dialogVisible)
	ty := float64(y) + 8
	for i, e := range entries {
		// Older lines fade; the newest is full white.
		c := color.RGBA{R: 150, G: 145, B: 140, A: 255}
		if i == len(entries)-1 {
			c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		drawText(screen, e.Text, face, float64(x)+14, ty, c)
		ty += dialogLineHeight
	}
}
