package sim

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// SimLogEntry is one event seen during a headless run.
type SimLogEntry struct {
	Frame    int
	Screen   string // "map", "battle" or "--"
	Category string // the event kind
	Value    string // human-readable detail
	NumVal   float64
}

// String formats the entry as a fixed-width line.
//
//	[F=0042] map     step             12
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[F=%04d] %-7s %-16s %s", e.Frame, e.Screen, e.Category, e.Value)
}

// SimLog collects bus traffic during a headless run. Unlike the dialog log in
// the shell it is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a log. Verbose also records key and dialog events.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(frame int, screen, category, value string, num float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Frame:    frame,
		Screen:   screen,
		Category: category,
		Value:    value,
		NumVal:   num,
	})
}

// Attach subscribes the log to every event kind on bus. frame reports the
// current frame number.
func (sl *SimLog) Attach(bus *event.Bus, frame func() int) func() {
	var unsubs []func()
	for _, k := range event.Kinds() {
		unsubs = append(unsubs, bus.Subscribe(k, func(ev event.Event) {
			screen, value, num, verbose := describe(ev)
			if verbose && !sl.verbose {
				return
			}
			sl.Add(frame(), screen, ev.Kind().String(), value, num)
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func describe(ev event.Event) (screen, value string, num float64, verbose bool) {
	switch e := ev.(type) {
	case event.Step:
		return "map", fmt.Sprint(e.Step), float64(e.Step), false
	case event.LevelUp:
		return "map", fmt.Sprintf("lv %d", e.Lv), float64(e.Lv), false
	case event.ItemGet:
		return "map", e.Key, 0, false
	case event.RecoverHP:
		return "map", fmt.Sprintf("+%d %s → %d", e.Amount, e.Source, e.HP), float64(e.Amount), false
	case event.Encounter:
		return "map", e.EnemyKey, 0, false
	case event.MapStart, event.MapEnd:
		return "map", "", 0, false
	case event.Key:
		return "--", fmt.Sprintf("%s %v", e.Dir, e.Pressed), 0, true
	case event.LoseHP:
		return "battle", fmt.Sprintf("-%d → %d", e.Amount, e.HP), float64(e.Amount), false
	case event.BattleStart:
		return "battle", e.EnemyKey, 0, false
	case event.BattleEnd:
		return "battle", fmt.Sprintf("%s beat=%v", e.EnemyKey, e.Beat), 0, false
	case event.BattleDialog:
		return "battle", e.Text, 0, true
	case event.CocktailReveal:
		return "battle", e.Name, 0, false
	case event.SetItem:
		return "battle", strings.Join(e.Items, ","), float64(len(e.Items)), true
	case event.Mix:
		return "battle", strings.Join(e.Items, ","), float64(len(e.Items)), false
	case event.GameOver:
		return "battle", e.EnemyKey, 0, false
	default:
		return "battle", "", 0, false
	}
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries of one category; empty matches any.
func (sl *SimLog) Filter(category string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match category.
func (sl *SimLog) Count(category string) int {
	return len(sl.Filter(category))
}

// HasEntry returns true if an entry matches category and value substring.
func (sl *SimLog) HasEntry(category, valueSubstr string) bool {
	for _, e := range sl.Filter(category) {
		if strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format returns the full log, one entry per line.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
