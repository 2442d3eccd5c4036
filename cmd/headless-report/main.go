package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
	"github.com/Garsondee/Cocktail-Quest/internal/logging"
	"github.com/Garsondee/Cocktail-Quest/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	frames   int

	firstStepFrame      int
	firstItemFrame      int
	firstEncounterFrame int
	firstLevelUpFrame   int

	mapStats    sim.MapStats
	battleStats sim.BattleStats
	mixes       int
	gameOver    bool

	finalLv    int
	finalHP    int
	finalItems int
	book       map[string]bool

	// Scheduler state at the end of the run.
	schedPending int
	schedStale   int
	nextDueIn    time.Duration // < 0 when nothing is pending
}

type reportOptions struct {
	frames        int
	variant       string
	rateEncounter float64 // < 0 keeps the record's rate
	skill         float64
	db            *content.Database
	log           logrus.FieldLogger
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	var scenario string
	var contentDir string
	var logLevel string
	var copyReport bool
	opts := reportOptions{}

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.IntVar(&opts.frames, "frames", 3600, "frames per run (60 per simulated second)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "wander", "scenario name")
	flag.StringVar(&opts.variant, "player", "bartender", "player variant")
	flag.Float64Var(&opts.rateEncounter, "rate-encounter", -1, "override the encounter rate (negative keeps the record)")
	flag.Float64Var(&opts.skill, "skill", 0.7, "chance the scripted player mixes the right cocktail when it can")
	flag.StringVar(&contentDir, "content", "", "content directory (default: embedded)")
	flag.StringVar(&logLevel, "log-level", "warn", "log level for simulation logs (stderr)")
	flag.BoolVar(&copyReport, "copy", false, "also copy the report to the clipboard")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if opts.frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	if scenario != "wander" {
		fmt.Printf("error: unsupported scenario %q (supported: wander)\n", scenario)
		return
	}

	opts.log = logging.Configure(logrus.New(), logLevel, "text", os.Stderr)
	var err error
	if contentDir != "" {
		opts.db, err = content.LoadDir(contentDir)
	} else {
		opts.db, err = content.Default()
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if variants := opts.db.PlayerVariants(); !slices.Contains(variants, opts.variant) {
		fmt.Printf("error: unknown player %q (have %s)\n", opts.variant, strings.Join(variants, ", "))
		return
	}

	var report strings.Builder
	var out io.Writer = os.Stdout
	if copyReport {
		out = io.MultiWriter(os.Stdout, &report)
	}

	fmt.Fprintf(out, "=== Headless Walk Report ===\n")
	fmt.Fprintf(out, "scenario=%s runs=%d frames=%d seed_base=%d seed_step=%d player=%s skill=%.2f\n\n",
		scenario, runs, opts.frames, seedBase, seedStep, opts.variant, opts.skill)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runScenarioWander(i+1, seed, opts)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(out, rs)
	}

	printAggregate(out, all)

	if copyReport {
		if clipboard.Unsupported {
			fmt.Println("error: clipboard unsupported on this platform")
			return
		}
		if err := clipboard.WriteAll(report.String()); err != nil {
			fmt.Printf("error: copy report: %v\n", err)
		}
	}
}

// runScenarioWander walks the map with scripted input and plays every
// encounter with a fixed policy until the frame budget or a game over.
func runScenarioWander(runIndex int, seed int64, opts reportOptions) (runStats, error) {
	hopts := []sim.HarnessOption{
		sim.WithSeed(seed),
		sim.WithDatabase(opts.db),
		sim.WithVariant(opts.variant),
		sim.WithLogger(opts.log),
	}
	if opts.rateEncounter >= 0 {
		hopts = append(hopts, sim.WithRateEncounter(opts.rateEncounter))
	}
	h, err := sim.NewHarness(hopts...)
	if err != nil {
		return runStats{}, err
	}
	defer h.Close()

	rng := rand.New(rand.NewSource(seed ^ 0x5eed)) // #nosec G404 -- scripted input
	w := newWanderer(rng)
	mixes := 0
	mapWasActive := false
	for h.FrameCount() < opts.frames && !h.Director.Over() {
		h.Frame()

		mapActive := h.Director.Phase(sim.ScreenMap) == sim.PhaseActive
		if mapActive && !mapWasActive {
			// The map clears held keys on resume.
			w.reset()
		}
		mapWasActive = mapActive
		if mapActive {
			for _, ev := range w.tick() {
				h.Bus().Publish(ev)
			}
		}

		if h.Battle.Phase() == sim.BattleAwaitingAction {
			enemy := h.Battle.EnemyRecord()
			act, items := chooseAction(rng, h.Data.Item, enemy.Cocktail.Ingredient, h.Battle.RunDisabled(), opts.skill)
			switch act {
			case actionMix:
				mixes++
				h.Mix(items...)
			case actionRun:
				h.Run()
			}
		}
	}

	sched := h.Env.Sched
	nextDueIn := time.Duration(-1)
	if due, ok := sched.NextDue(); ok {
		nextDueIn = due.Sub(h.Clock.Now())
	}
	entries := h.SimLog.Entries()
	book := map[string]bool{}
	for k, v := range h.Data.Book {
		book[k] = v
	}
	return runStats{
		runIndex:            runIndex,
		seed:                seed,
		frames:              h.FrameCount(),
		firstStepFrame:      firstFrame(entries, "step", ""),
		firstItemFrame:      firstFrame(entries, "itemGet", ""),
		firstEncounterFrame: firstFrame(entries, "encounter", ""),
		firstLevelUpFrame:   firstFrame(entries, "levelUp", ""),
		mapStats:            h.Map.Stats,
		battleStats:         h.Battle.Stats,
		mixes:               mixes,
		gameOver:            h.Director.Over(),
		finalLv:             h.Data.Lv,
		finalHP:             h.Data.HP,
		finalItems:          len(h.Data.Item),
		book:                book,
		schedPending:        sched.Pending(),
		schedStale:          sched.Stale(),
		nextDueIn:           nextDueIn,
	}, nil
}

// wanderer holds one direction for a random stretch, then picks another.
type wanderer struct {
	rng        *rand.Rand
	dir        event.Direction
	held       bool
	framesLeft int
}

func newWanderer(rng *rand.Rand) *wanderer {
	return &wanderer{rng: rng}
}

func (w *wanderer) reset() {
	w.held = false
	w.framesLeft = 0
}

// tick returns the key events for this frame.
func (w *wanderer) tick() []event.Key {
	if w.framesLeft > 0 {
		w.framesLeft--
		return nil
	}
	var out []event.Key
	if w.held {
		out = append(out, event.Key{Dir: w.dir})
	}
	w.dir = event.Direction(w.rng.Intn(event.NumDirections))
	w.held = true
	w.framesLeft = 30 + w.rng.Intn(90)
	return append(out, event.Key{Dir: w.dir, Pressed: true})
}

type action int

const (
	actionMix action = iota
	actionRun
)

// chooseAction is the scripted battle policy: mix the wanted cocktail when
// every ingredient is owned and the skill roll passes, otherwise run, and once
// running is disabled mix a random owned item.
func chooseAction(rng *rand.Rand, owned, want []string, runDisabled bool, skill float64) (action, []string) {
	if ownsAll(owned, want) && rng.Float64() < skill {
		return actionMix, append([]string(nil), want...)
	}
	if !runDisabled {
		return actionRun, nil
	}
	if len(owned) == 0 {
		return actionRun, nil
	}
	return actionMix, []string{owned[rng.Intn(len(owned))]}
}

func ownsAll(owned, want []string) bool {
	if len(want) == 0 {
		return false
	}
	have := map[string]bool{}
	for _, o := range owned {
		have[o] = true
	}
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}

func firstFrame(entries []sim.SimLogEntry, category, contains string) int {
	for _, e := range entries {
		if e.Category != category {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Frame
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "frames=%d game_over=%v final: lv=%d hp=%d items=%d\n",
		rs.frames, rs.gameOver, rs.finalLv, rs.finalHP, rs.finalItems)
	fmt.Fprintf(w, "phase_markers: first_step=%d first_item=%d first_encounter=%d first_level_up=%d\n",
		rs.firstStepFrame, rs.firstItemFrame, rs.firstEncounterFrame, rs.firstLevelUpFrame)
	fmt.Fprintf(w, "map_totals: steps=%d blocked=%d items=%d heals=%d level_ups=%d encounters=%d\n",
		rs.mapStats.Steps, rs.mapStats.Blocked, rs.mapStats.Items, rs.mapStats.Heals, rs.mapStats.LevelUps, rs.mapStats.Encounters)
	fmt.Fprintf(w, "battle_totals: encounters=%d won=%d ran=%d failed_runs=%d mismatches=%d lost=%d mixes=%d\n",
		rs.battleStats.Encounters, rs.battleStats.Won, rs.battleStats.Ran, rs.battleStats.FailedRuns,
		rs.battleStats.Mismatches, rs.battleStats.Lost, rs.mixes)
	fmt.Fprintf(w, "book: %s\n", formatBook(rs.book))
	fmt.Fprintf(w, "scheduler: pending=%d stale_dropped=%d next_due_in=%s\n",
		rs.schedPending, rs.schedStale, formatDue(rs.nextDueIn))
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	var steps, items, heals, levelUps, encounters, won, ran, lost, overs, stale int
	encounterFrames := make([]int, 0, len(all))
	seen := map[string]int{}
	for _, rs := range all {
		steps += rs.mapStats.Steps
		items += rs.mapStats.Items
		heals += rs.mapStats.Heals
		levelUps += rs.mapStats.LevelUps
		encounters += rs.battleStats.Encounters
		won += rs.battleStats.Won
		ran += rs.battleStats.Ran
		lost += rs.battleStats.Lost
		stale += rs.schedStale
		if rs.gameOver {
			overs++
		}
		if rs.firstEncounterFrame >= 0 {
			encounterFrames = append(encounterFrames, rs.firstEncounterFrame)
		}
		for k := range rs.book {
			seen[k]++
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d game_overs=%d stale_tasks=%d\n", len(all), overs, stale)
	fmt.Fprintf(w, "avg_map_per_run: steps=%.1f items=%.1f heals=%.1f level_ups=%.1f\n",
		avg(steps, len(all)), avg(items, len(all)), avg(heals, len(all)), avg(levelUps, len(all)))
	fmt.Fprintf(w, "avg_battle_per_run: encounters=%.1f won=%.1f ran=%.1f lost=%.1f\n",
		avg(encounters, len(all)), avg(won, len(all)), avg(ran, len(all)), avg(lost, len(all)))
	fmt.Fprintf(w, "win_rate=%s first_encounter_avg_frame=%s\n", rate(won, encounters), avgFrameString(encounterFrames))

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  met %-8s in %d/%d runs\n", k, seen[k], len(all))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func rate(num, denom int) string {
	if denom <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(num)/float64(denom)*100)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatDue(d time.Duration) string {
	if d < 0 {
		return "none"
	}
	return d.String()
}

func formatBook(book map[string]bool) string {
	if len(book) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(book))
	for k := range book {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		mark := "met"
		if book[k] {
			mark = "beat"
		}
		parts[i] = k + "=" + mark
	}
	return strings.Join(parts, ",")
}
