package game

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/config"
	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
	"github.com/Garsondee/Cocktail-Quest/internal/save"
	"github.com/Garsondee/Cocktail-Quest/internal/sim"
)

// pickerKeys toggle picker slots 1-9.
var pickerKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// Options wires a Game to its content, save file and logger.
type Options struct {
	Config config.Config
	DB     *content.Database
	Map    content.MapData
	Store  *save.Store // nil disables saving
	Log    logrus.FieldLogger
}

// Game is the ebiten shell around one sim.World. Update samples input and
// drives the director, which renders into worldBuf; Draw blits worldBuf and
// paints the HUD for whichever screen is on display.
type Game struct {
	width  int
	height int
	opts   Options
	log    logrus.FieldLogger

	world    *sim.World
	ui       *presenter
	assets   *Assets
	renderer *screenRenderer
	controls *controls
	fonts    fonts
	unsubs   []func()

	worldBuf *ebiten.Image // both screens render here from inside Update

	tick       int
	sessions   int
	status     string
	statusTick int
}

// New builds the shell and starts the first session from initialData.
func New(opts Options) (*Game, error) {
	if opts.DB == nil {
		return nil, errors.New("game: no content database")
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	g := &Game{
		width:    cfg.Width,
		height:   cfg.Height,
		opts:     opts,
		log:      opts.Log.WithField("component", "shell"),
		fonts:    f,
		controls: newControls(cfg.Height),
		worldBuf: ebiten.NewImage(cfg.Width, cfg.Height),
	}
	imageDir := ""
	if cfg.ContentDir != "" {
		imageDir = filepath.Join(cfg.ContentDir, "images")
	}
	g.assets = NewAssets(imageDir, opts.Map, opts.Log)
	g.renderer = &screenRenderer{target: g.worldBuf, assets: g.assets, face: f.body}

	data, err := g.initialData()
	if err != nil {
		return nil, err
	}
	if err := g.startSession(data); err != nil {
		return nil, err
	}
	return g, nil
}

// initialData picks the record of the first session: the previous save unless
// Config.New is set, in which case the save is removed and a fresh record of
// Config.Variant is used. Config.PatchPath is merged in last.
func (g *Game) initialData() (*content.PlayerData, error) {
	cfg := g.opts.Config
	if cfg.New && g.opts.Store != nil {
		if err := g.opts.Store.Clear(); err != nil {
			g.log.WithError(err).Warn("could not remove previous data")
		}
	}
	data, err := g.playerData(!cfg.New)
	if err != nil {
		return nil, err
	}
	if cfg.PatchPath != "" {
		data = g.applyPatch(data, cfg.PatchPath)
	}
	return data, nil
}

// applyPatch merges the JSON object at path into data. A patch that cannot be
// read or names keys the record lacks is logged and data is kept as is.
func (g *Game) applyPatch(data *content.PlayerData, path string) *content.PlayerData {
	log := g.log.WithField("patch", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("patch unreadable, keeping record")
		return data
	}
	patched, err := save.ApplyPatch(data, raw)
	if err != nil {
		log.WithError(err).Warn("patch rejected, keeping record")
		return data
	}
	log.WithFields(logrus.Fields{"lv": patched.Lv, "hp": patched.HP}).Info("patch applied")
	return patched
}

// playerData returns the previous save when allowed and present, otherwise a
// fresh record of the configured variant.
func (g *Game) playerData(usePrevious bool) (*content.PlayerData, error) {
	if usePrevious && g.opts.Store != nil {
		data, err := g.opts.Store.Load()
		switch {
		case err == nil:
			g.log.WithFields(logrus.Fields{"lv": data.Lv, "step": data.Step}).Info("continuing from previous data")
			return data, nil
		case !errors.Is(err, save.ErrNoSave):
			g.log.WithError(err).Warn("previous data unusable, starting fresh")
		}
	}
	data, err := g.opts.DB.Player(g.opts.Config.Variant)
	if errors.Is(err, content.ErrUnknownPlayer) {
		return nil, fmt.Errorf("new game: %w (have %s)", err, strings.Join(g.opts.DB.PlayerVariants(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return data, nil
}

// startSession replaces the running world with a fresh one for data.
func (g *Game) startSession(data *content.PlayerData) error {
	g.endSession()

	sessionID := uuid.NewString()
	log := g.opts.Log.WithField("session", sessionID)
	bus := event.NewBus(log)
	seed := g.opts.Config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	env := sim.Env{
		Bus:    bus,
		Clock:  event.SystemClock{},
		DB:     g.opts.DB,
		Assets: g.assets,
		Rand:   rand.New(rand.NewSource(seed)), // #nosec G404 -- gameplay rolls
		Log:    log,
	}
	w, err := sim.NewWorld(env, data, g.opts.Map, g.opts.Config.Sim(), g.renderer)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	g.world = w
	g.ui = newPresenter(bus, g.opts.DB)
	g.unsubs = append(g.unsubs, event.On(bus, g.onBattleEnd))
	g.controls.reset()
	g.sessions++
	log.WithFields(logrus.Fields{"n": g.sessions, "seed": seed, "player": data.Key, "save_id": data.SaveID}).Info("session start")
	w.Director.Start()
	return nil
}

func (g *Game) endSession() {
	for _, u := range g.unsubs {
		u()
	}
	g.unsubs = nil
	if g.ui != nil {
		g.ui.close()
	}
	if g.world != nil {
		g.world.Close()
	}
}

func (g *Game) onBattleEnd(event.BattleEnd) {
	g.save("battle end")
}

// save writes the player record. A record at 0 HP is never saved so that
// continuing after a game over restores the last good state.
func (g *Game) save(reason string) {
	if g.opts.Store == nil || g.world == nil || g.world.Director.Over() {
		return
	}
	if err := g.opts.Store.Save(g.world.Data); err != nil {
		g.log.WithError(err).WithField("reason", reason).Error("save failed")
		return
	}
	g.log.WithField("reason", reason).Debug("saved")
}

// Shutdown saves and releases the session. Called once RunGame returns.
func (g *Game) Shutdown() {
	g.save("exit")
	g.endSession()
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTick = g.tick
}

func (g *Game) Update() error {
	g.tick++
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleInput()

	if g.gameOverShown() {
		g.handleGameOverInput()
	} else {
		g.controls.poll(g.world.Env.Bus)
		if g.world.Director.Current() == sim.ScreenBattle {
			g.handleBattleInput()
		}
	}

	g.assets.Flush()
	g.worldBuf.Clear()
	g.world.Director.Frame()
	g.ui.Tick()
	return nil
}

// gameOverShown reports whether the battle has faded out after a loss.
func (g *Game) gameOverShown() bool {
	d := g.world.Director
	return d.Over() && d.Phase(sim.ScreenBattle) == sim.PhaseIdle
}

// handleInput processes the debug and utility toggles (edge-triggered).
func (g *Game) handleInput() {
	// F1: show the tile layers.
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.renderer.showLayers = !g.renderer.showLayers
	}
	// F2: copy the save to the clipboard.
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		if err := save.CopyToClipboard(g.world.Data); err != nil {
			g.log.WithError(err).Warn("copy save")
			g.setStatus("clipboard unavailable")
		} else {
			g.setStatus("save copied to clipboard")
		}
	}
}

func (g *Game) handleBattleInput() {
	if g.world.Battle.Phase() != sim.BattleAwaitingAction {
		return
	}
	for i, k := range pickerKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.ui.picker.Toggle(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.mix()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.run()
	}

	slots, mix, run := g.battleButtons()
	for _, pt := range taps() {
		for i, b := range slots {
			if b.Enabled && pt.In(b.Rect) {
				g.ui.picker.Toggle(i)
			}
		}
		if mix.Enabled && pt.In(mix.Rect) {
			g.mix()
		}
		if run.Enabled && pt.In(run.Rect) {
			g.run()
		}
	}
}

func (g *Game) mix() {
	items := g.ui.picker.Chosen()
	if len(items) == 0 {
		return
	}
	g.ui.picker.ClearSelection()
	g.world.Env.Bus.Publish(event.Mix{Items: items})
}

func (g *Game) run() {
	if g.world.Battle.RunDisabled() {
		return
	}
	g.world.Env.Bus.Publish(event.Run{})
}

func (g *Game) handleGameOverInput() {
	pressed := inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	btn := g.continueButton()
	for _, pt := range taps() {
		if pt.In(btn.Rect) {
			pressed = true
		}
	}
	if !pressed {
		return
	}
	data, err := g.playerData(true)
	if err == nil {
		err = g.startSession(data)
	}
	if err != nil {
		g.log.WithError(err).Error("continue failed")
		g.setStatus("continue failed")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 10, B: 16, A: 255})
	screen.DrawImage(g.worldBuf, nil)

	d := g.world.Director
	switch d.Current() {
	case sim.ScreenMap:
		p := g.world.Map.Player
		if p.Ready() {
			g.ui.toasts.Draw(screen, g.fonts.body, float32(p.X+p.W/2), float32(p.Y))
		}
		g.drawHUD(screen, g.world.Data, g.world.Map.Terrain)
		g.drawPad(screen)
	case sim.ScreenBattle:
		g.drawBattlePanel(screen)
	}
	g.drawFade(screen, d.Fade())

	if g.gameOverShown() {
		g.drawGameOver(screen)
	}
	g.drawStatus(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
