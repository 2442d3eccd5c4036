package game

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/sim"
)

// fonts holds the two text faces used by every panel.
type fonts struct {
	body  *text.GoTextFace
	title *text.GoTextFace
}

func loadFonts() (fonts, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return fonts{}, fmt.Errorf("load font: %w", err)
	}
	return fonts{
		body:  &text.GoTextFace{Source: src, Size: 16},
		title: &text.GoTextFace{Source: src, Size: 30},
	}, nil
}

func drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, c color.Color) {
	drawTextAlpha(dst, s, face, x, y, c, 1)
}

func drawTextAlpha(dst *ebiten.Image, s string, face text.Face, x, y float64, c color.Color, alpha float32) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(alpha)
	text.Draw(dst, s, face, op)
}

// button is a clickable labelled rectangle.
type button struct {
	Label   string
	Rect    image.Rectangle
	Enabled bool
	Active  bool // toggled on, for picker slots
}

func (b button) draw(dst *ebiten.Image, face text.Face) {
	fill := color.RGBA{R: 40, G: 36, B: 52, A: 235}
	edge := color.RGBA{R: 200, G: 180, B: 140, A: 255}
	fg := color.Color(color.White)
	switch {
	case !b.Enabled:
		fill = color.RGBA{R: 30, G: 30, B: 30, A: 200}
		edge = color.RGBA{R: 80, G: 80, B: 80, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	case b.Active:
		fill = color.RGBA{R: 150, G: 110, B: 40, A: 245}
	}
	x, y := float32(b.Rect.Min.X), float32(b.Rect.Min.Y)
	w, h := float32(b.Rect.Dx()), float32(b.Rect.Dy())
	vector.FillRect(dst, x, y, w, h, fill, false)
	vector.StrokeRect(dst, x, y, w, h, 2, edge, false)
	tw, th := text.Measure(b.Label, face, 0)
	drawText(dst, b.Label, face, float64(x)+(float64(w)-tw)/2, float64(y)+(float64(h)-th)/2, fg)
}

// battleLayout is the geometry of the battle panel for a w x h screen.
type battleLayout struct {
	Dialog image.Rectangle
	Slots  []image.Rectangle
	Mix    image.Rectangle
	Run    image.Rectangle
}

const (
	slotW   = 120
	slotH   = 36
	slotGap = 8
)

func layoutBattle(w, h, items int) battleLayout {
	dialogH := dialogVisible*dialogLineHeight + 16
	l := battleLayout{Dialog: rectXYWH(16, h-dialogH-16, w/2, dialogH)}
	right := w/2 + 40
	l.Mix = rectXYWH(right, h-16-slotH, slotW, slotH)
	l.Run = rectXYWH(right+slotW+slotGap, h-16-slotH, slotW, slotH)

	// Slots fill rows upward from just above the buttons.
	perRow := (w - right - 16 + slotGap) / (slotW + slotGap)
	if perRow < 1 {
		perRow = 1
	}
	rows := (items + perRow - 1) / perRow
	top := l.Mix.Min.Y - rows*(slotH+slotGap)
	for i := 0; i < items; i++ {
		col, row := i%perRow, i/perRow
		l.Slots = append(l.Slots, rectXYWH(right+col*(slotW+slotGap), top+row*(slotH+slotGap), slotW, slotH))
	}
	return l
}

// drawHUD paints the map status panel in the top-left corner.
func (g *Game) drawHUD(screen *ebiten.Image, data *content.PlayerData, terrain sim.Terrain) {
	lines := []string{
		fmt.Sprintf("%s  Lv %d", data.Name, data.Lv),
		fmt.Sprintf("HP %d/%d", data.HP, data.MaxHP),
		fmt.Sprintf("Steps %d  Beat %d", data.Step, data.Beat),
		fmt.Sprintf("Items %d  (%s)", len(data.Item), terrain),
	}
	const lineH = 20
	const pad = 8
	boxW := float32(220)
	boxH := float32(len(lines)*lineH + pad*2)
	vector.FillRect(screen, 8, 8, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, 8, 8, boxW, boxH, 1, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		drawText(screen, line, g.fonts.body, 8+pad, float64(8+pad+i*lineH), color.White)
	}
	if data.MaxHP > 0 {
		ratio := float64(data.HP) / float64(data.MaxHP)
		vector.FillRect(screen, 8, 8+boxH, boxW*float32(ratio), 4, hpColour(ratio), false)
	}
}

// drawPad paints the virtual d-pad.
func (g *Game) drawPad(screen *ebiten.Image) {
	arrows := map[string]string{"up": "^", "down": "v", "left": "<", "right": ">"}
	for _, b := range g.controls.pad {
		held := g.world.Map.Input.Held(b.Dir)
		fill := color.RGBA{R: 20, G: 20, B: 20, A: 110}
		if held {
			fill = color.RGBA{R: 200, G: 180, B: 140, A: 160}
		}
		x, y := float32(b.Rect.Min.X), float32(b.Rect.Min.Y)
		vector.FillRect(screen, x, y, padSize, padSize, fill, false)
		vector.StrokeRect(screen, x, y, padSize, padSize, 1, color.RGBA{R: 220, G: 220, B: 220, A: 120}, false)
		drawText(screen, arrows[b.Dir.String()], g.fonts.title, float64(x)+padSize/2-8, float64(y)+10, color.White)
	}
}

// battleButtons returns the picker slots plus Mix and Run with their current state.
func (g *Game) battleButtons() (slots []button, mix, run button) {
	l := layoutBattle(g.width, g.height, g.ui.picker.Len())
	awaiting := g.world.Battle.Phase() == sim.BattleAwaitingAction
	for i := 0; i < g.ui.picker.Len(); i++ {
		slots = append(slots, button{
			Label:   fmt.Sprintf("%d %s", i+1, g.ui.picker.Name(i)),
			Rect:    l.Slots[i],
			Enabled: awaiting,
			Active:  g.ui.picker.Selected(i),
		})
	}
	mix = button{Label: "Mix [Enter]", Rect: l.Mix, Enabled: awaiting && len(g.ui.picker.Chosen()) > 0}
	runLabel := "Run [R]"
	if g.world.Battle.RunDisabled() {
		runLabel = "Can't run"
	}
	run = button{Label: runLabel, Rect: l.Run, Enabled: awaiting && !g.world.Battle.RunDisabled()}
	return slots, mix, run
}

// drawBattlePanel paints the cocktail order, dialog box and action buttons.
func (g *Game) drawBattlePanel(screen *ebiten.Image) {
	l := layoutBattle(g.width, g.height, g.ui.picker.Len())
	if g.ui.cocktail != "" {
		order := fmt.Sprintf("%s wants: %s", g.ui.enemyName, g.ui.cocktail)
		drawText(screen, order, g.fonts.title, 24, 20, color.RGBA{R: 240, G: 210, B: 120, A: 255})
	}
	g.ui.dialog.Draw(screen, g.fonts.body, float32(l.Dialog.Min.X), float32(l.Dialog.Min.Y), float32(l.Dialog.Dx()))

	slots, mix, run := g.battleButtons()
	for _, b := range slots {
		b.draw(screen, g.fonts.body)
	}
	mix.draw(screen, g.fonts.body)
	run.draw(screen, g.fonts.body)
}

// drawFade darkens the whole screen by alpha (0..1).
func (g *Game) drawFade(screen *ebiten.Image, alpha float64) {
	if alpha <= 0 {
		return
	}
	vector.FillRect(screen, 0, 0, float32(g.width), float32(g.height), color.RGBA{A: uint8(255 * alpha)}, false)
}

// continueButton is the game-over panel's only action.
func (g *Game) continueButton() button {
	return button{Label: "Continue [Enter]", Rect: rectXYWH(g.width/2-100, g.height/2+20, 200, 44), Enabled: true}
}

func (g *Game) drawGameOver(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, float32(g.width), float32(g.height), color.RGBA{R: 0, G: 0, B: 0, A: 220}, false)
	title := "You passed out..."
	tw, _ := text.Measure(title, g.fonts.title, 0)
	drawText(screen, title, g.fonts.title, float64(g.width)/2-tw/2, float64(g.height)/2-60, color.RGBA{R: 230, G: 90, B: 80, A: 255})
	sub := fmt.Sprintf("Beaten by the %s.", g.ui.enemyName)
	sw, _ := text.Measure(sub, g.fonts.body, 0)
	drawText(screen, sub, g.fonts.body, float64(g.width)/2-sw/2, float64(g.height)/2-16, color.White)
	g.continueButton().draw(screen, g.fonts.body)
}

// drawStatus prints the key legend and the last status message.
func (g *Game) drawStatus(screen *ebiten.Image) {
	legend := "F1 layers  F2 copy save  Esc quit"
	if g.status != "" && g.tick-g.statusTick < 180 {
		legend = g.status
	}
	ebitenutil.DebugPrintAt(screen, legend, g.width-len(legend)*6-8, g.height-20)
}
