package game

import (
	"errors"
	"hash/fnv"
	"image/color"
	_ "image/png" // decoder for image files under the asset directory
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
	"github.com/Garsondee/Cocktail-Quest/internal/sim"
)

// sheet is a loaded image: a horizontal strip of equally sized frames.
type sheet struct {
	img    *ebiten.Image
	frames int
	fw, fh int
}

// frame returns the sub-image for frame i.
func (s *sheet) frame(i int) *ebiten.Image {
	if s.frames <= 1 {
		return s.img
	}
	i %= s.frames
	return s.img.SubImage(rectXYWH(i*s.fw, 0, s.fw, s.fh)).(*ebiten.Image)
}

// Assets loads sprite sheets for the renderer and resolves sprite geometry.
//
// Requests are queued and resolved at the start of the next update, the way
// a browser resolves an image after its load event. An image is read from
// Dir/<key>.png when present; otherwise a placeholder is painted. The map
// background and foreground placeholders are painted from the tile layers.
type Assets struct {
	Dir   string
	sizes sim.SizeTable
	md    content.MapData
	log   logrus.FieldLogger

	sheets  map[string]*sheet
	pending []*sim.Sprite
}

// NewAssets creates a loader for md. dir may be empty.
func NewAssets(dir string, md content.MapData, log logrus.FieldLogger) *Assets {
	cols := md.Columns
	if cols <= 0 {
		cols = content.DefaultColumns
	}
	mapSize := sim.Vec{X: float64(cols) * sim.CellSize, Y: float64(md.Rows()) * sim.CellSize}
	return &Assets{
		Dir:    dir,
		sizes:  sim.DefaultSizes(mapSize),
		md:     md,
		log:    log.WithField("component", "assets"),
		sheets: map[string]*sheet{},
	}
}

// Request queues s for resolution on the next Flush.
func (a *Assets) Request(s *sim.Sprite) {
	a.pending = append(a.pending, s)
}

// Pending returns the number of queued requests.
func (a *Assets) Pending() int { return len(a.pending) }

// Flush loads every queued image and resolves its sprite.
func (a *Assets) Flush() {
	q := a.pending
	a.pending = nil
	for _, s := range q {
		sh := a.sheet(s.Image, s.Frames.Max)
		s.Resolve(float64(sh.fw), float64(sh.fh))
	}
}

// Frame returns the image to paint for s, loading it on first use. Sprites
// switch keys when the player turns, so a miss here is normal.
func (a *Assets) Frame(s *sim.Sprite) *ebiten.Image {
	return a.sheet(s.Image, s.Frames.Max).frame(s.Frames.Current)
}

func (a *Assets) sheet(key string, frames int) *sheet {
	if sh, ok := a.sheets[key]; ok {
		return sh
	}
	if frames < 1 {
		frames = 1
	}
	sh, err := a.load(key, frames)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.log.WithError(err).WithField("key", key).Warn("image load failed, using placeholder")
		}
		sh = a.placeholder(key, frames)
	}
	a.sheets[key] = sh
	return sh
}

func (a *Assets) load(key string, frames int) (*sheet, error) {
	if a.Dir == "" {
		return nil, fs.ErrNotExist
	}
	path := filepath.Join(a.Dir, filepath.FromSlash(key)+".png")
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &sheet{img: img, frames: frames, fw: b.Dx() / frames, fh: b.Dy()}, nil
}

func (a *Assets) placeholder(key string, frames int) *sheet {
	size, ok := a.sizes.Lookup(key)
	if !ok {
		size = sim.Vec{X: sim.CellSize, Y: sim.CellSize}
	}
	fw, fh := int(size.X), int(size.Y)
	img := ebiten.NewImage(fw*frames, fh)
	switch {
	case key == a.md.Background:
		a.paintBackground(img)
	case key == a.md.Foreground:
		a.paintForeground(img)
	default:
		for i := 0; i < frames; i++ {
			paintCharacter(img, key, i, fw, fh)
		}
	}
	return &sheet{img: img, frames: frames, fw: fw, fh: fh}
}

var layerPaint = map[string]color.RGBA{
	"path":      {R: 196, G: 170, B: 120, A: 255},
	"forest":    {R: 38, G: 92, B: 44, A: 255},
	"water":     {R: 60, G: 120, B: 200, A: 255},
	"nap":       {R: 150, G: 120, B: 190, A: 255},
	"collision": {R: 90, G: 88, B: 84, A: 255},
}

func (a *Assets) paintBackground(img *ebiten.Image) {
	img.Fill(color.RGBA{R: 86, G: 140, B: 70, A: 255})
	for _, name := range []string{"path", "forest", "water", "nap", "collision"} {
		a.eachCell(name, func(x, y float32) {
			vector.FillRect(img, x, y, sim.CellSize, sim.CellSize, layerPaint[name], false)
		})
	}
	a.eachCell("item", func(x, y float32) {
		vector.FillCircle(img, x+sim.CellSize/2, y+sim.CellSize/2, 8, color.RGBA{R: 235, G: 200, B: 60, A: 255}, true)
	})
}

// paintForeground draws a sparse canopy over forest cells so the player walks under it.
func (a *Assets) paintForeground(img *ebiten.Image) {
	canopy := color.RGBA{R: 20, G: 60, B: 26, A: 150}
	a.eachCell("forest", func(x, y float32) {
		vector.FillCircle(img, x+12, y+12, 10, canopy, true)
		vector.FillCircle(img, x+36, y+30, 9, canopy, true)
	})
}

func (a *Assets) eachCell(layer string, fn func(x, y float32)) {
	grid, err := a.md.Grid(layer)
	if err != nil {
		return
	}
	cols := a.md.Columns
	if cols <= 0 {
		cols = content.DefaultColumns
	}
	for i, v := range grid {
		if v == 0 {
			continue
		}
		fn(float32(i%cols)*sim.CellSize, float32(i/cols)*sim.CellSize)
	}
}

// paintCharacter draws frame i of a placeholder figure. The body colour is
// derived from the character key so every variant and enemy looks distinct.
func paintCharacter(img *ebiten.Image, key string, i, fw, fh int) {
	x0 := float32(i * fw)
	w, h := float32(fw), float32(fh)
	body := keyColour(characterKey(key))
	vector.FillRect(img, x0+w*0.25, h*0.35, w*0.5, h*0.45, body, false)
	vector.FillCircle(img, x0+w/2, h*0.22, w*0.18, color.RGBA{R: 240, G: 210, B: 180, A: 255}, true)

	// Legs alternate on odd frames.
	leg := color.RGBA{R: 40, G: 40, B: 48, A: 255}
	step := float32(0)
	if i%2 == 1 {
		step = h * 0.05
	}
	vector.FillRect(img, x0+w*0.3, h*0.8, w*0.15, h*0.2-step, leg, false)
	vector.FillRect(img, x0+w*0.55, h*0.8+step, w*0.15, h*0.2-step, leg, false)

	// Eyes show the facing.
	eye := color.RGBA{R: 20, G: 20, B: 20, A: 255}
	dx, show := float32(0), true
	switch {
	case strings.HasSuffix(key, "/"+event.DirUp.String()):
		show = false
	case strings.HasSuffix(key, "/"+event.DirLeft.String()):
		dx = -w * 0.06
	case strings.HasSuffix(key, "/"+event.DirRight.String()):
		dx = w * 0.06
	}
	if show {
		vector.FillRect(img, x0+w*0.43+dx, h*0.2, 2, 2, eye, false)
		vector.FillRect(img, x0+w*0.55+dx, h*0.2, 2, 2, eye, false)
	}
}

// characterKey strips the family prefix and pose suffix: "enemy/slime/battle" -> "slime".
func characterKey(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return key
}

func keyColour(key string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	v := h.Sum32()
	return color.RGBA{R: uint8(80 + v%150), G: uint8(80 + (v>>8)%150), B: uint8(80 + (v>>16)%150), A: 255}
}
