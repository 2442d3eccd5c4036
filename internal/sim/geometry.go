// Package sim is the headless game core: collision, entities, input state, the
// fixed-timestep driver and the map and battle simulations. It never imports
// ebiten; drawing goes through Renderer.
package sim

import (
	"fmt"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
)

const (
	CellSize = 48.0 // tile edge in px
	RowWidth = content.DefaultColumns
)

// Vec is a 2D point or offset in canvas pixels.
type Vec struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. W and H never change after construction.
type Rect struct {
	X, Y float64
	W, H float64
}

// Shift moves the rectangle by (dx, dy).
func (r *Rect) Shift(dx, dy float64) {
	r.X += dx
	r.Y += dy
}

// MoveTo places the top-left corner at (x, y).
func (r *Rect) MoveTo(x, y float64) {
	r.X = x
	r.Y = y
}

// Offset returns a copy moved by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Overlaps is an inclusive-edge AABB test: rectangles that only touch count as
// colliding. Movement is tested one tick ahead, so a tile-aligned player that
// borders an obstacle must already register the contact.
func Overlaps(a, b Rect) bool {
	return b.X <= a.X+a.W && a.X <= b.X+b.W &&
		b.Y <= a.Y+a.H && a.Y <= b.Y+b.H
}

// Boundary is one tile's collision or zone rectangle. Index is the row-major
// cell index in the source grid.
type Boundary struct {
	Rect
	Index int
}

// NewBoundary creates a CellSize square at (x, y).
func NewBoundary(x, y float64, index int) *Boundary {
	return &Boundary{Rect: Rect{X: x, Y: y, W: CellSize, H: CellSize}, Index: index}
}

// BuildTileLayer partitions grid into rows of rowWidth and emits one Boundary per
// nonzero cell at {col*cellSize+offset.X, row*cellSize+offset.Y}, in row-major order.
func BuildTileLayer(grid []int, rowWidth int, cellSize float64, offset Vec) []*Boundary {
	if rowWidth <= 0 {
		rowWidth = RowWidth
	}
	if cellSize <= 0 {
		cellSize = CellSize
	}
	var out []*Boundary
	for i, v := range grid {
		if v == 0 {
			continue
		}
		row, col := i/rowWidth, i%rowWidth
		b := &Boundary{
			Rect:  Rect{X: float64(col)*cellSize + offset.X, Y: float64(row)*cellSize + offset.Y, W: cellSize, H: cellSize},
			Index: i,
		}
		out = append(out, b)
	}
	return out
}

// Layer identifies one of the six parallel tile layers.
type Layer uint8

const (
	LayerCollision Layer = iota // obstacles
	LayerPath                   // fast road, never rolls encounters
	LayerForest                 // slow, doubled encounter rate
	LayerItem                   // ingredient pickup zones
	LayerWater                  // +1 HP zones
	LayerNap                    // +2 HP zones
	layerCount                  // sentinel
)

// NumLayers is the number of tile layers.
const NumLayers = int(layerCount)

func (l Layer) String() string {
	if l >= layerCount {
		return "unknown"
	}
	return content.LayerNames[l]
}

// TileMap owns the six boundary layers of one map session.
type TileMap struct {
	layers [layerCount][]*Boundary
	cols   int
	rows   int
}

// NewTileMap builds every layer of md at the map's canvas offset.
func NewTileMap(md content.MapData) (*TileMap, error) {
	tm := &TileMap{cols: md.Columns, rows: md.Rows()}
	if tm.cols <= 0 {
		tm.cols = RowWidth
	}
	off := Vec{X: md.Offset.X, Y: md.Offset.Y}
	for l := Layer(0); l < layerCount; l++ {
		grid, err := md.Grid(l.String())
		if err != nil {
			return nil, fmt.Errorf("build tile map: %w", err)
		}
		tm.layers[l] = BuildTileLayer(grid, tm.cols, CellSize, off)
	}
	return tm, nil
}

// Layer returns the boundaries of l.
func (tm *TileMap) Layer(l Layer) []*Boundary {
	return tm.layers[l]
}

// Size returns the map size in pixels.
func (tm *TileMap) Size() Vec {
	return Vec{X: float64(tm.cols) * CellSize, Y: float64(tm.rows) * CellSize}
}

// Shift scrolls every layer by (dx, dy).
func (tm *TileMap) Shift(dx, dy float64) {
	for l := range tm.layers {
		for _, b := range tm.layers[l] {
			b.Shift(dx, dy)
		}
	}
}

// FirstHit returns the first boundary of l, in row-major order, touching r.
func (tm *TileMap) FirstHit(l Layer, r Rect) (*Boundary, bool) {
	for _, b := range tm.layers[l] {
		if Overlaps(r, b.Rect) {
			return b, true
		}
	}
	return nil, false
}

// Blocked reports whether moving r by off would touch a collision boundary.
// The world scrolls instead of the player, so each boundary is tested at its
// position shifted by the negated offset.
func (tm *TileMap) Blocked(r Rect, off Vec) bool {
	for _, b := range tm.layers[LayerCollision] {
		if Overlaps(r, b.Rect.Offset(-off.X, -off.Y)) {
			return true
		}
	}
	return false
}
