package content

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultColumns is the row width of every tile layer.
const DefaultColumns = 70

// LayerNames lists the six tile layers in load order.
var LayerNames = [...]string{"collision", "path", "forest", "item", "water", "nap"}

// MapData is the on-disk description of one map. Layers are stored as row
// strings, one character per cell: '0' or '.' is empty, anything else is set.
type MapData struct {
	Name       string              `json:"name"`
	Columns    int                 `json:"columns"`
	Offset     Point               `json:"offset"`
	Background string              `json:"background"`
	Foreground string              `json:"foreground"`
	Layers     map[string][]string `json:"layers"`
}

// Grid flattens one layer into a row-major 0/1 slice.
func (m MapData) Grid(layer string) ([]int, error) {
	rows, ok := m.Layers[layer]
	if !ok {
		return nil, fmt.Errorf("map %q has no %q layer", m.Name, layer)
	}
	cols := m.Columns
	if cols <= 0 {
		cols = DefaultColumns
	}
	grid := make([]int, 0, len(rows)*cols)
	for r, row := range rows {
		row = strings.TrimRight(row, "\r")
		if n := utf8.RuneCountInString(row); n != cols {
			return nil, fmt.Errorf("map %q layer %q row %d has %d cells, expected %d", m.Name, layer, r, n, cols)
		}
		for _, ch := range row {
			if ch == '0' || ch == '.' || ch == ' ' {
				grid = append(grid, 0)
			} else {
				grid = append(grid, 1)
			}
		}
	}
	return grid, nil
}

// Rows returns the height shared by every layer.
func (m MapData) Rows() int {
	return len(m.Layers[LayerNames[0]])
}

// Validate checks that all six layers exist with identical dimensions.
func (m MapData) Validate() error {
	height := -1
	for _, name := range LayerNames {
		if _, err := m.Grid(name); err != nil {
			return err
		}
		rows := len(m.Layers[name])
		if height >= 0 && rows != height {
			return fmt.Errorf("map %q layer %q has %d rows, expected %d", m.Name, name, rows, height)
		}
		height = rows
	}
	return nil
}
