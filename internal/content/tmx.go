package content

import (
	"fmt"
	"strings"

	"github.com/lafriks/go-tiled"
)

// LoadTMX builds map layers from a Tiled map. Layers are matched by name
// (case-insensitive) against LayerNames; any non-empty tile marks the cell.
// Offset, background and foreground are taken from base.
func LoadTMX(path string, base MapData) (MapData, error) {
	tm, err := tiled.LoadFile(path)
	if err != nil {
		return MapData{}, fmt.Errorf("load tmx %s: %w", path, err)
	}
	out := MapData{
		Name:       base.Name,
		Columns:    tm.Width,
		Offset:     base.Offset,
		Background: base.Background,
		Foreground: base.Foreground,
		Layers:     make(map[string][]string, len(LayerNames)),
	}
	for _, name := range LayerNames {
		var layer *tiled.Layer
		for _, l := range tm.Layers {
			if strings.EqualFold(l.Name, name) {
				layer = l
				break
			}
		}
		if layer == nil {
			return MapData{}, fmt.Errorf("tmx %s: missing layer %q", path, name)
		}
		if len(layer.Tiles) != tm.Width*tm.Height {
			return MapData{}, fmt.Errorf("tmx %s: layer %q has %d tiles, expected %d", path, name, len(layer.Tiles), tm.Width*tm.Height)
		}
		out.Layers[name] = tilesToRows(layer.Tiles, tm.Width)
	}
	if err := out.Validate(); err != nil {
		return MapData{}, err
	}
	return out, nil
}

func tilesToRows(tiles []*tiled.LayerTile, width int) []string {
	rows := make([]string, 0, len(tiles)/width)
	var sb strings.Builder
	for i, t := range tiles {
		if t == nil || t.IsNil() {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
		if (i+1)%width == 0 {
			rows = append(rows, sb.String())
			sb.Reset()
		}
	}
	return rows
}
