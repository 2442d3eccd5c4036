package game

// Picker is the battle ingredient selector. Items toggle on and off; the
// selection is submitted in the order it was made.
type Picker struct {
	keys  []string
	names []string
	order []int // selected indexes, in selection order
}

// Set replaces the offered items, using the keys as display names.
func (p *Picker) Set(keys []string) { p.SetNamed(keys, keys) }

// SetNamed replaces the offered items and clears the selection.
func (p *Picker) SetNamed(keys, names []string) {
	p.keys = append(p.keys[:0], keys...)
	p.names = p.names[:0]
	for i := range keys {
		n := keys[i]
		if i < len(names) && names[i] != "" {
			n = names[i]
		}
		p.names = append(p.names, n)
	}
	p.order = p.order[:0]
}

// Len returns the number of offered items.
func (p *Picker) Len() int { return len(p.keys) }

// Name returns the display name of item i.
func (p *Picker) Name(i int) string { return p.names[i] }

// Toggle flips item i. Out-of-range indexes are ignored.
func (p *Picker) Toggle(i int) bool {
	if i < 0 || i >= len(p.keys) {
		return false
	}
	for j, sel := range p.order {
		if sel == i {
			p.order = append(p.order[:j], p.order[j+1:]...)
			return true
		}
	}
	p.order = append(p.order, i)
	return true
}

// Selected reports whether item i is picked.
func (p *Picker) Selected(i int) bool {
	for _, sel := range p.order {
		if sel == i {
			return true
		}
	}
	return false
}

// Chosen returns the picked keys in selection order.
func (p *Picker) Chosen() []string {
	out := make([]string, len(p.order))
	for i, sel := range p.order {
		out[i] = p.keys[sel]
	}
	return out
}

// ClearSelection unpicks everything.
func (p *Picker) ClearSelection() { p.order = p.order[:0] }
