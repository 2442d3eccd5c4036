package content

// Vitals is the HP pair shared by every character record.
type Vitals struct {
	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
}

// HPChange reports what a Gain or Lose actually applied.
type HPChange struct {
	Amount int // applied delta, never more than requested
	HP     int // HP after the change
}

// Valid reports whether the record can take HP changes at all.
func (v *Vitals) Valid() bool {
	return v.MaxHP > 0 && v.HP >= 0 && v.HP <= v.MaxHP
}

// Gain heals up to amount, clamped at MaxHP. Negative amounts and corrupt
// records are rejected with ok=false.
func (v *Vitals) Gain(amount int) (HPChange, bool) {
	if amount < 0 || !v.Valid() {
		return HPChange{}, false
	}
	applied := amount
	if v.HP+applied > v.MaxHP {
		applied = v.MaxHP - v.HP
	}
	v.HP += applied
	return HPChange{Amount: applied, HP: v.HP}, true
}

// Lose damages up to amount, clamped at 0.
func (v *Vitals) Lose(amount int) (HPChange, bool) {
	if amount < 0 || !v.Valid() {
		return HPChange{}, false
	}
	applied := amount
	if applied > v.HP {
		applied = v.HP
	}
	v.HP -= applied
	return HPChange{Amount: applied, HP: v.HP}, true
}

// Full reports HP == MaxHP.
func (v *Vitals) Full() bool { return v.HP >= v.MaxHP }

// ImageSet maps a pose ("down", "up", "left", "right", "battle", "map") to an asset key.
type ImageSet map[string]string

// CharacterData is the plain record behind every character on either screen.
type CharacterData struct {
	Key    string   `json:"key"`
	Name   string   `json:"name"`
	Images ImageSet `json:"images,omitempty"`
	Vitals
}

// PlayerData is the serializable player record. It is saved verbatim and
// restored as "previous data" on the next start.
type PlayerData struct {
	CharacterData
	SaveID        string          `json:"saveId,omitempty"`
	Step          int             `json:"step"`
	Beat          int             `json:"beat"`
	Item          []string        `json:"item"`
	Lv            int             `json:"lv"`
	LvUpCondition map[string]int  `json:"lvUpCondition,omitempty"`
	RateEncounter float64         `json:"rateEncounter"`
	RateRun       float64         `json:"rateRun"`
	Book          map[string]bool `json:"book,omitempty"`
}

// Stat returns a level-up tracked stat by name.
func (p *PlayerData) Stat(name string) (int, bool) {
	switch name {
	case "step":
		return p.Step, true
	case "beat":
		return p.Beat, true
	case "lv":
		return p.Lv, true
	case "maxHp":
		return p.MaxHP, true
	default:
		return 0, false
	}
}

// Clone returns a deep copy.
func (p *PlayerData) Clone() *PlayerData {
	c := *p
	c.Images = cloneImages(p.Images)
	c.Item = append([]string(nil), p.Item...)
	if p.LvUpCondition != nil {
		c.LvUpCondition = make(map[string]int, len(p.LvUpCondition))
		for k, v := range p.LvUpCondition {
			c.LvUpCondition[k] = v
		}
	}
	if p.Book != nil {
		c.Book = make(map[string]bool, len(p.Book))
		for k, v := range p.Book {
			c.Book[k] = v
		}
	}
	return &c
}

// Cocktail is an enemy's puzzle: the exact ingredient multiset that beats it.
type Cocktail struct {
	Name       string   `json:"name"`
	Ingredient []string `json:"ingredient"`
}

// Enemy is one entry of the enemy pool.
type Enemy struct {
	CharacterData
	Cocktail Cocktail `json:"cocktail"`
	Rank     int      `json:"rank"`
	RateRun  float64  `json:"rateRun,omitempty"` // 0 means use the player's rate
}

// Item is an ingredient the player can pick up on the map.
type Item struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Lv   int    `json:"lv"`
}

// Point is a map-to-canvas offset.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func cloneImages(in ImageSet) ImageSet {
	if in == nil {
		return nil
	}
	out := make(ImageSet, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
