package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"github.com/zyedidia/generic/mapset"
)

//go:embed data/*.json
var embedded embed.FS

var (
	ErrUnknownPlayer = errors.New("unknown player variant")
	ErrUnknownEnemy  = errors.New("unknown enemy")
	ErrEmptyPool     = errors.New("empty enemy pool")
)

// Database is the content provider keyed by ids. It must be fully loaded and
// validated before any simulation starts.
type Database struct {
	Players map[string]PlayerData
	Enemies map[string]Enemy
	Levels  map[int][]string // level → enemy keys
	Items   map[string]Item
	Map     MapData
}

type jsonEnemies struct {
	Enemies []Enemy             `json:"enemies"`
	Levels  map[string][]string `json:"levels"`
}

// Default loads the content compiled into the binary.
func Default() (*Database, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("embedded content: %w", err)
	}
	return Load(sub)
}

// LoadDir loads content from a directory on disk.
func LoadDir(dir string) (*Database, error) {
	return Load(os.DirFS(dir))
}

// Load reads players.json, enemies.json, items.json and map.json from fsys.
func Load(fsys fs.FS) (*Database, error) {
	db := &Database{
		Players: make(map[string]PlayerData),
		Enemies: make(map[string]Enemy),
		Levels:  make(map[int][]string),
		Items:   make(map[string]Item),
	}

	var players []PlayerData
	if err := readJSON(fsys, "players.json", &players); err != nil {
		return nil, err
	}
	for _, p := range players {
		if _, dup := db.Players[p.Key]; dup {
			return nil, fmt.Errorf("duplicate player variant %q", p.Key)
		}
		db.Players[p.Key] = p
	}

	var je jsonEnemies
	if err := readJSON(fsys, "enemies.json", &je); err != nil {
		return nil, err
	}
	for _, e := range je.Enemies {
		if _, dup := db.Enemies[e.Key]; dup {
			return nil, fmt.Errorf("duplicate enemy %q", e.Key)
		}
		db.Enemies[e.Key] = e
	}
	for lvStr, keys := range je.Levels {
		lv, err := strconv.Atoi(lvStr)
		if err != nil {
			return nil, fmt.Errorf("enemy level %q: %w", lvStr, err)
		}
		db.Levels[lv] = append([]string(nil), keys...)
	}

	var items []Item
	if err := readJSON(fsys, "items.json", &items); err != nil {
		return nil, err
	}
	for _, it := range items {
		if _, dup := db.Items[it.Key]; dup {
			return nil, fmt.Errorf("duplicate item %q", it.Key)
		}
		db.Items[it.Key] = it
	}

	if err := readJSON(fsys, "map.json", &db.Map); err != nil {
		return nil, err
	}

	if err := db.Validate(); err != nil {
		return nil, err
	}
	return db, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Validate cross-checks references between the tables.
func (db *Database) Validate() error {
	if len(db.Players) == 0 {
		return errors.New("content has no player variants")
	}
	known := mapset.New[string]()
	for key := range db.Items {
		known.Put(key)
	}
	for key, e := range db.Enemies {
		if e.MaxHP <= 0 {
			return fmt.Errorf("enemy %q has maxHp %d", key, e.MaxHP)
		}
		if len(e.Cocktail.Ingredient) == 0 {
			return fmt.Errorf("enemy %q has an empty cocktail", key)
		}
		for _, ing := range e.Cocktail.Ingredient {
			if !known.Has(ing) {
				return fmt.Errorf("enemy %q cocktail needs unknown item %q", key, ing)
			}
		}
	}
	for lv, keys := range db.Levels {
		for _, k := range keys {
			if _, ok := db.Enemies[k]; !ok {
				return fmt.Errorf("level %d: %w %q", lv, ErrUnknownEnemy, k)
			}
		}
	}
	for key, p := range db.Players {
		if !p.Valid() {
			return fmt.Errorf("player variant %q has invalid hp %d/%d", key, p.HP, p.MaxHP)
		}
		for _, it := range p.Item {
			if !known.Has(it) {
				return fmt.Errorf("player variant %q starts with unknown item %q", key, it)
			}
		}
	}
	return db.Map.Validate()
}

// Player returns a fresh copy of the named player variant.
func (db *Database) Player(variant string) (*PlayerData, error) {
	p, ok := db.Players[variant]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPlayer, variant)
	}
	return p.Clone(), nil
}

// PlayerVariants returns the variant keys in sorted order.
func (db *Database) PlayerVariants() []string {
	keys := make([]string, 0, len(db.Players))
	for k := range db.Players {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Enemy looks up an enemy record.
func (db *Database) Enemy(key string) (Enemy, error) {
	e, ok := db.Enemies[key]
	if !ok {
		return Enemy{}, fmt.Errorf("%w %q", ErrUnknownEnemy, key)
	}
	return e, nil
}

// EnemyPool returns the enemy keys for level lv. Levels past the last defined
// one reuse the highest defined level below lv.
func (db *Database) EnemyPool(lv int) ([]string, error) {
	best := -1
	for l := range db.Levels {
		if l <= lv && l > best && len(db.Levels[l]) > 0 {
			best = l
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("level %d: %w", lv, ErrEmptyPool)
	}
	return db.Levels[best], nil
}

// ItemPool returns, in sorted order, the keys of every item available at lv.
func (db *Database) ItemPool(lv int) []string {
	var keys []string
	for k, it := range db.Items {
		if it.Lv <= lv {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Item looks up an item record.
func (db *Database) Item(key string) (Item, bool) {
	it, ok := db.Items[key]
	return it, ok
}

// ItemName returns the display name of key, or key itself when unknown.
func (db *Database) ItemName(key string) string {
	if it, ok := db.Items[key]; ok {
		return it.Name
	}
	return key
}
