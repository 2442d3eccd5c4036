package game

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/config"
	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/save"
)

// newTestShell builds a Game with only the fields the start-up path reads.
func newTestShell(t *testing.T, cfg config.Config) (*Game, *save.Store) {
	t.Helper()
	db, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := save.NewStore(filepath.Join(t.TempDir(), "save.json"), log)
	g := &Game{opts: Options{Config: cfg, DB: db, Store: store, Log: log}, log: log}
	return g, store
}

func writePatch(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patch.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func savedRecord(t *testing.T, g *Game, store *save.Store) *content.PlayerData {
	t.Helper()
	p, err := g.opts.DB.Player(g.opts.Config.Variant)
	if err != nil {
		t.Fatal(err)
	}
	p.Step = 42
	p.Beat = 2
	if err := store.Save(p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInitialData_ContinuesFromSave(t *testing.T) {
	g, store := newTestShell(t, config.Default())
	want := savedRecord(t, g, store)
	data, err := g.initialData()
	if err != nil {
		t.Fatal(err)
	}
	if data.Step != 42 || data.SaveID != want.SaveID {
		t.Fatalf("did not continue: step=%d id=%q", data.Step, data.SaveID)
	}
}

func TestInitialData_NewDiscardsSave(t *testing.T) {
	cfg := config.Default()
	cfg.New = true
	g, store := newTestShell(t, cfg)
	savedRecord(t, g, store)

	data, err := g.initialData()
	if err != nil {
		t.Fatal(err)
	}
	if data.Step != 0 || data.SaveID != "" {
		t.Fatalf("expected a fresh record, got step=%d id=%q", data.Step, data.SaveID)
	}
	if _, err := store.Load(); !errors.Is(err, save.ErrNoSave) {
		t.Fatalf("previous save still on disk: %v", err)
	}
}

func TestInitialData_AppliesPatch(t *testing.T) {
	cfg := config.Default()
	g, store := newTestShell(t, cfg)
	saved := savedRecord(t, g, store)
	g.opts.Config.PatchPath = writePatch(t, `{"hp": 1, "step": 7}`)

	data, err := g.initialData()
	if err != nil {
		t.Fatal(err)
	}
	if data.HP != 1 || data.Step != 7 {
		t.Fatalf("patch not applied: hp=%d step=%d", data.HP, data.Step)
	}
	if data.Beat != saved.Beat || data.SaveID != saved.SaveID {
		t.Fatalf("patch dropped untouched fields: %+v", data)
	}
}

func TestInitialData_RejectedPatchKeepsRecord(t *testing.T) {
	g, store := newTestShell(t, config.Default())
	saved := savedRecord(t, g, store)

	for name, path := range map[string]string{
		"unknown key": writePatch(t, `{"gold": 5}`),
		"bad json":    writePatch(t, `{"hp":`),
		"missing":     filepath.Join(t.TempDir(), "absent.json"),
	} {
		g.opts.Config.PatchPath = path
		data, err := g.initialData()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if data.HP != saved.HP || data.Step != saved.Step {
			t.Fatalf("%s: record changed to hp=%d step=%d", name, data.HP, data.Step)
		}
	}
}

func TestPlayerData_UnknownVariantListsChoices(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = "juggler"
	g, _ := newTestShell(t, cfg)
	_, err := g.playerData(false)
	if !errors.Is(err, content.ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
	for _, v := range g.opts.DB.PlayerVariants() {
		if !strings.Contains(err.Error(), v) {
			t.Fatalf("error %q does not list %q", err, v)
		}
	}
}
