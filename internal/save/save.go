// Package save persists the player record between sessions.
package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
)

// ErrNoSave is returned by Load when there is no previous save.
var ErrNoSave = errors.New("no save data")

// Store reads and writes one save file.
type Store struct {
	Path string
	log  logrus.FieldLogger
}

// NewStore creates a store for path.
func NewStore(path string, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{Path: path, log: log}
}

// Load returns the previous data, or ErrNoSave.
func (s *Store) Load() (*content.PlayerData, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	var p content.PlayerData
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse save %s: %w", s.Path, err)
	}
	if !p.Valid() {
		return nil, fmt.Errorf("save %s: hp %d/%d out of range", s.Path, p.HP, p.MaxHP)
	}
	return &p, nil
}

// Save writes p verbatim. The file is replaced atomically.
func (s *Store) Save(p *content.PlayerData) error {
	EnsureID(p)
	raw, err := Encode(p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".save-*")
	if err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write save: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write save: %w", err)
	}
	s.log.WithFields(logrus.Fields{"save_id": p.SaveID, "step": p.Step}).Debug("saved")
	return nil
}

// Clear removes the save file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear save: %w", err)
	}
	return nil
}

// EnsureID gives p a save id if it has none.
func EnsureID(p *content.PlayerData) {
	if p.SaveID == "" {
		p.SaveID = uuid.NewString()
	}
}

// Encode renders p as indented JSON.
func Encode(p *content.PlayerData) ([]byte, error) {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return raw, nil
}

// ApplyPatch returns a copy of p with the JSON object patch merged in. A patch
// naming a key the record does not have is rejected and p is left untouched.
func ApplyPatch(p *content.PlayerData, patch []byte) (*content.PlayerData, error) {
	out := p.Clone()
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	if !out.Valid() {
		return nil, fmt.Errorf("apply patch: hp %d/%d out of range", out.HP, out.MaxHP)
	}
	return out, nil
}

// CopyToClipboard puts the encoded record on the system clipboard.
func CopyToClipboard(p *content.PlayerData) error {
	raw, err := Encode(p)
	if err != nil {
		return err
	}
	if clipboard.Unsupported {
		return errors.New("clipboard unsupported on this platform")
	}
	if err := clipboard.WriteAll(string(raw)); err != nil {
		return fmt.Errorf("copy save: %w", err)
	}
	return nil
}
