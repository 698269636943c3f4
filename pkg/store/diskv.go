package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
)

// Slot names a single key in the store. Each slot is read once at startup and
// overwritten wholesale on every mutation.
type Slot string

const (
	SlotMessages Slot = "ss_messages"
	SlotEntries  Slot = "ss_entries"
	SlotDraft    Slot = "ss_draft"
	SlotTheme    Slot = "theme"
)

// DataSlots are the slots wiped by Clear. The theme preference survives.
var DataSlots = []Slot{SlotMessages, SlotEntries, SlotDraft}

// ErrCorruptSlot wraps decode failures of a stored slot.
var ErrCorruptSlot = errors.New("store: corrupt slot")

// Persistence defines the persistence contract for application state.
type Persistence interface {
	LoadMessages() ([]message.Message, error)
	SaveMessages(msgs []message.Message) error
	LoadEntries() ([]journal.Entry, error)
	SaveEntries(entries []journal.Entry) error
	LoadDraft() (string, error)
	SaveDraft(draft string) error
	LoadTheme() (string, error)
	SaveTheme(theme string) error
	Clear() error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    flatTransform,
		TempDir:      filepath.Join(basePath, tempDirName),
		CacheSizeMax: 1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

const tempDirName = ".tmp"

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// flatTransform keeps every slot directly under the base path.
func flatTransform(string) []string {
	return []string{}
}

// read always goes to disk so writes from other processes are picked up.
func (p *persistence) read(slot Slot) ([]byte, bool, error) {
	rc, err := p.d.ReadStream(string(slot), true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: read %s: %w", slot, err)
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("store: read %s: %w", slot, err)
	}
	return val, true, nil
}

func (p *persistence) readJSON(slot Slot, target any) error {
	val, ok, err := p.read(slot)
	if err != nil || !ok || len(val) == 0 {
		return err
	}
	if err := json.Unmarshal(val, target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptSlot, slot, err)
	}
	return nil
}

func (p *persistence) writeJSON(slot Slot, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", slot, err)
	}
	if err := p.d.Write(string(slot), data); err != nil {
		return fmt.Errorf("store: write %s: %w", slot, err)
	}
	return nil
}

func (p *persistence) LoadMessages() ([]message.Message, error) {
	msgs := []message.Message{}
	if err := p.readJSON(SlotMessages, &msgs); err != nil {
		return []message.Message{}, err
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return msgs, nil
}

func (p *persistence) SaveMessages(msgs []message.Message) error {
	if msgs == nil {
		msgs = []message.Message{}
	}
	return p.writeJSON(SlotMessages, msgs)
}

func (p *persistence) LoadEntries() ([]journal.Entry, error) {
	entries := []journal.Entry{}
	if err := p.readJSON(SlotEntries, &entries); err != nil {
		return []journal.Entry{}, err
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return entries, nil
}

func (p *persistence) SaveEntries(entries []journal.Entry) error {
	if entries == nil {
		entries = []journal.Entry{}
	}
	return p.writeJSON(SlotEntries, entries)
}

func (p *persistence) LoadDraft() (string, error) {
	val, _, err := p.read(SlotDraft)
	return string(val), err
}

// SaveDraft stores the raw draft text; an empty draft removes the slot.
func (p *persistence) SaveDraft(draft string) error {
	if draft == "" {
		return p.erase(SlotDraft)
	}
	if err := p.d.WriteString(string(SlotDraft), draft); err != nil {
		return fmt.Errorf("store: write %s: %w", SlotDraft, err)
	}
	return nil
}

func (p *persistence) LoadTheme() (string, error) {
	val, _, err := p.read(SlotTheme)
	return strings.TrimSpace(string(val)), err
}

func (p *persistence) SaveTheme(theme string) error {
	if err := p.d.WriteString(string(SlotTheme), theme); err != nil {
		return fmt.Errorf("store: write %s: %w", SlotTheme, err)
	}
	return nil
}

// Clear erases every data slot. Missing slots are fine, so clearing twice is
// safe.
func (p *persistence) Clear() error {
	var errs []error
	for _, slot := range DataSlots {
		if err := p.erase(slot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *persistence) erase(slot Slot) error {
	if !p.d.Has(string(slot)) {
		return nil
	}
	if err := p.d.Erase(string(slot)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: erase %s: %w", slot, err)
	}
	return nil
}

// slotForPath maps a file in the base directory back to its slot.
func slotForPath(base, path string) (Slot, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || strings.Contains(rel, string(os.PathSeparator)) {
		return "", false
	}
	for _, slot := range []Slot{SlotMessages, SlotEntries, SlotDraft, SlotTheme} {
		if rel == string(slot) {
			return slot, true
		}
	}
	return "", false
}
