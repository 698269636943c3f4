package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
)

// ErrMalformedImport rejects an import document that fails the schema check.
// Nothing is written when it is returned.
var ErrMalformedImport = errors.New("app: import failed, the file is not a valid SoulSync export")

// Snapshot is the export document.
type Snapshot struct {
	Messages []message.Message `json:"messages"`
	Entries  []journal.Entry   `json:"entries"`
}

// ImportResult reports which fields an import replaced.
type ImportResult struct {
	Messages         int  `json:"messages"`
	Entries          int  `json:"entries"`
	MessagesReplaced bool `json:"messagesReplaced"`
	EntriesReplaced  bool `json:"entriesReplaced"`
}

// Snapshot copies the current messages and entries in storage order.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Messages: message.Clone(s.messages),
		Entries:  journal.Clone(s.entries),
	}
}

// Export renders the snapshot as indented JSON.
func (s *Service) Export() ([]byte, error) {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("app: export: %w", err)
	}
	return data, nil
}

// ExportFileName is the timestamped download name, soulsync-<unix ms>.json.
func (s *Service) ExportFileName() string {
	return fmt.Sprintf("soulsync-%d.json", s.now().UnixMilli())
}

// ExportFile writes the export into dir and returns the file path.
func (s *Service) ExportFile(dir string) (string, error) {
	data, err := s.Export()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, s.ExportFileName())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("app: export: %w", err)
	}
	return path, nil
}

// Import replaces messages and/or entries from an export document. Fields
// that are absent (or null) are left unchanged. Every present field must be an
// array of well-formed objects; any failure rejects the whole document.
func (s *Service) Import(data []byte) (ImportResult, error) {
	if s.Persistence == nil {
		return ImportResult{}, errNoPersistence
	}
	doc, err := parseImport(data)
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var res ImportResult
	prevMsgs := s.messages
	if doc.messages != nil {
		if err := s.Persistence.SaveMessages(doc.messages); err != nil {
			return ImportResult{}, err
		}
		res.MessagesReplaced = true
		res.Messages = len(doc.messages)
	}
	if doc.entries != nil {
		if err := s.Persistence.SaveEntries(doc.entries); err != nil {
			if doc.messages != nil {
				if rerr := s.Persistence.SaveMessages(message.Clone(prevMsgs)); rerr != nil {
					return ImportResult{}, errors.Join(err, rerr)
				}
			}
			return ImportResult{}, err
		}
		res.EntriesReplaced = true
		res.Entries = len(doc.entries)
	}

	if doc.messages != nil {
		s.messages = doc.messages
	}
	if doc.entries != nil {
		s.entries = doc.entries
	}
	return res, nil
}

type importDoc struct {
	messages []message.Message
	entries  []journal.Entry
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedImport, fmt.Sprintf(format, args...))
}

func parseImport(data []byte) (*importDoc, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, malformed("expected a JSON object")
	}

	doc := &importDoc{}
	if raw, ok := top["messages"]; ok && !isNull(raw) {
		items, err := objectArray("messages", raw)
		if err != nil {
			return nil, err
		}
		doc.messages = make([]message.Message, 0, len(items))
		for i, item := range items {
			var m message.Message
			if err := json.Unmarshal(item, &m); err != nil {
				return nil, malformed("messages[%d]: %v", i, err)
			}
			if err := m.Validate(); err != nil {
				return nil, malformed("messages[%d]: %v", i, err)
			}
			doc.messages = append(doc.messages, m)
		}
	}

	if raw, ok := top["entries"]; ok && !isNull(raw) {
		items, err := objectArray("entries", raw)
		if err != nil {
			return nil, err
		}
		doc.entries = make([]journal.Entry, 0, len(items))
		seen := make(map[string]struct{}, len(items))
		for i, item := range items {
			var e journal.Entry
			if err := json.Unmarshal(item, &e); err != nil {
				return nil, malformed("entries[%d]: %v", i, err)
			}
			if err := e.Validate(); err != nil {
				return nil, malformed("entries[%d]: %v", i, err)
			}
			if _, dup := seen[e.ID]; dup {
				return nil, malformed("entries[%d]: duplicate id %q", i, e.ID)
			}
			seen[e.ID] = struct{}{}
			doc.entries = append(doc.entries, e)
		}
	}
	return doc, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// objectArray checks the array-of-objects shape before fields are decoded.
func objectArray(field string, raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, malformed("%s must be an array", field)
	}
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, malformed("%s[%d] must be an object", field, i)
		}
	}
	return items, nil
}
