package identmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/retain-io/retain/internal/ir"
)

// Manager handles reading and writing of the persisted identifier map for
// one stack. The document is single-writer per stack; Lock/Unlock guard the
// administrative edit path.
type Manager struct {
	path   string
	logger *slog.Logger
}

func NewManager(path string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{path: path, logger: logger}
}

func (m *Manager) Path() string {
	return m.path
}

// Load parses the persisted document. Any read, parse, or schema failure
// yields nil so callers can fall back to Generate; it never returns an error.
func (m *Manager) Load(ctx context.Context) *ir.IdentifierMap {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		m.logger.Debug("identifier map not readable", "path", m.path, "error", err)
		return nil
	}

	var doc ir.IdentifierMap
	if err := json.Unmarshal(raw, &doc); err != nil {
		m.logger.Warn("identifier map is malformed, ignoring it", "path", m.path, "error", err)
		return nil
	}
	if doc.Version < 1 || doc.Version > CurrentVersion {
		m.logger.Warn("identifier map has unsupported version, ignoring it",
			"path", m.path, "version", doc.Version)
		return nil
	}
	if doc.Mappings == nil {
		doc.Mappings = map[string]*ir.IdentifierMapping{}
	}

	return &doc
}

// Save serializes the map deterministically: stable key ordering, two-space
// indent, trailing newline. Saving an unchanged map twice produces
// byte-identical files. I/O failures propagate; a failed persist must not
// look like success.
func (m *Manager) Save(ctx context.Context, doc *ir.IdentifierMap) error {
	if doc == nil {
		return fmt.Errorf("refusing to save a nil identifier map")
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create identifier map directory: %w", err)
	}

	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write identifier map %s: %w", m.path, err)
	}

	m.logger.Debug("identifier map saved", "path", m.path, "mappings", len(doc.Mappings))
	return nil
}

// Marshal renders the document to its canonical byte form. encoding/json
// sorts map keys, which gives the stable ordering for free.
func Marshal(doc *ir.IdentifierMap) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to serialize identifier map: %w", err)
	}
	return buf.Bytes(), nil
}
