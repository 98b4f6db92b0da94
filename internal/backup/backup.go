// Package backup dumps the whole log into a portable JSON document and
// restores it, remapping session ids so every set stays attached to its
// session.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/storage"
)

// Version is the document format written by Export.
const Version = 2

// ErrInvalidDocument is returned when a document is not valid JSON or lacks
// array-typed sessions and sets fields.
var ErrInvalidDocument = errors.New("invalid backup document")

// Document is the portable dump of every session and set, ids included.
type Document struct {
	Version    int              `json:"version"`
	ExportedAt string           `json:"exportedAt"`
	Sessions   []models.Session `json:"sessions"`
	Sets       []models.Set     `json:"sets"`
}

// Mode selects how an import treats existing data.
type Mode string

const (
	// Merge appends the document to existing data. Importing the same
	// document twice duplicates it.
	Merge Mode = "merge"
	// Replace wipes existing data first, in the same transaction.
	Replace Mode = "replace"
)

// ParseMode parses "merge" or "replace". Empty means Merge.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Merge:
		return Merge, nil
	case Replace:
		return Replace, nil
	default:
		return "", fmt.Errorf("unknown import mode %q (want merge or replace)", s)
	}
}

// Result summarizes an import.
type Result struct {
	Mode     Mode `json:"mode"`
	Sessions int  `json:"sessions_imported"`
	Sets     int  `json:"sets_imported"`
	// Unmapped counts sets whose session id had no match in the document
	// and was kept as written.
	Unmapped int `json:"unmapped_sets"`
}

// Filename is the conventional name of a backup taken on now's date.
func Filename(now time.Time) string {
	return "logbook_backup_" + now.Format(models.DateLayout) + ".json"
}

// Export reads every session and set into a Document stamped with now.
func Export(ctx context.Context, db *storage.DB, now time.Time) (*Document, error) {
	sessions, err := db.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting sessions: %w", err)
	}
	sets, err := db.Sets(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting sets: %w", err)
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return &Document{
		Version:    Version,
		ExportedAt: now.UTC().Format(time.RFC3339Nano),
		Sessions:   sessions,
		Sets:       sets,
	}, nil
}

// Write encodes doc as JSON.
func Write(w io.Writer, doc *Document) error {
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}

// Decode reads and validates a document. Any failure wraps ErrInvalidDocument.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for _, name := range []string{"sessions", "sets"} {
		if !isArray(fields[name]) {
			return nil, fmt.Errorf("%w: %q must be an array", ErrInvalidDocument, name)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// Import writes doc into db in one transaction. Sessions and sets get new
// ids; each set's session id is rewritten through the old-to-new map built
// from the sessions, falling back to the written value when unmapped. On any
// error nothing is written, including the Replace wipe.
func Import(ctx context.Context, db *storage.DB, doc *Document, mode Mode) (*Result, error) {
	if doc == nil || doc.Sessions == nil || doc.Sets == nil {
		return nil, ErrInvalidDocument
	}
	res := &Result{Mode: mode}

	err := db.WithTx(ctx, func(tx *storage.Tx) error {
		if mode == Replace {
			if err := tx.ClearAll(ctx); err != nil {
				return err
			}
		}

		ids := make(map[int64]int64, len(doc.Sessions))
		for _, s := range doc.Sessions {
			id, err := tx.InsertSession(ctx, s)
			if err != nil {
				return fmt.Errorf("importing session %d: %w", s.ID, err)
			}
			ids[s.ID] = id
		}

		sets, unmapped := RemapSessionIDs(doc.Sets, ids)
		for _, s := range sets {
			if _, err := tx.InsertSet(ctx, s); err != nil {
				return err
			}
		}

		res.Sessions = len(doc.Sessions)
		res.Sets = len(sets)
		res.Unmapped = unmapped
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing backup: %w", err)
	}
	return res, nil
}

// RemapSessionIDs returns copies of sets with SessionID rewritten through ids
// and ID cleared. Sets whose session id is not in ids keep it and are counted.
func RemapSessionIDs(sets []models.Set, ids map[int64]int64) ([]models.Set, int) {
	out := make([]models.Set, len(sets))
	unmapped := 0
	for i, s := range sets {
		s.ID = 0
		if id, ok := ids[s.SessionID]; ok {
			s.SessionID = id
		} else {
			unmapped++
		}
		out[i] = s
	}
	return out, unmapped
}
