package logbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/claude/logbook/internal/backup"
	"github.com/claude/logbook/internal/export"
	"github.com/claude/logbook/internal/ingest"
	"github.com/claude/logbook/internal/ingest/alpha"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/observability"
	"github.com/claude/logbook/internal/storage"
)

// ExportBackup dumps every session and set.
func (s *Service) ExportBackup(ctx context.Context) (*backup.Document, error) {
	doc, err := backup.Export(ctx, s.db, s.now())
	if err != nil {
		return nil, s.fail("export_backup", err)
	}
	s.log.Info("backup exported", "sessions", len(doc.Sessions), "sets", len(doc.Sets))
	return doc, nil
}

// BackupFilename is the download name for a backup taken now.
func (s *Service) BackupFilename() string {
	return backup.Filename(s.now())
}

// ImportBackup decodes a backup document from r and imports it. An invalid
// document fails with backup.ErrInvalidDocument and changes nothing.
func (s *Service) ImportBackup(ctx context.Context, r io.Reader, mode backup.Mode) (*backup.Result, error) {
	var result *backup.Result
	err := s.trackImport(ctx, "backup", string(mode), func() (int64, int64, error) {
		doc, err := backup.Decode(r)
		if err != nil {
			return 0, 0, err
		}
		result, err = backup.Import(ctx, s.db, doc, mode)
		if err != nil {
			return 0, 0, err
		}
		return int64(result.Sessions), int64(result.Sets), nil
	})
	if err != nil {
		if errors.Is(err, backup.ErrInvalidDocument) {
			return nil, err
		}
		return nil, s.fail("import_backup", err)
	}

	s.engine.Invalidate()
	observability.RecordImport(string(mode), result.Sessions, result.Sets)
	if result.Unmapped > 0 {
		s.log.Warn("backup sets kept unmapped session ids", "count", result.Unmapped)
	}
	s.log.Info("backup imported", "mode", mode, "sessions", result.Sessions, "sets", result.Sets)
	return result, nil
}

// IngestAlpha appends the sessions of an Alpha Progression CSV export.
func (s *Service) IngestAlpha(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	var result *ingest.Result
	err := s.trackImport(ctx, s.alpha.Name(), "append", func() (int64, int64, error) {
		var err error
		result, err = s.alpha.Ingest(ctx, r)
		if err != nil {
			return 0, 0, err
		}
		return int64(result.SessionsInserted), result.SetsInserted, nil
	})
	if errors.Is(err, alpha.ErrMalformed) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		return nil, s.fail("ingest_alpha", err)
	}

	s.engine.Invalidate()
	observability.RecordImport(s.alpha.Name(), result.SessionsInserted, int(result.SetsInserted))
	return result, nil
}

// trackImport runs fn between a "running" import log entry and its final
// status. Import log failures are logged and never fail the import.
func (s *Service) trackImport(ctx context.Context, source, mode string, fn func() (sessions, sets int64, err error)) error {
	start := time.Now()
	entry := storage.ImportLog{
		CreatedAt: s.now(),
		Source:    source,
		Mode:      mode,
		Status:    storage.ImportRunning,
	}
	logID, logErr := s.db.InsertImportLog(ctx, entry)
	if logErr != nil {
		s.log.Warn("failed to create import log", "source", source, "error", logErr)
	}

	sessions, sets, err := fn()

	dur := time.Since(start).Milliseconds()
	entry.DurationMs = &dur
	entry.SessionsInserted = sessions
	entry.SetsInserted = sets
	entry.Status = storage.ImportSuccess
	if err != nil {
		msg := err.Error()
		entry.Status = storage.ImportError
		entry.ErrorMessage = &msg
	}
	if logErr == nil {
		if uerr := s.db.UpdateImportLog(ctx, logID, entry); uerr != nil {
			s.log.Warn("failed to update import log", "id", logID, "error", uerr)
		}
	}
	return err
}

// ImportLogs returns the most recent imports, newest first.
func (s *Service) ImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error) {
	logs, err := s.db.ImportLogs(ctx, limit)
	if err != nil {
		return nil, s.fail("import_logs", err)
	}
	return logs, nil
}

// Wipe deletes every session and set.
func (s *Service) Wipe(ctx context.Context) error {
	if err := s.db.ClearAll(ctx); err != nil {
		return s.fail("wipe", err)
	}
	s.engine.Invalidate()
	s.log.Warn("all sessions and sets deleted")
	return nil
}

// HistoryCSV writes the exercise's history as CSV and returns its filename.
func (s *Service) HistoryCSV(ctx context.Context, w io.Writer, exercise string) (string, error) {
	rows, err := s.exportRows(ctx, exercise)
	if err != nil {
		return "", err
	}
	if err := export.WriteCSV(w, rows); err != nil {
		return "", fmt.Errorf("writing csv: %w", err)
	}
	return export.CSVFilename(exercise), nil
}

// HistoryXLSX writes the exercise's history as a spreadsheet and returns its
// filename.
func (s *Service) HistoryXLSX(ctx context.Context, w io.Writer, exercise string) (string, error) {
	rows, err := s.exportRows(ctx, exercise)
	if err != nil {
		return "", err
	}
	if err := export.WriteXLSX(w, rows); err != nil {
		return "", fmt.Errorf("writing xlsx: %w", err)
	}
	return export.XLSXFilename(exercise), nil
}

func (s *Service) exportRows(ctx context.Context, exercise string) ([]models.Set, error) {
	if exercise == "" {
		return nil, fmt.Errorf("%w: exercise is required", ErrValidation)
	}
	rows, err := s.db.History(ctx, exercise, export.HistoryWindow)
	if err != nil {
		return nil, s.fail("export_history", err)
	}
	return rows, nil
}
