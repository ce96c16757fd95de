// Package sqlite is the SQLite-backed snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/medscribe/clinical-copilot/internal/storage"
)

// Store persists a single visit snapshot row.
type Store struct {
	db *sql.DB
}

var _ storage.SnapshotStore = (*Store)(nil)

// New opens (and initializes) the snapshot database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize snapshot schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS visit_snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL,
		locale TEXT NOT NULL,
		case_data TEXT NOT NULL,
		soap_note TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	return err
}

// Load returns the persisted snapshot, or (nil, nil) when none exists.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT version, locale, case_data, soap_note FROM visit_snapshots WHERE id = 1`)

	var (
		snap         storage.Snapshot
		caseJSON     string
		soapNoteJSON string
	)
	err := row.Scan(&snap.Version, &snap.Locale, &caseJSON, &soapNoteJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(caseJSON), &snap.CaseData); err != nil {
		return nil, fmt.Errorf("decode case data: %w", err)
	}
	if err := json.Unmarshal([]byte(soapNoteJSON), &snap.SoapNote); err != nil {
		return nil, fmt.Errorf("decode soap note: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot row, stamping the current schema version.
func (s *Store) Save(ctx context.Context, snap *storage.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	caseJSON, err := json.Marshal(snap.CaseData)
	if err != nil {
		return fmt.Errorf("encode case data: %w", err)
	}
	soapNoteJSON, err := json.Marshal(snap.SoapNote)
	if err != nil {
		return fmt.Errorf("encode soap note: %w", err)
	}

	locale := snap.Locale
	if locale == "" {
		locale = "en-US"
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO visit_snapshots
		(id, version, locale, case_data, soap_note, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			locale = excluded.locale,
			case_data = excluded.case_data,
			soap_note = excluded.soap_note,
			updated_at = excluded.updated_at`,
		storage.SchemaVersion, locale, string(caseJSON), string(soapNoteJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
