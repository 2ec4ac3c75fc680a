package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Store is a SQLite database holding the case history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at dbPath and applies
// pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is required", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HistoryStore returns a CaseHistoryStore backed by this store.
func (s *Store) HistoryStore() driven.CaseHistoryStore {
	return &historyStore{store: s}
}

// migrate runs all pending up migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== History Store ====================

// historyStore implements driven.CaseHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.CaseHistoryStore = (*historyStore)(nil)

// Save stores or replaces a record. The original creation time is kept
// on replace.
func (h *historyStore) Save(ctx context.Context, record domain.CaseRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: record ID is required", domain.ErrInvalidInput)
	}

	issuesJSON, err := json.Marshal(nonNil(record.Issues))
	if err != nil {
		return fmt.Errorf("marshalling issues: %w", err)
	}
	defensesJSON, err := json.Marshal(nonNil(record.Defenses))
	if err != nil {
		return fmt.Errorf("marshalling defenses: %w", err)
	}

	now := time.Now().UTC()
	createdAt := record.CreatedAt.UTC()
	if record.CreatedAt.IsZero() {
		createdAt = now
	}

	_, err = h.store.db.ExecContext(ctx, `
		INSERT INTO case_records (id, case_name, case_number, facts, issues, defenses, motion, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			case_name = excluded.case_name,
			case_number = excluded.case_number,
			facts = excluded.facts,
			issues = excluded.issues,
			defenses = excluded.defenses,
			motion = excluded.motion,
			updated_at = excluded.updated_at
	`, record.ID, record.CaseName, record.CaseNumber, record.Facts,
		string(issuesJSON), string(defensesJSON), record.Motion, createdAt, now)
	if err != nil {
		return fmt.Errorf("saving case record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (h *historyStore) Get(ctx context.Context, id string) (*domain.CaseRecord, error) {
	row := h.store.db.QueryRowContext(ctx, `
		SELECT id, case_name, case_number, facts, issues, defenses, motion, created_at
		FROM case_records WHERE id = ?
	`, id)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// List returns all records, oldest first.
func (h *historyStore) List(ctx context.Context) ([]domain.CaseRecord, error) {
	rows, err := h.store.db.QueryContext(ctx, `
		SELECT id, case_name, case_number, facts, issues, defenses, motion, created_at
		FROM case_records ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying case records: %w", err)
	}
	defer rows.Close()

	var records []domain.CaseRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating case records: %w", err)
	}
	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.CaseRecord, error) {
	var record domain.CaseRecord
	var issuesJSON, defensesJSON string
	var createdAt sql.NullTime
	if err := row.Scan(&record.ID, &record.CaseName, &record.CaseNumber, &record.Facts,
		&issuesJSON, &defensesJSON, &record.Motion, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning case record: %w", err)
	}

	if err := json.Unmarshal([]byte(issuesJSON), &record.Issues); err != nil {
		return nil, fmt.Errorf("unmarshaling issues: %w", err)
	}
	if err := json.Unmarshal([]byte(defensesJSON), &record.Defenses); err != nil {
		return nil, fmt.Errorf("unmarshaling defenses: %w", err)
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time
	}
	return &record, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
