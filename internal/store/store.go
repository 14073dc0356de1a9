// Package store persists scan results in a SQLite database under .ai-prov/.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"aiprov/internal/tag"
)

// Store provides persistence for scanned files and their AI hunks.
type Store interface {
	// GetFileHash returns the stored hash for a path, or "" if not scanned.
	GetFileHash(path string) (string, error)
	// UpsertFile inserts or updates a file record and returns its ID.
	// It also deletes any existing hunks for the file.
	UpsertFile(f FileRecord) (int64, error)
	// InsertHunks inserts hunks for a file.
	InsertHunks(fileID int64, hunks []HunkRecord) error
	// HunksForFile returns the stored hunks of a path in line order.
	HunksForFile(path string) ([]HunkRecord, error)
	// AIStats aggregates AI coverage across every scanned file.
	AIStats() (Stats, error)
	// FileStats aggregates per-file AI line coverage.
	FileStats() ([]FileHunks, error)
	// ByTrace returns files whose hunks reference a trace ID.
	ByTrace(traceID string) ([]FileHunks, error)
	// Unreviewed returns files with hunks lacking a reviewed field.
	Unreviewed() ([]FileHunks, error)
	// PruneExcept removes files (and their hunks) whose paths are not in
	// the given set, returning how many files were pruned.
	PruneExcept(seen []string) (int, error)
	// GetMeta returns a metadata value by key, or "" if not set.
	GetMeta(key string) (string, error)
	// SetMeta sets a metadata key-value pair.
	SetMeta(key, value string) error
	// DeleteAll removes all files and hunks.
	DeleteAll() error
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and initializes the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow("SELECT hash FROM files WHERE path = ?", path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

func (s *SQLiteStore) UpsertFile(f FileRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRow("SELECT id FROM files WHERE path = ?", f.Path).Scan(&existingID)
	if err == nil {
		if _, err := tx.Exec("DELETE FROM hunks WHERE file_id = ?", existingID); err != nil {
			return 0, err
		}
		_, err = tx.Exec(
			"UPDATE files SET hash = ?, language = ?, scanned_at = CURRENT_TIMESTAMP, size_bytes = ?, line_count = ? WHERE id = ?",
			f.Hash, f.Language, f.SizeBytes, f.LineCount, existingID,
		)
		if err != nil {
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, err
		}
		return existingID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := tx.Exec(
		"INSERT INTO files (path, hash, language, size_bytes, line_count) VALUES (?, ?, ?, ?, ?)",
		f.Path, f.Hash, f.Language, f.SizeBytes, f.LineCount,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *SQLiteStore) InsertHunks(fileID int64, hunks []HunkRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO hunks (file_id, start_line, end_line, tool, confidence, trace, tests, reviewed) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range hunks {
		_, err := stmt.Exec(
			fileID, h.StartLine, h.EndLine, string(h.Tool), string(h.Confidence),
			strings.Join(h.Trace, ","), strings.Join(h.Tests, ","), h.Reviewed,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

const hunkColumns = "h.id, h.file_id, h.start_line, h.end_line, h.tool, h.confidence, h.trace, h.tests, h.reviewed"

func (s *SQLiteStore) HunksForFile(path string) ([]HunkRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+hunkColumns+`
		FROM hunks h
		JOIN files f ON f.id = h.file_id
		WHERE f.path = ?
		ORDER BY h.start_line
	`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHunks(rows)
}

func (s *SQLiteStore) AIStats() (Stats, error) {
	var stats Stats
	err := s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(line_count), 0) FROM files").
		Scan(&stats.Files, &stats.TotalLines)
	if err != nil {
		return Stats{}, err
	}
	err = s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(end_line - start_line + 1), 0) FROM hunks").
		Scan(&stats.AIHunks, &stats.AILines)
	if err != nil {
		return Stats{}, err
	}

	rows, err := s.db.Query(`
		SELECT tool, COUNT(*), SUM(end_line - start_line + 1)
		FROM hunks GROUP BY tool ORDER BY tool
	`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var st ToolStat
		var tool string
		if err := rows.Scan(&tool, &st.Hunks, &st.Lines); err != nil {
			return Stats{}, err
		}
		st.Tool = tag.Tool(tool)
		stats.ByTool = append(stats.ByTool, st)
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) FileStats() ([]FileHunks, error) {
	return s.filesWhere("", nil)
}

func (s *SQLiteStore) ByTrace(traceID string) ([]FileHunks, error) {
	// Exact match inside the comma-joined trace column.
	return s.filesWhere("WHERE ',' || h.trace || ',' LIKE ?", []any{"%," + traceID + ",%"})
}

func (s *SQLiteStore) Unreviewed() ([]FileHunks, error) {
	return s.filesWhere("WHERE h.reviewed = ''", nil)
}

func (s *SQLiteStore) filesWhere(where string, args []any) ([]FileHunks, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.path, f.hash, f.language, f.size_bytes, f.line_count,
		       `+hunkColumns+`
		FROM hunks h
		JOIN files f ON f.id = h.file_id
		`+where+`
		ORDER BY f.path, h.start_line
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileHunks
	for rows.Next() {
		var f FileRecord
		var h HunkRecord
		var tool, conf, trace, tests string
		err := rows.Scan(
			&f.ID, &f.Path, &f.Hash, &f.Language, &f.SizeBytes, &f.LineCount,
			&h.ID, &h.FileID, &h.StartLine, &h.EndLine, &tool, &conf, &trace, &tests, &h.Reviewed,
		)
		if err != nil {
			return nil, err
		}
		h.Tool = tag.Tool(tool)
		h.Confidence = tag.Confidence(conf)
		h.Trace = splitJoined(trace)
		h.Tests = splitJoined(tests)

		if len(out) == 0 || out[len(out)-1].File.ID != f.ID {
			out = append(out, FileHunks{File: f})
		}
		out[len(out)-1].Hunks = append(out[len(out)-1].Hunks, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *SQLiteStore) PruneExcept(seen []string) (int, error) {
	keep := make(map[string]bool, len(seen))
	for _, p := range seen {
		keep[p] = true
	}

	rows, err := s.db.Query("SELECT id, path FROM files")
	if err != nil {
		return 0, err
	}
	var stale []int64
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return 0, err
		}
		if !keep[path] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, id := range stale {
		if _, err := tx.Exec("DELETE FROM hunks WHERE file_id = ?", id); err != nil {
			return 0, err
		}
		if _, err := tx.Exec("DELETE FROM files WHERE id = ?", id); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}

func (s *SQLiteStore) DeleteAll() error {
	if _, err := s.db.Exec("DELETE FROM hunks"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM files")
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanHunks(rows *sql.Rows) ([]HunkRecord, error) {
	var out []HunkRecord
	for rows.Next() {
		var h HunkRecord
		var tool, conf, trace, tests string
		if err := rows.Scan(&h.ID, &h.FileID, &h.StartLine, &h.EndLine, &tool, &conf, &trace, &tests, &h.Reviewed); err != nil {
			return nil, err
		}
		h.Tool = tag.Tool(tool)
		h.Confidence = tag.Confidence(conf)
		h.Trace = splitJoined(trace)
		h.Tests = splitJoined(tests)
		out = append(out, h)
	}
	return out, rows.Err()
}

func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
