package dictionary

import (
	"bufio"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/PolvanHoften/generalsub/internal/cipher"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (words + meta)
const currentSchemaVersion = 1

// Meta keys for the source fingerprint.
const (
	metaSourcePath  = "source_path"
	metaSourceSize  = "source_size"
	metaSourceMtime = "source_mtime_unix_ns"
	metaFolded      = "folded"
)

// Cache is the SQLite-backed signature cache. It stores every normalized
// word of one dictionary file together with its pattern signature, so
// repeated solves skip the full normalize-and-classify scan.
//
// The cache tracks exactly one source at a time; pointing it at a
// different file (or the same file after an edit) triggers a rebuild.
type Cache struct {
	db *sql.DB
}

// OpenCache creates or opens the cache database at the given path.
// Applies required pragmas and schema migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and stamps the schema
// version. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version > currentSchemaVersion {
		return fmt.Errorf("cache schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if version < currentSchemaVersion {
		// Future migrations slot in here; v1 tables come from schema.sql.
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}

	return nil
}

// Ensure makes the cache current for the given file source. When the
// stored fingerprint (path, size, mtime, fold flag) matches, Ensure is a
// cheap no-op; otherwise the words table is rebuilt from a full scan.
// Returns whether a rebuild happened, for logging.
func (c *Cache) Ensure(ctx context.Context, src FileSource, fold bool) (rebuilt bool, err error) {
	info, err := os.Stat(string(src))
	if err != nil {
		return false, fmt.Errorf("stat dictionary: %w", err)
	}

	current := map[string]string{
		metaSourcePath:  string(src),
		metaSourceSize:  strconv.FormatInt(info.Size(), 10),
		metaSourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
		metaFolded:      strconv.FormatBool(fold),
	}

	stored, err := c.readMeta(ctx)
	if err != nil {
		return false, err
	}

	if metaEqual(stored, current) {
		return false, nil
	}

	if err := c.rebuild(ctx, src, fold, current); err != nil {
		return false, err
	}
	return true, nil
}

// readMeta loads the stored fingerprint, or an empty map for a fresh cache.
func (c *Cache) readMeta(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan meta: %w", err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meta: %w", err)
	}
	return meta, nil
}

func metaEqual(stored, current map[string]string) bool {
	for k, v := range current {
		if stored[k] != v {
			return false
		}
	}
	return true
}

// rebuild replaces the words table with a fresh scan of src in a single
// transaction, then records the new fingerprint. A crash mid-rebuild
// leaves the previous contents intact.
func (c *Cache) rebuild(ctx context.Context, src FileSource, fold bool, meta map[string]string) error {
	r, err := src.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rebuild cache: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM words`); err != nil {
		return fmt.Errorf("rebuild cache: clear words: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO words (word, signature)
		VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("rebuild cache: prepare insert: %w", err)
	}
	defer insert.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if fold {
			line = cipher.Fold(line)
		}
		word := cipher.Normalize(line)
		if word == "" {
			continue
		}
		if _, err := insert.ExecContext(ctx, word, cipher.PatternOf(word).String()); err != nil {
			return fmt.Errorf("rebuild cache: insert %q: %w", word, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("rebuild cache: scan dictionary %s: %w", src.Name(), err)
	}

	for k, v := range meta {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meta (key, value)
			VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, v)
		if err != nil {
			return fmt.Errorf("rebuild cache: write meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rebuild cache: commit: %w", err)
	}
	return nil
}

// Index loads the buckets for the needed patterns from the cache. Bucket
// order reproduces dictionary file order via the insertion rowid, so a
// cache load and a direct BuildIndex over the same file agree exactly.
func (c *Cache) Index(ctx context.Context, need []cipher.Pattern) (*Index, error) {
	idx := &Index{buckets: make(map[cipher.Pattern][]string, len(need))}

	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&idx.scanned); err != nil {
		return nil, fmt.Errorf("count cached words: %w", err)
	}

	loaded := make(map[cipher.Pattern]bool, len(need))
	for _, p := range need {
		if p == "" || loaded[p] {
			continue
		}
		loaded[p] = true

		words, err := c.bucket(ctx, p)
		if err != nil {
			return nil, err
		}
		if len(words) > 0 {
			idx.buckets[p] = words
			idx.words += len(words)
		}
	}

	return idx, nil
}

// bucket returns the cached words for one signature in insertion order.
func (c *Cache) bucket(ctx context.Context, p cipher.Pattern) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT word FROM words
		WHERE signature = ?
		ORDER BY id ASC
	`, p.String())
	if err != nil {
		return nil, fmt.Errorf("query bucket %s: %w", p, err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan bucket %s: %w", p, err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bucket %s: %w", p, err)
	}
	return words, nil
}
