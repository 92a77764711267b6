package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/normalize"
)

// FileName is the name of the database file inside the data directory.
const FileName = "checklinks.db"

// timestampLayout is fixed width so that text ordering matches time ordering.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// HistoryDB provides SQLite-based storage for evaluation results.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		host TEXT NOT NULL,
		evaluated_at TEXT NOT NULL,
		score REAL NOT NULL,
		level TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_url ON evaluations(url);
	CREATE INDEX IF NOT EXISTS idx_evaluations_host ON evaluations(host);
	CREATE INDEX IF NOT EXISTS idx_evaluations_time ON evaluations(evaluated_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveEvaluation appends result to the history and returns its row ID.
func (hdb *HistoryDB) SaveEvaluation(ctx context.Context, result *model.EvaluationResult) (int64, error) {
	return saveEvaluation(ctx, hdb.db, result)
}

// SaveEvaluations appends every result in one transaction.
func (hdb *HistoryDB) SaveEvaluations(ctx context.Context, results []*model.EvaluationResult) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, r := range results {
		if _, err := saveEvaluation(ctx, tx, r); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit evaluations: %w", err)
	}
	return nil
}

func saveEvaluation(ctx context.Context, db execer, result *model.EvaluationResult) (int64, error) {
	if result == nil {
		return 0, errors.New("nil evaluation result")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize evaluation: %w", err)
	}

	query := `
	INSERT INTO evaluations (url, host, evaluated_at, score, level, result_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := db.ExecContext(ctx, query,
		result.URL,
		normalize.Host(result.URL),
		result.Timestamp.UTC().Format(timestampLayout),
		result.Score,
		result.Level.String(),
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save evaluation: %w", err)
	}

	return res.LastInsertId()
}

// LatestEvaluation returns the most recent evaluation of url, or nil when
// the URL was never saved.
func (hdb *HistoryDB) LatestEvaluation(ctx context.Context, url string) (*model.EvaluationResult, error) {
	query := `
	SELECT result_json FROM evaluations
	WHERE url = ?
	ORDER BY evaluated_at DESC, id DESC
	LIMIT 1
	`
	return hdb.queryResult(ctx, query, url)
}

// EvaluationByID returns the evaluation stored under id, or nil.
func (hdb *HistoryDB) EvaluationByID(ctx context.Context, id int64) (*model.EvaluationResult, error) {
	query := `
	SELECT result_json FROM evaluations
	WHERE id = ?
	`
	return hdb.queryResult(ctx, query, id)
}

func (hdb *HistoryDB) queryResult(ctx context.Context, query string, arg any) (*model.EvaluationResult, error) {
	var resultJSON string
	err := hdb.db.QueryRowContext(ctx, query, arg).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	var result model.EvaluationResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}
	return &result, nil
}

// EvaluationRecord summarizes one stored evaluation without decoding the
// full result.
type EvaluationRecord struct {
	// ID is the unique identifier of the evaluation in the database.
	ID int64

	// URL is the evaluated URL.
	URL string

	// Timestamp is when the evaluation finished.
	Timestamp time.Time

	// Score is the trust score.
	Score float64

	// Level is the trust level.
	Level model.TrustLevel
}

// History returns every stored evaluation of url, newest first.
func (hdb *HistoryDB) History(ctx context.Context, url string) ([]EvaluationRecord, error) {
	query := `
	SELECT id, url, evaluated_at, score, level
	FROM evaluations
	WHERE url = ?
	ORDER BY evaluated_at DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		var rec EvaluationRecord
		var timestamp, level string

		if err := rows.Scan(&rec.ID, &rec.URL, &timestamp, &rec.Score, &level); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}

		rec.Timestamp = parseTimestamp(timestamp)
		parsed, err := model.ParseTrustLevel(level)
		if err != nil {
			return nil, fmt.Errorf("evaluation %d: %w", rec.ID, err)
		}
		rec.Level = parsed
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListEvaluatedURLs returns every URL with at least one stored evaluation.
func (hdb *HistoryDB) ListEvaluatedURLs(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT url FROM evaluations
	ORDER BY url
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// PurgeBefore deletes evaluations older than t and returns how many were removed.
func (hdb *HistoryDB) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := hdb.db.ExecContext(ctx,
		`DELETE FROM evaluations WHERE evaluated_at < ?`,
		t.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge evaluations: %w", err)
	}
	return res.RowsAffected()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
