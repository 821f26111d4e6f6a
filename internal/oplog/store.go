package oplog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	message TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	direction TEXT NOT NULL,
	pair TEXT NOT NULL,
	tx_hash TEXT NOT NULL,
	profit_estimate REAL NOT NULL,
	profit_realized TEXT
);

CREATE INDEX IF NOT EXISTS idx_opportunities_id ON opportunities(id);
`

// Record is one persisted opportunity line.
type Record struct {
	ID        int64
	Timestamp string
	Message   string
}

// Trade is one successfully submitted flash-loan transaction.
type Trade struct {
	ID             int64
	Timestamp      string
	Direction      string
	Pair           string
	TxHash         string
	ProfitEstimate float64
	ProfitRealized string
}

// Store persists opportunity and trade records in sqlite.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("initialise schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) AppendOpportunity(message string) error {
	_, err := s.db.Exec(
		"INSERT INTO opportunities (ts, message) VALUES (?, ?)",
		time.Now().UTC().Format(stampLayout), message,
	)
	return err
}

// Recent returns up to limit of the most recent opportunity records, oldest
// first, matching the read surface's ordered-list contract.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		"SELECT id, ts, message FROM (SELECT id, ts, message FROM opportunities ORDER BY id DESC LIMIT ?) ORDER BY id ASC",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Message); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) AppendTrade(t Trade) error {
	ts := t.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(stampLayout)
	}
	_, err := s.db.Exec(
		"INSERT INTO trades (ts, direction, pair, tx_hash, profit_estimate, profit_realized) VALUES (?, ?, ?, ?, ?, ?)",
		ts, t.Direction, t.Pair, t.TxHash, t.ProfitEstimate, t.ProfitRealized,
	)
	return err
}

// SetTradeRealized backfills the realized profit once the receipt's
// ArbitrageExecuted event has been decoded.
func (s *Store) SetTradeRealized(txHash, profit string) error {
	_, err := s.db.Exec(
		"UPDATE trades SET profit_realized = ? WHERE tx_hash = ?",
		profit, txHash,
	)
	return err
}

func (s *Store) Trades(limit int) ([]Trade, error) {
	rows, err := s.db.Query(
		"SELECT id, ts, direction, pair, tx_hash, profit_estimate, COALESCE(profit_realized, '') FROM trades ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	out := make([]Trade, 0, limit)
	for rows.Next() {
		var t Trade
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Direction, &t.Pair, &t.TxHash, &t.ProfitEstimate, &t.ProfitRealized); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AllOpportunities streams every stored record in insertion order, for the
// parquet exporter.
func (s *Store) AllOpportunities(fn func(Record) error) error {
	rows, err := s.db.Query("SELECT id, ts, message FROM opportunities ORDER BY id ASC")
	if err != nil {
		return fmt.Errorf("query opportunities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Message); err != nil {
			return fmt.Errorf("scan record: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}
