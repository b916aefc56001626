package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SwingScanner/internal/backtest"
)

// SQLiteRecorder persists scan and backtest history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scanner writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			mode          TEXT,
			market_risk   TEXT,
			universe_size INTEGER,
			candidates    INTEGER,
			rejected      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS candidates (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         INTEGER NOT NULL,
			rank           INTEGER,
			symbol         TEXT NOT NULL,
			score          REAL,
			last_close     REAL,
			avg_dollar_vol REAL,
			atr            REAL,
			rsi14          REAL,
			trend          TEXT,
			notes          TEXT,
			daily_ok       INTEGER,
			weekly_ok      INTEGER,
			monthly_ok     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_run ON candidates(run_id)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			run_id      INTEGER,
			symbol      TEXT NOT NULL,
			side        TEXT,
			score       INTEGER,
			reasons     TEXT,
			setup       TEXT,
			grade       TEXT,
			entry       REAL,
			sl          REAL,
			tp          REAL,
			qty         REAL,
			rr          REAL,
			alerted     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtests (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			start_date    TEXT,
			end_date      TEXT,
			capital_start REAL,
			capital_end   REAL,
			net_pnl       REAL,
			trades        INTEGER,
			winrate       REAL,
			avg_r         REAL,
			max_drawdown  REAL,
			params        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtests_symbol ON backtests(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			backtest_id INTEGER NOT NULL,
			symbol      TEXT,
			entry_ts    TEXT,
			exit_ts     TEXT,
			entry       REAL,
			exit        REAL,
			qty         INTEGER,
			pnl         REAL,
			r_mult      REAL,
			outcome     TEXT,
			tp1_hit     INTEGER,
			trail_used  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_backtest ON trades(backtest_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(run *ScanRun) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rejected, err := json.Marshal(run.Rejected)
	if err != nil {
		return 0, fmt.Errorf("encode rejected: %w", err)
	}
	ts := run.StartedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO scan_runs
		(timestamp, mode, market_risk, universe_size, candidates, rejected)
		VALUES (?,?,?,?,?,?)`,
		ts.Unix(), run.Mode, run.MarketRisk, run.UniverseSize, len(run.Candidates), string(rejected),
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, c := range run.Candidates {
		if _, err := tx.Exec(`INSERT INTO candidates
			(run_id, rank, symbol, score, last_close, avg_dollar_vol, atr, rsi14, trend, notes,
			 daily_ok, weekly_ok, monthly_ok)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, i+1, c.Symbol, c.Score, c.LastClose, c.AvgDollarVol, c.ATR, c.RSI14, c.Trend, c.Notes,
			c.DailyOK, c.WeeklyOK, c.MonthlyOK,
		); err != nil {
			return 0, fmt.Errorf("insert candidate %s: %w", c.Symbol, err)
		}
	}
	return runID, tx.Commit()
}

func (r *SQLiteRecorder) RecordSignal(runID int64, evt *SignalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := evt.Plan
	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, run_id, symbol, side, score, reasons, setup, grade, entry, sl, tp, qty, rr, alerted)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), runID, evt.Symbol, string(evt.Side), evt.Score,
		strings.Join(evt.Reasons, "; "), p.Setup, p.Grade,
		p.Entry, p.SL, p.TP, p.Qty, p.RR, evt.Alerted,
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(res *backtest.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	params, err := json.Marshal(res.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	out, err := tx.Exec(`INSERT INTO backtests
		(timestamp, symbol, start_date, end_date, capital_start, capital_end, net_pnl,
		 trades, winrate, avg_r, max_drawdown, params)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.Symbol, res.Start, res.End,
		res.CapitalStart, res.CapitalEnd, res.NetPnL,
		res.Stats.Trades, res.Stats.WinRate, res.Stats.AvgR, res.Stats.MaxDrawdown,
		string(params),
	)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}

	for _, t := range res.Trades {
		if _, err := tx.Exec(`INSERT INTO trades
			(backtest_id, symbol, entry_ts, exit_ts, entry, exit, qty, pnl, r_mult, outcome, tp1_hit, trail_used)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			id, t.Symbol, t.EntryTime, t.ExitTime, t.Entry, t.Exit, t.Qty,
			t.PnL, t.RMultiple, string(t.Outcome), t.TP1Hit, t.TrailUsed,
		); err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
