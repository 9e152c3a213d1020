package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// ResultStore records the trades and signals of one strategy run in an
// in-memory DuckDB database and exports them next to the summary statistics.
type ResultStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewResultStore creates a new instance of ResultStore.
func NewResultStore(logger *logger.Logger) (*ResultStore, error) {
	// Create an in-memory DuckDB database
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))

		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection to ensure database is properly initialized
	if err := db.Ping(); err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &ResultStore{
		logger: logger,
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := store.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

// RecordTrades stores closed trades of a run.
func (r *ResultStore) RecordTrades(runID string, strategyName string, trades []types.Trade) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("result store or database is nil")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, t := range trades {
		_, err := r.sq.
			Insert("trades").
			Columns(
				"run_id", "strategy_name", "symbol", "quantity", "entry_price", "exit_price",
				"entry_date", "exit_date", "holding_period_days", "return_fraction", "exit_reason", "fees", "net_pnl",
			).
			Values(
				runID, strategyName, t.Symbol, t.Quantity, t.EntryPrice, t.ExitPrice,
				t.EntryDate, t.ExitDate, t.HoldingPeriodDays, t.ReturnFraction, t.ExitReason, t.Fees, t.NetPnL(),
			).
			RunWith(tx).
			Exec()
		if err != nil {
			tx.Rollback()

			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trades: %w", err)
	}

	return nil
}

// RecordSignals stores the signals that fired during a run.
func (r *ResultStore) RecordSignals(runID string, strategyName string, signals []types.Signal) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("result store or database is nil")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, s := range signals {
		_, err := r.sq.
			Insert("signals").
			Columns("run_id", "strategy_name", "symbol", "time", "type", "action", "strength", "description").
			Values(runID, strategyName, s.Symbol, s.Time, string(s.Type), string(s.Action), s.Strength, s.Description).
			RunWith(tx).
			Exec()
		if err != nil {
			tx.Rollback()

			return fmt.Errorf("failed to insert signal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit signals: %w", err)
	}

	return nil
}

// GetTrades returns every recorded trade ordered by exit date then symbol.
func (r *ResultStore) GetTrades() ([]types.Trade, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("result store or database is nil")
	}

	rows, err := r.sq.
		Select("symbol", "quantity", "entry_price", "exit_price", "entry_date", "exit_date",
			"holding_period_days", "return_fraction", "exit_reason", "fees").
		From("trades").
		OrderBy("exit_date ASC", "symbol ASC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []types.Trade

	for rows.Next() {
		var t types.Trade

		err := rows.Scan(
			&t.Symbol, &t.Quantity, &t.EntryPrice, &t.ExitPrice, &t.EntryDate, &t.ExitDate,
			&t.HoldingPeriodDays, &t.ReturnFraction, &t.ExitReason, &t.Fees,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// GetSignals returns every recorded signal ordered by time then symbol.
func (r *ResultStore) GetSignals() ([]types.Signal, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("result store or database is nil")
	}

	rows, err := r.sq.
		Select("symbol", "time", "type", "action", "strength", "description").
		From("signals").
		OrderBy("time ASC", "symbol ASC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []types.Signal

	for rows.Next() {
		var (
			s          types.Signal
			signalType string
			action     string
		)

		if err := rows.Scan(&s.Symbol, &s.Time, &signalType, &action, &s.Strength, &s.Description); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}

		s.Type = types.SignalType(signalType)
		s.Action = types.Action(action)
		signals = append(signals, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signals: %w", err)
	}

	return signals, nil
}

// Write saves stats.yaml plus the trades and signals as Parquet files in path.
func (r *ResultStore) Write(path string, results []types.BacktestResult) error {
	if r == nil || r.db == nil || r.logger == nil {
		return fmt.Errorf("result store, database, or logger is nil")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to create directory %s", path)
	}

	statsPath := filepath.Join(path, "stats.yaml")
	if err := types.WriteResults(statsPath, results); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write stats", err)
	}

	tradesPath := filepath.Join(path, "trades.parquet")
	signalsPath := filepath.Join(path, "signals.parquet")

	for table, target := range map[string]string{"trades": tradesPath, "signals": signalsPath} {
		query := fmt.Sprintf(`COPY (SELECT * FROM %s) TO '%s' (FORMAT PARQUET)`, table, escapeSQLString(target))
		if _, err := r.db.Exec(query); err != nil {
			return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to export %s to Parquet", table)
		}
	}

	r.logger.Info("Successfully exported results",
		zap.String("stats", statsPath),
		zap.String("trades", tradesPath),
		zap.String("signals", signalsPath),
	)

	return nil
}

// Cleanup resets the database state.
func (r *ResultStore) Cleanup() error {
	if r == nil || r.db == nil {
		return fmt.Errorf("result store or database is nil")
	}

	_, err := r.db.Exec(`
		DROP TABLE IF EXISTS trades;
		DROP TABLE IF EXISTS signals;
	`)
	if err != nil {
		return fmt.Errorf("failed to cleanup result tables: %w", err)
	}

	return r.initialize()
}

// Close closes the database connection.
func (r *ResultStore) Close() error {
	if r == nil || r.db == nil {
		return nil
	}

	return r.db.Close()
}

// initialize creates the necessary tables for storing results.
func (r *ResultStore) initialize() error {
	if r == nil || r.db == nil {
		return fmt.Errorf("result store or database is nil")
	}

	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT,
			strategy_name TEXT,
			symbol TEXT,
			quantity DOUBLE,
			entry_price DOUBLE,
			exit_price DOUBLE,
			entry_date TIMESTAMP,
			exit_date TIMESTAMP,
			holding_period_days INTEGER,
			return_fraction DOUBLE,
			exit_reason TEXT,
			fees DOUBLE,
			net_pnl DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create trades table: %w", err)
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS signals (
			run_id TEXT,
			strategy_name TEXT,
			symbol TEXT,
			time TIMESTAMP,
			type TEXT,
			action TEXT,
			strength DOUBLE,
			description TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create signals table: %w", err)
	}

	return nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
