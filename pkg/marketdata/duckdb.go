package marketdata

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

var barColumns = []string{"time", "symbol", "open", "high", "low", "close", "volume"}

// DuckDBWriter stages rows in an in-memory DuckDB table and exports them to
// Parquet, or to CSV when the output path ends in .csv.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	kinds      []types.IndicatorKind
	log        *logger.Logger
}

// NewDuckDBWriter creates a writer for outputPath. Each kind in kinds gets
// its columns in the output, NULL where the indicator has no value yet.
func NewDuckDBWriter(outputPath string, kinds []types.IndicatorKind, log *logger.Logger) Writer {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBWriter{
		outputPath: outputPath,
		kinds:      kinds,
		log:        log,
	}
}

func (w *DuckDBWriter) columns() []string {
	columns := append([]string{}, barColumns...)
	for _, kind := range w.kinds {
		columns = append(columns, kind.Columns()...)
	}

	return columns
}

// Initialize opens the database, creates the staging table, begins a
// transaction and prepares the insert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to open DuckDB connection", err)
	}

	columns := w.columns()

	definitions := make([]string, len(columns))
	for i, column := range columns {
		switch column {
		case "time":
			definitions[i] = "time TIMESTAMP"
		case "symbol":
			definitions[i] = "symbol TEXT"
		default:
			definitions[i] = column + " DOUBLE"
		}
	}

	// squirrel has no CREATE TABLE support
	if _, err = w.db.Exec(fmt.Sprintf("CREATE TABLE market_data (%s)", strings.Join(definitions, ", "))); err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to begin transaction", err)
	}

	query, _, err := squirrel.Insert("market_data").
		Columns(columns...).
		Values(make([]any, len(columns))...).
		ToSql()
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to build insert", err)
	}

	w.stmt, err = w.tx.Prepare(query)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to prepare statement", err)
	}

	return nil
}

// Write stages the bars of symbol within the open transaction.
func (w *DuckDBWriter) Write(symbol string, bars []types.Bar, frame optional.Option[indicator.Frame]) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeDataWriteFailed, "writer not initialized")
	}

	for i, bar := range bars {
		args := []any{bar.Time, symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume}

		for _, kind := range w.kinds {
			args = append(args, indicatorArgs(frame, kind, i)...)
		}

		if _, err := w.stmt.Exec(args...); err != nil {
			return errors.Wrapf(errors.ErrCodeDataWriteFailed, err, "failed to insert %s bar at %s", symbol, bar.Time)
		}
	}

	w.log.Debug("Staged bars",
		zap.String("symbol", symbol),
		zap.Int("bars", len(bars)),
		zap.Bool("indicators", frame.IsSome()),
	)

	return nil
}

// indicatorArgs returns the column values of kind at bar i, NULL when absent.
func indicatorArgs(frame optional.Option[indicator.Frame], kind types.IndicatorKind, i int) []any {
	args := make([]any, len(kind.Columns()))

	if frame.IsNone() {
		return args
	}

	value := frame.Unwrap().At(kind, i)
	if value.IsNone() {
		return args
	}

	for j, field := range value.Unwrap().Fields() {
		args[j] = field
	}

	return args
}

// Finalize commits the transaction and exports the table ordered by symbol
// and time.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeDataWriteFailed, "writer not initialized")
	}

	if err = w.stmt.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to close statement", err)
	}

	w.stmt = nil

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	format := "FORMAT PARQUET"
	if strings.EqualFold(filepath.Ext(w.outputPath), ".csv") {
		format = "FORMAT CSV, HEADER"
	}

	query := fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY symbol, time) TO '%s' (%s)`,
		strings.ReplaceAll(w.outputPath, "'", "''"), format)

	if _, err = w.db.Exec(query); err != nil {
		return "", errors.Wrapf(errors.ErrCodeDataWriteFailed, err, "failed to export %s", w.outputPath)
	}

	w.log.Info("Exported market data", zap.String("path", w.outputPath))

	return w.outputPath, nil
}

// Close releases the statement, transaction and connection. It is safe to
// call more than once.
func (w *DuckDBWriter) Close() error {
	var firstErr error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			firstErr = errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to close statement", err)
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.log.Warn("Failed to roll back transaction during close", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to close db connection", err)
		}

		w.db = nil
	}

	return firstErr
}

// GetOutputPath returns the configured output file path.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}
