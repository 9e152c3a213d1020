package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

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

type DuckDBDataSource struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	columns map[string]bool
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// Use ":memory:" for an in-memory database.
// This is distinct from Initialize() which loads market data into the database.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to connect to duckdb", err)
	}

	return &DuckDBDataSource{
		db:      db,
		logger:  logger,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		columns: map[string]bool{},
	}, nil
}

// Initialize implements DataSource. It creates the market_data view over a
// parquet or csv file. Globs are passed through to DuckDB.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	// First drop the view if it exists
	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		reader = "read_csv_auto"
	}

	// squirrel has no CREATE VIEW support; path is quoted for the SQL string literal
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s('%s');`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to load market data from %s", path)
	}

	columns, err := d.describe()
	if err != nil {
		return err
	}

	for _, required := range barColumns {
		if !columns[required] {
			return errors.Newf(errors.ErrCodeMalformedBar, "market data in %s has no %s column", path, required)
		}
	}

	d.columns = columns

	return nil
}

// GetAllSymbols implements DataSource.
func (d *DuckDBDataSource) GetAllSymbols(ctx context.Context) ([]string, error) {
	query, args, err := d.sq.
		Select("symbol").
		Distinct().
		From("market_data").
		OrderBy("symbol").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// GetRange implements DataSource. Rows sharing a timestamp are collapsed to
// one. When the view carries indicator columns they are returned as a Frame.
func (d *DuckDBDataSource) GetRange(ctx context.Context, symbol string, start time.Time, end time.Time) (BarSeries, error) {
	kinds := availableEnrichedKinds(d.columns)

	selectColumns := append([]string{}, barColumns...)
	for _, ek := range kinds {
		selectColumns = append(selectColumns, ek.columns...)
	}

	query, args, err := d.sq.
		Select(selectColumns...).
		Options("DISTINCT ON (time)").
		From("market_data").
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbol},
			squirrel.GtOrEq{"time": start},
			squirrel.LtOrEq{"time": end},
		}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return BarSeries{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query bars for %s", symbol)
	}
	defer rows.Close()

	var (
		bars     []types.Bar
		enriched [][][]sql.NullFloat64
	)

	for rows.Next() {
		var bar types.Bar

		dest := []any{&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume}

		row := make([][]sql.NullFloat64, len(kinds))
		for k, ek := range kinds {
			row[k] = make([]sql.NullFloat64, len(ek.columns))
			for c := range row[k] {
				dest = append(dest, &row[k][c])
			}
		}

		if err := rows.Scan(dest...); err != nil {
			return BarSeries{}, errors.Wrapf(errors.ErrCodeMalformedBar, err, "failed to scan bar for %s", symbol)
		}

		bars = append(bars, bar)
		enriched = append(enriched, row)
	}

	if err = rows.Err(); err != nil {
		return BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	if len(bars) == 0 {
		return BarSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no bars for %s between %s and %s",
			symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	series := BarSeries{Symbol: symbol, Bars: bars, Frame: optional.None[indicator.Frame]()}

	if len(kinds) > 0 {
		frame, skipped := buildFrame(len(bars), kinds, enriched)
		for _, kind := range skipped {
			d.logger.Warn("Ignoring persisted indicator with gaps",
				zap.String("symbol", symbol),
				zap.String("indicator", string(kind)),
			)
		}

		series.Frame = optional.Some(frame)
	}

	return series, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

func (d *DuckDBDataSource) describe() (map[string]bool, error) {
	rows, err := d.db.Query(`SELECT column_name FROM (DESCRIBE market_data)`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe market data", err)
	}
	defer rows.Close()

	columns := map[string]bool{}

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column name", err)
		}

		columns[strings.ToLower(name)] = true
	}

	return columns, rows.Err()
}
