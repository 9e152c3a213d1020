package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

// ResultStoreTestSuite is a test suite for ResultStore
type ResultStoreTestSuite struct {
	suite.Suite
	store  *ResultStore
	logger *logger.Logger
}

func TestResultStoreSuite(t *testing.T) {
	suite.Run(t, new(ResultStoreTestSuite))
}

// SetupSuite runs once before all tests in the suite
func (suite *ResultStoreTestSuite) SetupSuite() {
	suite.logger = logger.NewNopLogger()

	store, err := NewResultStore(suite.logger)
	suite.Require().NoError(err)
	suite.store = store
}

// TearDownSuite runs once after all tests in the suite
func (suite *ResultStoreTestSuite) TearDownSuite() {
	if suite.store != nil {
		suite.store.Close()
	}
}

// SetupTest runs before each test
func (suite *ResultStoreTestSuite) SetupTest() {
	suite.Require().NoError(suite.store.Cleanup())
}

func sampleTrades() []types.Trade {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	return []types.Trade{
		{
			Symbol: "MSFT", Quantity: 5, EntryPrice: 300, ExitPrice: 330,
			EntryDate: day(2), ExitDate: day(9), HoldingPeriodDays: 7,
			ReturnFraction: 0.1, ExitReason: string(types.SignalRSIOverbought), Fees: 2,
		},
		{
			Symbol: "AAPL", Quantity: 10, EntryPrice: 100, ExitPrice: 94,
			EntryDate: day(3), ExitDate: day(9), HoldingPeriodDays: 6,
			ReturnFraction: -0.06, ExitReason: types.ExitReasonStopLoss, Fees: 1,
		},
		{
			Symbol: "AAPL", Quantity: 10, EntryPrice: 94, ExitPrice: 96,
			EntryDate: day(10), ExitDate: day(20), HoldingPeriodDays: 10,
			ReturnFraction: 2.0 / 94, ExitReason: types.ExitReasonEndOfBacktest,
		},
	}
}

func (suite *ResultStoreTestSuite) TestRecordAndGetTrades() {
	suite.Require().NoError(suite.store.RecordTrades("run-1", "rsi", sampleTrades()))

	trades, err := suite.store.GetTrades()
	suite.Require().NoError(err)
	suite.Require().Len(trades, 3)

	// exit date then symbol
	suite.Equal("AAPL", trades[0].Symbol)
	suite.Equal("MSFT", trades[1].Symbol)
	suite.Equal(types.ExitReasonEndOfBacktest, trades[2].ExitReason)
	suite.Equal(7, trades[1].HoldingPeriodDays)
	suite.True(trades[0].ExitDate.Equal(time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)))
	suite.InDelta(-0.06, trades[0].ReturnFraction, 1e-12)
}

func (suite *ResultStoreTestSuite) TestRecordAndGetSignals() {
	at := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	signals := []types.Signal{
		{Type: types.SignalMACDBearish, Action: types.ActionSell, Strength: 0.4, Time: at.AddDate(0, 0, 1), Symbol: "AAPL", Description: "MACD crossed below signal line"},
		{Type: types.SignalRSIOversold, Action: types.ActionBuy, Strength: 0.2, Time: at, Symbol: "AAPL", Description: "RSI oversold at 24.00"},
	}

	suite.Require().NoError(suite.store.RecordSignals("run-1", "combined", signals))

	got, err := suite.store.GetSignals()
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)

	suite.Equal(types.SignalRSIOversold, got[0].Type)
	suite.Equal(types.ActionBuy, got[0].Action)
	suite.Equal(types.SignalMACDBearish, got[1].Type)
	suite.InDelta(0.4, got[1].Strength, 1e-12)
}

func (suite *ResultStoreTestSuite) TestCleanupEmptiesTables() {
	suite.Require().NoError(suite.store.RecordTrades("run-1", "rsi", sampleTrades()))
	suite.Require().NoError(suite.store.Cleanup())

	trades, err := suite.store.GetTrades()
	suite.Require().NoError(err)
	suite.Empty(trades)
}

func (suite *ResultStoreTestSuite) TestWrite() {
	suite.Require().NoError(suite.store.RecordTrades("run-1", "rsi", sampleTrades()))
	suite.Require().NoError(suite.store.RecordSignals("run-1", "rsi", []types.Signal{
		{Type: types.SignalRSIOversold, Action: types.ActionBuy, Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Symbol: "MSFT"},
	}))

	dir := filepath.Join(suite.T().TempDir(), "rsi", "20240101_20241231")
	results := []types.BacktestResult{
		{ID: "run-1", StrategyName: "rsi", Scope: "AAPL", TotalTrades: 0},
		{ID: "run-1", StrategyName: "rsi", Scope: types.ScopeOverall, TotalTrades: 0},
	}

	suite.Require().NoError(suite.store.Write(dir, results))

	for _, name := range []string{"stats.yaml", "trades.parquet", "signals.parquet"} {
		_, err := os.Stat(filepath.Join(dir, name))
		suite.NoError(err, name)
	}

	written, err := types.ReadResults(filepath.Join(dir, "stats.yaml"))
	suite.Require().NoError(err)
	suite.Len(written, 2)
	suite.True(written[1].IsOverall())

	// the parquet export is readable and complete
	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	err = db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM read_parquet('%s')`, filepath.Join(dir, "trades.parquet"))).Scan(&count)
	suite.Require().NoError(err)
	suite.Equal(3, count)
}

func (suite *ResultStoreTestSuite) TestNilStore() {
	var store *ResultStore

	suite.Error(store.RecordTrades("run", "rsi", nil))
	suite.Error(store.Cleanup())
	suite.NoError(store.Close())
}
