package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestGetResultFolder() {
	config := TestConfig(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		commission_fee.BrokerZero,
	)

	tests := []struct {
		name     string
		strategy string
		expected string
	}{
		{name: "plain name", strategy: "rsi", expected: filepath.Join("results", "rsi", "20240101_20241231")},
		{name: "spaces and slashes", strategy: "my rsi/v2", expected: filepath.Join("results", "my_rsi_v2", "20240101_20241231")},
		{name: "empty name", strategy: " ", expected: filepath.Join("results", "unnamed", "20240101_20241231")},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, getResultFolder("results", tc.strategy, config))
		})
	}
}
