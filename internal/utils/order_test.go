package utils

import (
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestCalculateMaxQuantity() {
	tests := []struct {
		name          string
		balance       float64
		price         float64
		spread        float64
		commissionFee commission_fee.CommissionFee
		expectedQty   float64
	}{
		{"Simple case with no commission", 1000.0, 100.0, 0, commission_fee.NewZeroCommissionFee(), 10},
		{"Commission reduces quantity", 1000.0, 100.0, 0, commission_fee.NewFlatCommissionFee(5), 9},
		{"Spread reduces quantity", 1000.0, 100.0, 0.01, commission_fee.NewZeroCommissionFee(), 9},
		{"Fractional result is floored", 1050.0, 100.0, 0, commission_fee.NewZeroCommissionFee(), 10},
		{"Zero balance", 0, 100.0, 0, commission_fee.NewZeroCommissionFee(), 0},
		{"Zero price", 1000.0, 0, 0, commission_fee.NewZeroCommissionFee(), 0},
		{"Price above balance", 50.0, 100.0, 0, commission_fee.NewZeroCommissionFee(), 0},
		{"Interactive broker minimum", 100.0, 10.0, 0, commission_fee.NewInteractiveBrokerCommissionFee(), 9},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			qty := CalculateMaxQuantity(tc.balance, tc.price, tc.spread, tc.commissionFee)
			suite.Equal(tc.expectedQty, qty)
			suite.LessOrEqual(OrderCost(qty, tc.price, tc.spread, tc.commissionFee), tc.balance+1e-9)
		})
	}
}

func (suite *UtilsTestSuite) TestCalculateOrderQuantityByPercentage() {
	zero := commission_fee.NewZeroCommissionFee()

	suite.Equal(100.0, CalculateOrderQuantityByPercentage(100000, 100, 0, zero, 0.10))
	suite.Equal(99.0, CalculateOrderQuantityByPercentage(100000, 101, 0, zero, 0.10))
	suite.Equal(0.0, CalculateOrderQuantityByPercentage(100000, 100, 0, zero, 0))
	suite.Equal(0.0, CalculateOrderQuantityByPercentage(500, 100, 0, zero, 0.10))
}

func (suite *UtilsTestSuite) TestOrderCostAndProceeds() {
	fee := commission_fee.NewFlatCommissionFee(2)

	suite.InDelta(1000+2+10, OrderCost(10, 100, 0.01, fee), 1e-9)
	suite.InDelta(1000-2-10, OrderProceeds(10, 100, 0.01, fee), 1e-9)
}

func (suite *UtilsTestSuite) TestRoundToDecimalPrecision() {
	suite.Equal(1.23, RoundToDecimalPrecision(1.239, 2))
	suite.Equal(1.0, RoundToDecimalPrecision(1.9, 0))
}
