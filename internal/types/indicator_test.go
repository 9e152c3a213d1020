package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestColumnsMatchFields() {
	values := map[IndicatorKind]IndicatorValue{
		IndicatorRSI14:      ScalarValue(55),
		IndicatorMACD:       MACDTuple(1.5, 1),
		IndicatorBollinger:  BandsTuple(110, 100, 90),
		IndicatorStochastic: StochasticTuple(80, 75),
	}

	for kind, value := range values {
		suite.Equal(kind.Shape(), value.Shape, kind)
		suite.Len(value.Fields(), len(kind.Columns()), kind)
	}

	suite.Equal([]string{"rsi_14"}, IndicatorRSI14.Columns())
	suite.Equal([]string{"macd", "macd_signal"}, IndicatorMACD.Columns())
	suite.Equal([]float64{1.5, 1}, values[IndicatorMACD].Fields())
	suite.Equal([]float64{1.5, 1, 0.5}, values[IndicatorMACD].Floats())
}

func (suite *IndicatorTestSuite) TestColumnsAreUnique() {
	seen := map[string]IndicatorKind{}

	for _, kind := range AllIndicatorKinds {
		for _, column := range kind.Columns() {
			other, dup := seen[column]
			suite.False(dup, "%s used by %s and %s", column, kind, other)
			seen[column] = kind
		}
	}
}
