package datasource

import (
	"database/sql"
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type EnrichedColumnsTestSuite struct {
	suite.Suite
}

func TestEnrichedColumnsSuite(t *testing.T) {
	suite.Run(t, new(EnrichedColumnsTestSuite))
}

func null() sql.NullFloat64 {
	return sql.NullFloat64{}
}

func value(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func (suite *EnrichedColumnsTestSuite) TestAvailableKindsNeedEveryColumn() {
	kinds := availableEnrichedKinds(map[string]bool{"rsi_14": true, "bb_upper": true, "bb_middle": true, "stoch_k": true, "stoch_d": true})

	names := []types.IndicatorKind{}
	for _, k := range kinds {
		names = append(names, k.kind)
	}

	suite.Equal([]types.IndicatorKind{types.IndicatorRSI14, types.IndicatorStochastic}, names)
}

func (suite *EnrichedColumnsTestSuite) TestBuildFrameSkipsGappySeries() {
	kinds := availableEnrichedKinds(map[string]bool{"rsi_14": true, "atr": true})

	// kinds are in AllIndicatorKinds order: rsi_14 then atr
	rows := [][][]sql.NullFloat64{
		{{null()}, {value(1)}},
		{{value(40)}, {null()}},
		{{value(45)}, {value(2)}},
	}

	frame, skipped := buildFrame(3, kinds, rows)

	suite.True(frame.Has(types.IndicatorRSI14))
	suite.Equal(1, frame.Offset(types.IndicatorRSI14))
	suite.False(frame.Has(types.IndicatorATR))
	suite.Equal([]types.IndicatorKind{types.IndicatorATR}, skipped)
}

func (suite *EnrichedColumnsTestSuite) TestBuildFrameOmitsAllNullSeries() {
	kinds := availableEnrichedKinds(map[string]bool{"obv": true})
	rows := [][][]sql.NullFloat64{{{null()}}, {{null()}}}

	frame, skipped := buildFrame(2, kinds, rows)
	suite.False(frame.Has(types.IndicatorOBV))
	suite.Empty(skipped)
}
