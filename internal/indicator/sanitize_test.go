package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type SanitizeTestSuite struct {
	suite.Suite
}

func TestSanitizeSuite(t *testing.T) {
	suite.Run(t, new(SanitizeTestSuite))
}

func (suite *SanitizeTestSuite) TestDropsMalformedBars() {
	tests := []struct {
		name   string
		mutate func(b *types.Bar)
	}{
		{"nan close", func(b *types.Bar) { b.Close = math.NaN() }},
		{"nan volume", func(b *types.Bar) { b.Volume = math.NaN() }},
		{"zero close", func(b *types.Bar) { b.Close = 0 }},
		{"negative low", func(b *types.Bar) { b.Low = -1 }},
		{"zero high", func(b *types.Bar) { b.High = 0 }},
		{"high below close", func(b *types.Bar) { b.High = b.Close - 1 }},
		{"low above close", func(b *types.Bar) { b.Low = b.Close + 1 }},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			bars := barsFromCloses(10, 11, 12)
			tc.mutate(&bars[1])

			clean := Sanitize(bars, logger.NewNopLogger())
			suite.Len(clean, 2)
			suite.Equal(10.0, clean[0].Close)
			suite.Equal(12.0, clean[1].Close)
		})
	}
}

func (suite *SanitizeTestSuite) TestDoesNotMutateInput() {
	bars := barsFromCloses(10, 11, 12)
	bars[0], bars[2] = bars[2], bars[0]
	bars[1].Close = 0
	snapshot := types.CloneBars(bars)

	clean := Sanitize(bars, logger.NewNopLogger())

	suite.Equal(snapshot, bars)
	suite.Len(clean, 2)
	suite.True(clean[0].Time.Before(clean[1].Time))
}

func (suite *SanitizeTestSuite) TestDropsDuplicateTimestamps() {
	bars := barsFromCloses(10, 11, 12)
	bars[2].Time = bars[1].Time

	clean := Sanitize(bars, logger.NewNopLogger())
	suite.Len(clean, 2)
	suite.Equal(11.0, clean[1].Close)
}
