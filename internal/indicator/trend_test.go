package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type TrendTestSuite struct {
	suite.Suite
}

func TestTrendSuite(t *testing.T) {
	suite.Run(t, new(TrendTestSuite))
}

func (suite *TrendTestSuite) TestBollingerBandsConstantPrice() {
	series, err := NewBollingerBands(20, 2).Compute(barsFromCloses(constantCloses(25, 30)...))
	suite.Require().NoError(err)
	suite.Equal(6, series.Len())

	for _, v := range series.Values {
		suite.InDelta(30.0, v.Bands.Upper, 1e-9)
		suite.InDelta(30.0, v.Bands.Middle, 1e-9)
		suite.InDelta(30.0, v.Bands.Lower, 1e-9)
	}
}

func (suite *TrendTestSuite) TestBollingerBandsPopulationStdDev() {
	// closes 1..4, mean 2.5, population variance 1.25
	series, err := NewBollingerBands(4, 2).Compute(barsFromCloses(1, 2, 3, 4))
	suite.Require().NoError(err)
	suite.Equal(1, series.Len())

	b := series.Values[0].Bands
	suite.InDelta(2.5, b.Middle, 1e-12)
	suite.InDelta(2.5+2*1.118033988749895, b.Upper, 1e-9)
	suite.InDelta(2.5-2*1.118033988749895, b.Lower, 1e-9)
}

func (suite *TrendTestSuite) TestATRConstantRange() {
	bars := make([]types.Bar, 20)
	for i := range bars {
		bars[i] = types.Bar{Time: testStart.AddDate(0, 0, i), High: 11, Low: 9, Close: 10, Volume: 1}
	}

	series, err := NewATR(14).Compute(bars)
	suite.Require().NoError(err)
	suite.Equal(6, series.Len())

	for _, v := range series.Values {
		suite.InDelta(2.0, v.Scalar, 1e-12)
	}
}

func (suite *TrendTestSuite) TestADXStrongTrend() {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 2*float64(i)
	}

	series, err := NewADX(14).Compute(barsFromCloses(closes...))
	suite.Require().NoError(err)
	suite.Equal(40-28+1, series.Len())
	// only +DM is ever positive, so DX is 100 on every bar
	suite.InDelta(100.0, series.Values[series.Len()-1].Scalar, 1e-9)

	_, err = NewADX(14).Compute(barsFromCloses(closes[:27]...))
	suite.Error(err)
}

func (suite *TrendTestSuite) TestParabolicSARStaysBelowRisingLows() {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50 + float64(i)
	}

	bars := barsFromCloses(closes...)

	series, err := NewParabolicSAR(0.02, 0.2).Compute(bars)
	suite.Require().NoError(err)
	suite.Equal(len(bars), series.Len())

	for i, v := range series.Values {
		suite.LessOrEqual(v.Scalar, bars[i].Low, "bar %d", i)
	}
}

func (suite *TrendTestSuite) TestParabolicSARReversal() {
	closes := []float64{50, 52, 54, 56, 58, 40, 38, 36}
	bars := barsFromCloses(closes...)

	series, err := NewParabolicSAR(0.02, 0.2).Compute(bars)
	suite.Require().NoError(err)

	// after the crash the SAR flips above price
	suite.Greater(series.Values[len(bars)-1].Scalar, bars[len(bars)-1].High)
}

func (suite *TrendTestSuite) TestParabolicSARInvalidParameters() {
	_, err := NewParabolicSAR(0, 0.2).Compute(barsFromCloses(1, 2, 3))
	suite.Error(err)
}
