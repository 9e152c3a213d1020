package main

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ArgsTestSuite struct {
	suite.Suite
}

func TestArgsSuite(t *testing.T) {
	suite.Run(t, new(ArgsTestSuite))
}

func (suite *ArgsTestSuite) TestParseArgs() {
	args, err := ParseArgs([]string{"rsi", "2024-01-01", "2024-12-31"})
	suite.Require().NoError(err)

	suite.Equal([]string{"rsi"}, args.Strategies)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), args.StartDate)
	suite.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), args.EndDate)
}

func (suite *ArgsTestSuite) TestParseArgsStrategyList() {
	args, err := ParseArgs([]string{"rsi, macd,,combined", "2024-01-01", "2024-02-01"})
	suite.Require().NoError(err)

	suite.Equal([]string{"rsi", "macd", "combined"}, args.Strategies)
}

func (suite *ArgsTestSuite) TestParseArgsErrors() {
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{name: "missing arguments", args: []string{"rsi"}, code: errors.ErrCodeMissingArgument},
		{name: "extra arguments", args: []string{"rsi", "2024-01-01", "2024-02-01", "x"}, code: errors.ErrCodeMissingArgument},
		{name: "empty strategy", args: []string{" , ", "2024-01-01", "2024-02-01"}, code: errors.ErrCodeInvalidArgument},
		{name: "bad start", args: []string{"rsi", "01/01/2024", "2024-02-01"}, code: errors.ErrCodeInvalidArgument},
		{name: "bad end", args: []string{"rsi", "2024-01-01", "2024-02-30"}, code: errors.ErrCodeInvalidArgument},
		{name: "datetime rejected", args: []string{"rsi", "2024-01-01T00:00:00Z", "2024-02-01"}, code: errors.ErrCodeInvalidArgument},
		{name: "reversed range", args: []string{"rsi", "2024-02-01", "2024-01-01"}, code: errors.ErrCodeInvalidDateRange},
		{name: "empty range", args: []string{"rsi", "2024-01-01", "2024-01-01"}, code: errors.ErrCodeInvalidDateRange},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ParseArgs(tc.args)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func (suite *ArgsTestSuite) TestParsePeriod() {
	start, end, err := ParsePeriod(nil)
	suite.Require().NoError(err)
	suite.True(start.IsZero())
	suite.Equal(9999, end.Year())

	start, end, err = ParsePeriod([]string{"2024-01-01", "2024-06-30"})
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	suite.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), end)

	_, _, err = ParsePeriod([]string{"2024-01-01"})
	suite.True(errors.HasCode(err, errors.ErrCodeMissingArgument))

	_, _, err = ParsePeriod([]string{"2024-06-30", "2024-01-01"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
}
