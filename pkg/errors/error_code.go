package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidCapital       ErrorCode = 102
	ErrCodeInvalidDateRange     ErrorCode = 103
	ErrCodeInvalidStopLoss      ErrorCode = 104
	ErrCodeInvalidTakeProfit    ErrorCode = 105
	ErrCodeInvalidPositionSize  ErrorCode = 106
	ErrCodeInvalidPeriod        ErrorCode = 107
	ErrCodeInvalidVersion       ErrorCode = 108

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 203
	ErrCodeMalformedBar          ErrorCode = 204
	ErrCodeInsufficientData      ErrorCode = 205
	ErrCodeDataWriteFailed       ErrorCode = 206

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeUnknownStrategy     ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401
	ErrCodeVersionMismatch     ErrorCode = 402

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError ErrorCode = 600
	ErrCodeBacktestNoSeries    ErrorCode = 601
	ErrCodeBacktestCancelled   ErrorCode = 602
	ErrCodeBacktestWriteFailed ErrorCode = 603
	ErrCodeBacktestInvariant   ErrorCode = 604

	// CLI errors (900-999)
	ErrCodeInvalidArgument ErrorCode = 900
	ErrCodeMissingArgument ErrorCode = 901
)

// configurationCodes are the codes surfaced before any simulation work begins.
var configurationCodes = map[ErrorCode]struct{}{
	ErrCodeInvalidConfiguration: {},
	ErrCodeInvalidCapital:       {},
	ErrCodeInvalidDateRange:     {},
	ErrCodeInvalidStopLoss:      {},
	ErrCodeInvalidTakeProfit:    {},
	ErrCodeInvalidPositionSize:  {},
	ErrCodeInvalidVersion:       {},
	ErrCodeUnknownStrategy:      {},
	ErrCodeStrategyConfigError:  {},
	ErrCodeVersionMismatch:      {},
	ErrCodeBacktestConfigError:  {},
	ErrCodeInvalidArgument:      {},
	ErrCodeMissingArgument:      {},
}
