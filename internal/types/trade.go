package types

import (
	"math"
	"time"
)

// Exit reasons recorded on trades. A SELL signal exit records the signal type instead.
const (
	ExitReasonStopLoss      = "stop loss"
	ExitReasonTakeProfit    = "take profit"
	ExitReasonEndOfBacktest = "end of backtest"
)

// Position is an open long holding in one symbol.
type Position struct {
	Symbol     string    `yaml:"symbol" json:"symbol"`
	Quantity   float64   `yaml:"quantity" json:"quantity"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price"`
	EntryDate  time.Time `yaml:"entry_date" json:"entry_date"`
	// EntryFee is the commission plus spread paid when opening
	EntryFee float64 `yaml:"entry_fee" json:"entry_fee"`
}

// UnrealizedReturn returns (price - entry) / entry.
func (p Position) UnrealizedReturn(price float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}

	return (price - p.EntryPrice) / p.EntryPrice
}

// Trade is a closed round trip.
type Trade struct {
	Symbol            string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Quantity          float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	EntryPrice        float64   `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice         float64   `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	EntryDate         time.Time `yaml:"entry_date" json:"entry_date" csv:"entry_date"`
	ExitDate          time.Time `yaml:"exit_date" json:"exit_date" csv:"exit_date"`
	HoldingPeriodDays int       `yaml:"holding_period_days" json:"holding_period_days" csv:"holding_period_days"`
	ReturnFraction    float64   `yaml:"return_fraction" json:"return_fraction" csv:"return_fraction"`
	ExitReason        string    `yaml:"exit_reason" json:"exit_reason" csv:"exit_reason"`
	// Fees is the commission and spread paid on entry and exit
	Fees float64 `yaml:"fees" json:"fees" csv:"fees"`
}

// ClosePosition turns an open position into a trade at the given exit.
func ClosePosition(p Position, exitPrice float64, exitDate time.Time, reason string, exitFee float64) Trade {
	days := int(math.Floor(exitDate.Sub(p.EntryDate).Hours() / 24))
	if days < 0 {
		days = 0
	}

	return Trade{
		Symbol:            p.Symbol,
		Quantity:          p.Quantity,
		EntryPrice:        p.EntryPrice,
		ExitPrice:         exitPrice,
		EntryDate:         p.EntryDate,
		ExitDate:          exitDate,
		HoldingPeriodDays: days,
		ReturnFraction:    p.UnrealizedReturn(exitPrice),
		ExitReason:        reason,
		Fees:              p.EntryFee + exitFee,
	}
}

// NetPnL is the cash result of the trade after fees.
func (t Trade) NetPnL() float64 {
	return (t.ExitPrice-t.EntryPrice)*t.Quantity - t.Fees
}
