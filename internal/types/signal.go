package types

import "time"

// SignalType identifies the rule that produced a signal.
type SignalType string

const (
	SignalRSIOversold      SignalType = "RSI_OVERSOLD"
	SignalRSIOverbought    SignalType = "RSI_OVERBOUGHT"
	SignalMACDBullish      SignalType = "MACD_BULLISH"
	SignalMACDBearish      SignalType = "MACD_BEARISH"
	SignalSMACrossover     SignalType = "SMA_CROSSOVER"
	SignalBollingerSqueeze SignalType = "BOLLINGER_SQUEEZE"
)

// AllSignalTypes lists every signal type the generator can emit.
var AllSignalTypes = []SignalType{
	SignalRSIOversold,
	SignalRSIOverbought,
	SignalMACDBullish,
	SignalMACDBearish,
	SignalSMACrossover,
	SignalBollingerSqueeze,
}

// Action is the direction suggested by a signal.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionWatch Action = "WATCH"
)

// Signal is a discrete trading suggestion derived from indicator state.
type Signal struct {
	// Type is the rule that fired
	Type SignalType `yaml:"type" json:"type"`
	// Action is BUY, SELL or WATCH. WATCH is informational and never traded.
	Action Action `yaml:"action" json:"action"`
	// Strength is in [0, 1]
	Strength float64 `yaml:"strength" json:"strength"`
	// Time is the timestamp of the bar the signal fired on
	Time time.Time `yaml:"time" json:"time"`
	// Description is a human readable explanation
	Description string `yaml:"description" json:"description"`
	// Symbol is the symbol of the bar
	Symbol string `yaml:"symbol" json:"symbol"`
}
