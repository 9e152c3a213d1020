package types

import "time"

// Bar is one daily OHLCV observation for a symbol.
type Bar struct {
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// TypicalPrice returns (high + low + close) / 3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// CloneBars returns a copy of bars so callers never share backing arrays
// with a data source.
func CloneBars(bars []Bar) []Bar {
	if bars == nil {
		return nil
	}

	out := make([]Bar, len(bars))
	copy(out, bars)

	return out
}
