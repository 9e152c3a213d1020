package types

// IndicatorKind names one derived series computed from a bar series.
type IndicatorKind string

const (
	IndicatorSMA20      IndicatorKind = "sma_20"
	IndicatorEMA9       IndicatorKind = "ema_9"
	IndicatorEMA21      IndicatorKind = "ema_21"
	IndicatorEMA50      IndicatorKind = "ema_50"
	IndicatorEMA100     IndicatorKind = "ema_100"
	IndicatorRSI9       IndicatorKind = "rsi_9"
	IndicatorRSI14      IndicatorKind = "rsi_14"
	IndicatorRSI21      IndicatorKind = "rsi_21"
	IndicatorMACD       IndicatorKind = "macd"
	IndicatorBollinger  IndicatorKind = "bollinger"
	IndicatorADX        IndicatorKind = "adx"
	IndicatorCCI        IndicatorKind = "cci"
	IndicatorWilliamsR  IndicatorKind = "williams_r"
	IndicatorATR        IndicatorKind = "atr"
	IndicatorMFI        IndicatorKind = "mfi"
	IndicatorStochastic IndicatorKind = "stochastic"
	IndicatorTRIX       IndicatorKind = "trix"
	IndicatorOBV        IndicatorKind = "obv"
	IndicatorVWAP       IndicatorKind = "vwap"
	IndicatorPSAR       IndicatorKind = "psar"
)

// AllIndicatorKinds lists every kind in a stable order.
var AllIndicatorKinds = []IndicatorKind{
	IndicatorSMA20,
	IndicatorEMA9,
	IndicatorEMA21,
	IndicatorEMA50,
	IndicatorEMA100,
	IndicatorRSI9,
	IndicatorRSI14,
	IndicatorRSI21,
	IndicatorMACD,
	IndicatorBollinger,
	IndicatorADX,
	IndicatorCCI,
	IndicatorWilliamsR,
	IndicatorATR,
	IndicatorMFI,
	IndicatorStochastic,
	IndicatorTRIX,
	IndicatorOBV,
	IndicatorVWAP,
	IndicatorPSAR,
}

// ValueShape tags which field of an IndicatorValue is populated.
type ValueShape int

const (
	ShapeScalar ValueShape = iota
	ShapeMACD
	ShapeBands
	ShapeStochastic
)

// Shape returns the value shape produced by the kind.
func (k IndicatorKind) Shape() ValueShape {
	switch k {
	case IndicatorMACD:
		return ShapeMACD
	case IndicatorBollinger:
		return ShapeBands
	case IndicatorStochastic:
		return ShapeStochastic
	default:
		return ShapeScalar
	}
}

// Columns returns the flat column names the kind is persisted under, in the
// argument order of its tuple constructor.
func (k IndicatorKind) Columns() []string {
	switch k.Shape() {
	case ShapeMACD:
		return []string{"macd", "macd_signal"}
	case ShapeBands:
		return []string{"bb_upper", "bb_middle", "bb_lower"}
	case ShapeStochastic:
		return []string{"stoch_k", "stoch_d"}
	default:
		return []string{string(k)}
	}
}

// MACDValue holds the three MACD lines at one index.
type MACDValue struct {
	MACD      float64 `yaml:"macd" json:"macd"`
	Signal    float64 `yaml:"signal" json:"signal"`
	Histogram float64 `yaml:"histogram" json:"histogram"`
}

// BandsValue holds Bollinger band levels at one index.
type BandsValue struct {
	Upper  float64 `yaml:"upper" json:"upper"`
	Middle float64 `yaml:"middle" json:"middle"`
	Lower  float64 `yaml:"lower" json:"lower"`
}

// StochasticValue holds %K and %D at one index.
type StochasticValue struct {
	K float64 `yaml:"k" json:"k"`
	D float64 `yaml:"d" json:"d"`
}

// IndicatorValue is a tagged union over the indicator shapes. Only the field
// selected by Shape is meaningful.
type IndicatorValue struct {
	Shape      ValueShape
	Scalar     float64
	MACD       MACDValue
	Bands      BandsValue
	Stochastic StochasticValue
}

// ScalarValue builds a scalar IndicatorValue.
func ScalarValue(v float64) IndicatorValue {
	return IndicatorValue{Shape: ShapeScalar, Scalar: v}
}

// MACDTuple builds a MACD IndicatorValue.
func MACDTuple(macd, signal float64) IndicatorValue {
	return IndicatorValue{Shape: ShapeMACD, MACD: MACDValue{MACD: macd, Signal: signal, Histogram: macd - signal}}
}

// BandsTuple builds a Bollinger IndicatorValue.
func BandsTuple(upper, middle, lower float64) IndicatorValue {
	return IndicatorValue{Shape: ShapeBands, Bands: BandsValue{Upper: upper, Middle: middle, Lower: lower}}
}

// StochasticTuple builds a stochastic IndicatorValue.
func StochasticTuple(k, d float64) IndicatorValue {
	return IndicatorValue{Shape: ShapeStochastic, Stochastic: StochasticValue{K: k, D: d}}
}

// Floats returns every populated component, used for finiteness checks.
func (v IndicatorValue) Floats() []float64 {
	switch v.Shape {
	case ShapeMACD:
		return []float64{v.MACD.MACD, v.MACD.Signal, v.MACD.Histogram}
	case ShapeBands:
		return []float64{v.Bands.Upper, v.Bands.Middle, v.Bands.Lower}
	case ShapeStochastic:
		return []float64{v.Stochastic.K, v.Stochastic.D}
	default:
		return []float64{v.Scalar}
	}
}

// Fields returns the persisted components in Columns order. The MACD
// histogram is derived on load and not stored.
func (v IndicatorValue) Fields() []float64 {
	switch v.Shape {
	case ShapeMACD:
		return []float64{v.MACD.MACD, v.MACD.Signal}
	case ShapeBands:
		return []float64{v.Bands.Upper, v.Bands.Middle, v.Bands.Lower}
	case ShapeStochastic:
		return []float64{v.Stochastic.K, v.Stochastic.D}
	default:
		return []float64{v.Scalar}
	}
}
