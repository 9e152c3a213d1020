package commission_fee

// CommissionFee prices a single order.
type CommissionFee interface {
	// Calculate the commission fee for an order of quantity shares at price and returns the fee in USD
	Calculate(quantity float64, price float64) float64
}

type Broker string

const (
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
	BrokerFlat              Broker = "flat"
)

var AllBrokers = []any{
	BrokerInteractiveBroker,
	BrokerZero,
	BrokerFlat,
}

// GetCommissionFeeHandler returns the commission model of broker. flatAmount
// is only used by BrokerFlat.
func GetCommissionFeeHandler(broker Broker, flatAmount float64) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerFlat:
		return NewFlatCommissionFee(flatAmount)
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
