package commission_fee

// InteractiveBrokerCommissionFee follows the fixed pricing tier: 0.005 USD per
// share, at least 1 USD and at most 1% of the trade value.
type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

func (c *InteractiveBrokerCommissionFee) Calculate(quantity float64, price float64) float64 {
	if quantity <= 0 {
		return 0
	}

	fee := 0.005 * quantity
	if fee < 1.0 {
		fee = 1.0
	}

	if limit := 0.01 * quantity * price; price > 0 && fee > limit {
		return limit
	}

	return fee
}
