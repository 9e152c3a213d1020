package commission_fee

// FlatCommissionFee charges the same amount for every order.
type FlatCommissionFee struct {
	amount float64
}

// NewFlatCommissionFee creates a flat commission. Negative amounts are treated as zero.
func NewFlatCommissionFee(amount float64) CommissionFee {
	if amount < 0 {
		amount = 0
	}

	return &FlatCommissionFee{amount: amount}
}

// Calculate returns the configured amount for any non-empty order.
func (c *FlatCommissionFee) Calculate(quantity float64, price float64) float64 {
	if quantity <= 0 {
		return 0
	}

	return c.amount
}
