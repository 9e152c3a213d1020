package commission_fee

// ZeroCommissionFee is the commission-free broker. Orders still pay the
// configured spread, which the simulator charges separately.
type ZeroCommissionFee struct{}

func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

// Calculate charges nothing regardless of order size or share price.
func (c *ZeroCommissionFee) Calculate(_ float64, _ float64) float64 {
	return 0
}
