package utils

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
)

// OrderCost returns what buying quantity shares at price takes from the
// balance: notional plus commission plus the spread paid on the notional.
func OrderCost(quantity float64, price float64, spread float64, commissionFee commission_fee.CommissionFee) float64 {
	notional := quantity * price

	return notional + commissionFee.Calculate(quantity, price) + notional*spread
}

// OrderProceeds returns what selling quantity shares at price adds to the
// balance: notional minus commission minus the spread paid on the notional.
func OrderProceeds(quantity float64, price float64, spread float64, commissionFee commission_fee.CommissionFee) float64 {
	notional := quantity * price

	return notional - commissionFee.Calculate(quantity, price) - notional*spread
}

// CalculateMaxQuantity calculates the largest whole quantity whose full cost fits in the balance.
func CalculateMaxQuantity(balance float64, price float64, spread float64, commissionFee commission_fee.CommissionFee) float64 {
	return CalculateOrderQuantityByPercentage(balance, price, spread, commissionFee, 1)
}

// CalculateOrderQuantityByPercentage sizes an order at floor(balance * percentage / price)
// shares, reduced when commission and spread would push its cost past the balance.
func CalculateOrderQuantityByPercentage(balance float64, price float64, spread float64, commissionFee commission_fee.CommissionFee, percentage float64) float64 {
	// Handle edge cases
	if price <= 0 || balance <= 0 || percentage <= 0 {
		return 0
	}

	maxQty := RoundToDecimalPrecision(balance*percentage/price, 0)

	// Iteratively refine by accounting for fees
	for i := 0; i < 10 && maxQty > 0; i++ { // Usually converges quickly, limit iterations
		totalCost := OrderCost(maxQty, price, spread, commissionFee)
		if totalCost <= balance {
			return maxQty
		}
		// Adjust quantity down proportionally
		maxQty = RoundToDecimalPrecision(maxQty*balance/totalCost, 0)
	}

	for maxQty > 0 && OrderCost(maxQty, price, spread, commissionFee) > balance {
		maxQty--
	}

	return math.Max(maxQty, 0)
}

// RoundToDecimalPrecision rounds the quantity down to the specified decimal precision.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}
