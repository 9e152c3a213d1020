package engine

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Wallet holds the cash balance of a run. Amounts are accumulated in decimal
// so that long runs do not drift.
type Wallet struct {
	mu      sync.Mutex
	balance decimal.Decimal
}

func NewWallet(initial float64) *Wallet {
	return &Wallet{balance: decimal.NewFromFloat(initial)}
}

// Balance returns the current cash balance.
func (w *Wallet) Balance() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, _ := w.balance.Float64()

	return f
}

// Debit removes amount from the balance. It reports false and leaves the
// balance untouched when the balance cannot cover amount.
func (w *Wallet) Debit(amount float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := decimal.NewFromFloat(amount)
	if d.GreaterThan(w.balance) {
		return false
	}

	w.balance = w.balance.Sub(d)

	return true
}

// Credit adds amount to the balance.
func (w *Wallet) Credit(amount float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.balance = w.balance.Add(decimal.NewFromFloat(amount))
}
