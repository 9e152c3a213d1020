package indicator

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Registry manages the calculators the engine runs.
type Registry interface {
	Register(calculator Calculator) error
	Get(kind types.IndicatorKind) (Calculator, error)
	List() []types.IndicatorKind
	Remove(kind types.IndicatorKind) error
}

// RegistryV1 is a thread safe Registry.
type RegistryV1 struct {
	calculators map[types.IndicatorKind]Calculator
	mu          sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return &RegistryV1{
		calculators: make(map[types.IndicatorKind]Calculator),
		mu:          sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding every built-in indicator with
// its standard parameters.
func NewDefaultRegistry() Registry {
	r := NewRegistry()

	for _, c := range []Calculator{
		NewSMA(types.IndicatorSMA20, 20),
		NewEMA(types.IndicatorEMA9, 9),
		NewEMA(types.IndicatorEMA21, 21),
		NewEMA(types.IndicatorEMA50, 50),
		NewEMA(types.IndicatorEMA100, 100),
		NewRSI(types.IndicatorRSI9, 9),
		NewRSI(types.IndicatorRSI14, 14),
		NewRSI(types.IndicatorRSI21, 21),
		NewMACD(12, 26, 9),
		NewBollingerBands(20, 2),
		NewADX(14),
		NewCCI(20),
		NewWilliamsR(14),
		NewATR(14),
		NewMFI(14),
		NewStochastic(14, 3),
		NewTRIX(14),
		NewOBV(),
		NewVWAP(),
		NewParabolicSAR(0.02, 0.2),
	} {
		// kinds above are distinct, so registration cannot fail
		_ = r.Register(c)
	}

	return r
}

// Register adds a calculator to the registry.
func (r *RegistryV1) Register(calculator Calculator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := calculator.Kind()
	if _, exists := r.calculators[kind]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "Register: indicator %s already registered", kind)
	}

	r.calculators[kind] = calculator

	return nil
}

// Get retrieves a calculator by kind.
func (r *RegistryV1) Get(kind types.IndicatorKind) (Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calculator, exists := r.calculators[kind]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "Get: indicator %s not found", kind)
	}

	return calculator, nil
}

// List returns the registered kinds sorted by name.
func (r *RegistryV1) List() []types.IndicatorKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]types.IndicatorKind, 0, len(r.calculators))
	for kind := range r.calculators {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

// Remove removes a calculator from the registry.
func (r *RegistryV1) Remove(kind types.IndicatorKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.calculators[kind]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "Remove: indicator %s not found", kind)
	}

	delete(r.calculators, kind)

	return nil
}
