package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_cache.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/cache Cache
//go:generate mockgen -destination=./mock_calculator.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/indicator Calculator
