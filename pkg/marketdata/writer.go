package marketdata

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Writer persists bar series, optionally enriched with their indicators.
type Writer interface {
	// Initialize sets up the writer, creating its staging table.
	Initialize() error
	// Write stages every bar of one symbol. When frame is set its values are
	// written next to the bar they belong to.
	Write(symbol string, bars []types.Bar, frame optional.Option[indicator.Frame]) error
	// Finalize commits the staged rows and exports the output file.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
