package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// getResultFolder returns <results>/<strategy>/<start>_<end>.
func getResultFolder(resultsFolder string, strategyName string, config BacktestEngineV1Config) string {
	name := strings.TrimSpace(strategyName)
	if name == "" {
		name = "unnamed"
	}

	name = strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(name)

	timeRange := fmt.Sprintf("%s_%s", config.StartDate.Format("20060102"), config.EndDate.Format("20060102"))

	return filepath.Join(resultsFolder, name, timeRange)
}
