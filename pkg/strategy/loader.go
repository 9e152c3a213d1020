package strategy

import (
	"os"

	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML strategy, validates it, and checks its engine version
// constraint against the running engine.
func Parse(content []byte) (Strategy, error) {
	var s Strategy

	if err := yaml.Unmarshal(content, &s); err != nil {
		return Strategy{}, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy yaml", err)
	}

	if err := s.Validate(); err != nil {
		return Strategy{}, err
	}

	if err := version.CheckConstraint(version.GetVersion(), s.Version); err != nil {
		return Strategy{}, errors.Wrap(errors.ErrCodeVersionMismatch, "strategy is not compatible with this engine", err)
	}

	return s, nil
}

// LoadFile reads and parses a YAML strategy file.
func LoadFile(path string) (Strategy, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Strategy{}, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to read strategy file %s", path)
	}

	return Parse(content)
}

// Resolve returns the strategy from file when path is set, otherwise the
// built-in bundle called name.
func Resolve(name, path string) (Strategy, error) {
	if path != "" {
		return LoadFile(path)
	}

	return Builtin(name)
}
