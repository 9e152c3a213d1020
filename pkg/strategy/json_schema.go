package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// ToJSONSchema reflects v into a JSON schema with every nested type inlined,
// so an editor can validate a bundle file without resolving $defs.
func ToJSONSchema[T any](v T) (string, error) {
	return encodeSchema(reflectInline(v))
}

// Schema returns the JSON schema of a strategy bundle file.
func Schema() (string, error) {
	schema := reflectInline(Strategy{})
	schema.Title = "Strategy bundle"
	schema.Description = "Signals a backtest acts on and the stop loss, take profit and position size applied to every symbol"

	return encodeSchema(schema)
}

func reflectInline(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}

	return reflector.Reflect(v)
}

func encodeSchema(schema *jsonschema.Schema) (string, error) {
	out, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to encode strategy schema", err)
	}

	return string(out), nil
}
