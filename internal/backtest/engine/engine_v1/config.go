package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CapitalMode decides whether symbols share one wallet.
type CapitalMode string

const (
	// CapitalModeIsolated gives every symbol the full initial capital.
	CapitalModeIsolated CapitalMode = "isolated"
	// CapitalModeShared runs every symbol against one wallet.
	CapitalModeShared CapitalMode = "shared"
)

var allCapitalModes = []any{CapitalModeIsolated, CapitalModeShared}

type BacktestEngineV1Config struct {
	InitialCapital float64               `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	Broker         commission_fee.Broker `yaml:"broker" json:"broker,omitempty" validate:"omitempty,oneof=interactive_broker zero_commission flat" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	Commission     float64               `yaml:"commission" json:"commission,omitempty" validate:"gte=0" jsonschema:"title=Commission,description=Per-order commission in USD for the flat broker,minimum=0"`
	Spread         float64               `yaml:"spread" json:"spread,omitempty" validate:"gte=0,lt=1" jsonschema:"title=Spread,description=Fraction of notional paid on every order,minimum=0"`
	StartDate      time.Time             `yaml:"start_date" json:"start_date" validate:"required" jsonschema:"title=Start Date,description=First day of the backtest period"`
	EndDate        time.Time             `yaml:"end_date" json:"end_date" validate:"required,gtfield=StartDate" jsonschema:"title=End Date,description=Last day of the backtest period"`
	Workers        int                   `yaml:"workers" json:"workers,omitempty" validate:"gte=0" jsonschema:"title=Workers,description=Symbols simulated in parallel. 0 uses every CPU,minimum=0"`
	CapitalMode    CapitalMode           `yaml:"capital_mode" json:"capital_mode,omitempty" validate:"omitempty,oneof=isolated shared" jsonschema:"title=Capital Mode,description=isolated gives each symbol the full capital. shared splits one wallet"`
}

// ParseConfig decodes and validates a YAML engine configuration.
func ParseConfig(content string) (BacktestEngineV1Config, error) {
	config := EmptyConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

// Validate checks the configuration. The returned error carries the code of
// the first failing field.
func (c BacktestEngineV1Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	first := fieldErrors[0]

	code := errors.ErrCodeBacktestConfigError

	switch first.StructField() {
	case "InitialCapital":
		code = errors.ErrCodeInvalidCapital
	case "StartDate", "EndDate":
		code = errors.ErrCodeInvalidDateRange
	}

	return errors.Wrap(code, fmt.Sprintf("invalid backtest config: field %s failed %s", first.Namespace(), first.Tag()), err)
}

// Shared reports whether symbols share one wallet.
func (c BacktestEngineV1Config) Shared() bool {
	return c.CapitalMode == CapitalModeShared
}

// CommissionFee returns the commission model of the configured broker.
func (c BacktestEngineV1Config) CommissionFee() commission_fee.CommissionFee {
	return commission_fee.GetCommissionFeeHandler(c.Broker, c.Commission)
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Time{}) {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date",
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			if t == reflect.TypeOf(CapitalMode("")) {
				return &jsonschema.Schema{
					Type: "string",
					Enum: allCapitalModes,
				}
			}

			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func TestConfig(startDate time.Time, endDate time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 10000,
		Broker:         broker,
		StartDate:      startDate,
		EndDate:        endDate,
		CapitalMode:    CapitalModeIsolated,
	}
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 0,
		Broker:         commission_fee.BrokerZero,
		CapitalMode:    CapitalModeIsolated,
	}
}
