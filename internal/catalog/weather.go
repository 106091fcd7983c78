package catalog

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/y0ug/mcptools/internal/registry"
)

type WeatherQuery struct {
	Location string `json:"location" jsonschema:"City or place to report on"`
}

type WeatherReport struct {
	Location    string `json:"location" jsonschema:"Location the report is for"`
	Temperature string `json:"temperature" jsonschema:"Temperature with unit"`
	Condition   string `json:"condition" jsonschema:"Sky condition"`
}

// There is no weather provider behind this tool: every location reports the
// same conditions.
const (
	staticTemperature = "18°C"
	staticCondition   = "Partly Cloudy"
)

func weatherTools() ([]*registry.Tool, error) {
	// Inferred struct schemas forbid unknown keys; arguments beyond location
	// are ignored like they are for the math tools.
	input, err := jsonschema.For[WeatherQuery](nil)
	if err != nil {
		return nil, err
	}
	input.AdditionalProperties = nil

	t, err := registry.NewTool("get_weather", "Get the current weather for a specified location.",
		func(ctx context.Context, q WeatherQuery) (WeatherReport, error) {
			return WeatherReport{
				Location:    q.Location,
				Temperature: staticTemperature,
				Condition:   staticCondition,
			}, nil
		},
		registry.WithInputSchema(input),
		registry.WithTags("weather", "forecast"),
		registry.WithMeta(map[string]string{"version": "1.0", "author": "weather-team"}),
	)
	if err != nil {
		return nil, err
	}
	return []*registry.Tool{t}, nil
}
