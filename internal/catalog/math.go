package catalog

import (
	"context"
	"math"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/y0ug/mcptools/internal/registry"
)

// Operands is the input of every arithmetic tool.
type Operands struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Number is the output of every arithmetic tool.
type Number struct {
	Result float64 `json:"result"`
}

type arithmetic struct {
	name        string
	description string
	first       string // description of a
	second      string // description of b
	result      string // description of result
	apply       func(a, b float64) (float64, error)
}

var arithmetics = []arithmetic{
	{
		name:        "add",
		description: "Add two numbers",
		first:       "First number",
		second:      "Second number",
		result:      "Sum of a and b",
		apply:       func(a, b float64) (float64, error) { return a + b, nil },
	},
	{
		name:        "subtract",
		description: "Subtract two numbers",
		first:       "First number",
		second:      "Second number",
		result:      "Difference of a and b",
		apply:       func(a, b float64) (float64, error) { return a - b, nil },
	},
	{
		name:        "multiply",
		description: "Multiply two numbers",
		first:       "First number",
		second:      "Second number",
		result:      "Product of a and b",
		apply:       func(a, b float64) (float64, error) { return a * b, nil },
	},
	{
		name:        "divide",
		description: "Divide two numbers",
		first:       "Dividend",
		second:      "Divisor",
		result:      "Quotient of a and b",
		apply: func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, registry.Domain("division by zero is not allowed")
			}
			return a / b, nil
		},
	},
}

func (op arithmetic) tool() (*registry.Tool, error) {
	input := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"a": {Type: "number", Description: op.first},
			"b": {Type: "number", Description: op.second},
		},
		Required: []string{"a", "b"},
	}
	output := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"result": {Type: "number", Description: op.result},
		},
		Required: []string{"result"},
	}

	return registry.NewTool(op.name, op.description,
		func(ctx context.Context, in Operands) (Number, error) {
			v, err := op.apply(in.A, in.B)
			if err != nil {
				return Number{}, err
			}
			// JSON has no encoding for infinities or NaN.
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return Number{}, registry.Domain("result out of range")
			}
			return Number{Result: v}, nil
		},
		registry.WithInputSchema(input),
		registry.WithOutputSchema(output),
		registry.WithTags("math"),
	)
}

func mathTools() ([]*registry.Tool, error) {
	tools := make([]*registry.Tool, 0, len(arithmetics))
	for _, op := range arithmetics {
		t, err := op.tool()
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}
