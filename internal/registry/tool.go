package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// Descriptor is the static metadata of a tool.
type Descriptor struct {
	Name         string
	Description  string
	InputSchema  *jsonschema.Schema
	OutputSchema *jsonschema.Schema
	Tags         []string          // sorted, no duplicates
	Meta         map[string]string // optional
}

// HandlerFunc runs a tool on arguments that already passed input schema
// validation.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is a descriptor bound to its handler.
type Tool struct {
	Descriptor
	Handler HandlerFunc
}

// Option customizes a tool built with NewTool.
type Option func(*Tool)

// WithInputSchema replaces the schema inferred from the input type.
func WithInputSchema(s *jsonschema.Schema) Option {
	return func(t *Tool) { t.InputSchema = s }
}

// WithOutputSchema replaces the schema inferred from the output type.
func WithOutputSchema(s *jsonschema.Schema) Option {
	return func(t *Tool) { t.OutputSchema = s }
}

func WithTags(tags ...string) Option {
	return func(t *Tool) {
		set := append(slices.Clone(t.Tags), tags...)
		slices.Sort(set)
		t.Tags = slices.Compact(set)
	}
}

func WithMeta(meta map[string]string) Option {
	return func(t *Tool) {
		if t.Meta == nil {
			t.Meta = make(map[string]string, len(meta))
		}
		maps.Copy(t.Meta, meta)
	}
}

// NewTool builds a tool from a typed handler. Input and output schemas are
// inferred from In and Out unless an option supplies them. The registry
// validates arguments against the input schema before decoding them into In.
func NewTool[In, Out any](
	name string,
	description string,
	handler func(ctx context.Context, in In) (Out, error),
	opts ...Option,
) (*Tool, error) {
	t := &Tool{
		Descriptor: Descriptor{Name: name, Description: description},
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in In
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, invalid("", fmt.Errorf("decoding arguments: %w", err))
			}
			return handler(ctx, in)
		},
	}
	for _, opt := range opts {
		opt(t)
	}

	var err error
	if t.InputSchema == nil {
		if t.InputSchema, err = jsonschema.For[In](nil); err != nil {
			return nil, fmt.Errorf("tool %s: inferring input schema: %w", name, err)
		}
	}
	if t.OutputSchema == nil {
		if t.OutputSchema, err = jsonschema.For[Out](nil); err != nil {
			return nil, fmt.Errorf("tool %s: inferring output schema: %w", name, err)
		}
	}
	return t, nil
}
