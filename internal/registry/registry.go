// Package registry maps tool names to their descriptors and handlers and
// dispatches calls to them.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sahilm/fuzzy"
)

// maxSuggestions caps the "did you mean" list of an unknown tool error.
const maxSuggestions = 3

// Result is the structured output of a tool call. It always conforms to the
// tool's output schema.
type Result map[string]any

type entry struct {
	tool   *Tool
	input  *jsonschema.Resolved
	output *jsonschema.Resolved
}

// Registry manages tool registration and execution.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*entry
	order []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{tools: make(map[string]*entry)}
}

// Register adds a tool. Names must be unique and both schemas must be set
// and resolvable.
func (r *Registry) Register(t *Tool) error {
	if t == nil || t.Name == "" {
		return errors.New("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s: handler is required", t.Name)
	}
	if t.InputSchema == nil || t.OutputSchema == nil {
		return fmt.Errorf("tool %s: input and output schemas are required", t.Name)
	}

	input, err := t.InputSchema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("tool %s: resolving input schema: %w", t.Name, err)
	}
	output, err := t.OutputSchema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("tool %s: resolving output schema: %w", t.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name]; ok {
		return fmt.Errorf("tool %s already registered", t.Name)
	}
	r.tools[t.Name] = &entry{tool: t, input: input, output: output}
	r.order = append(r.order, t.Name)
	return nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	if !ok {
		return Descriptor{}, false
	}
	return e.tool.Descriptor, true
}

// List returns every descriptor in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].tool.Descriptor)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Call validates args against the input schema of the named tool, runs its
// handler and returns the structured result. Failures are *Error values of
// kind ErrNotFound, ErrValidation or ErrDomain; anything else is an internal
// fault of the tool.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (Result, error) {
	if name == "" {
		return nil, invalid("", errors.New("tool name is required"))
	}

	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, r.notFound(name)
	}

	raw, instance, err := normalize(args)
	if err != nil {
		return nil, invalid(name, err)
	}
	if err := e.input.Validate(instance); err != nil {
		return nil, invalid(name, err)
	}

	out, err := e.tool.Handler(ctx, raw)
	if err != nil {
		var terr *Error
		if errors.As(err, &terr) {
			if terr.Tool == "" {
				terr.Tool = name
			}
			return nil, terr
		}
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	result, err := toResult(out)
	if err != nil {
		return nil, fmt.Errorf("tool %s: encoding result: %w", name, err)
	}
	if err := e.output.Validate(map[string]any(result)); err != nil {
		return nil, fmt.Errorf("tool %s: result does not match output schema: %w", name, err)
	}
	return result, nil
}

func (r *Registry) notFound(name string) *Error {
	r.mu.RLock()
	names := append([]string(nil), r.order...)
	r.mu.RUnlock()

	var suggestions []string
	for _, m := range fuzzy.Find(name, names) {
		suggestions = append(suggestions, m.Str)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return &Error{Kind: ErrNotFound, Tool: name, Suggestions: suggestions}
}

// normalize turns caller supplied arguments into plain JSON values so that
// schema validation sees float64 numbers and map[string]any objects whatever
// Go types the caller used.
func normalize(args map[string]any) (json.RawMessage, map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding arguments: %w", err)
	}
	var instance map[string]any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, nil, fmt.Errorf("decoding arguments: %w", err)
	}
	return raw, instance, nil
}

func toResult(out any) (Result, error) {
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}
