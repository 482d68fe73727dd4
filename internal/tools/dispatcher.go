package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/deckhand-io/deckhand/internal/adapter/collection"
	"github.com/deckhand-io/deckhand/internal/domain"
)

// Dispatcher routes a requested tool name to an executor and shapes the
// outcome into the uniform result envelope. Failures never propagate past the
// dispatcher: a failed tool yields an error-shaped result the model can react
// to conversationally.
type Dispatcher struct {
	registry   *Registry
	collection *collection.Client
}

// NewDispatcher creates a dispatcher over the static registry and the
// backend client.
func NewDispatcher(reg *Registry, col *collection.Client) *Dispatcher {
	return &Dispatcher{registry: reg, collection: col}
}

// Has reports whether the tool name resolves to an executor. Backend-prefixed
// names resolve dynamically against the live operation set.
func (d *Dispatcher) Has(ctx context.Context, toolName string) bool {
	if strings.HasPrefix(toolName, collection.ToolPrefix) {
		_, err := d.collection.Operation(ctx, toolName)
		return err == nil
	}
	return d.registry.Has(toolName)
}

// Dispatch executes the tool and returns the enveloped result.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, args json.RawMessage) domain.ToolResult {
	if strings.HasPrefix(toolName, collection.ToolPrefix) {
		return d.dispatchBackend(ctx, toolName, args)
	}

	payload, err := d.registry.Execute(ctx, toolName, args)
	if err != nil {
		return domain.ErrorResult(err.Error())
	}
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.ErrorResult("tool returned malformed payload: " + err.Error())
	}
	return domain.SuccessResult(decoded)
}

func (d *Dispatcher) dispatchBackend(ctx context.Context, toolName string, args json.RawMessage) domain.ToolResult {
	argMap := map[string]interface{}{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &argMap); err != nil {
			return domain.ErrorResult("invalid tool arguments: " + err.Error())
		}
	}
	result, err := d.collection.Invoke(ctx, toolName, argMap)
	if err != nil {
		return domain.ErrorResult(err.Error())
	}
	return domain.SuccessResult(result)
}
