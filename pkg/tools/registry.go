package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/myspotipal/spotipal/pkg/logger"
	"github.com/myspotipal/spotipal/pkg/providers"
)

// Registry maps function names to tools and dispatches the model's tool
// calls. Dispatch is by exact name match; nothing is ever guessed.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions renders the registry as provider tool schemas, sorted by
// name so the declaration order is stable across runs.
func (r *Registry) Definitions() []providers.ToolDefinition {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]providers.ToolDefinition, 0, len(names))
	for _, name := range names {
		tool := r.tools[name]
		defs = append(defs, providers.ToolDefinition{
			Type: "function",
			Function: providers.ToolFunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
				Strict:      true,
			},
		})
	}
	return defs
}

// Execute runs one tool call and returns the JSON to append as the tool
// message. An empty result becomes NoDataSentinel. Returns
// *ToolNotFoundError for unregistered names and *ArgumentParseError for
// malformed argument JSON.
func (r *Registry) Execute(ctx context.Context, call providers.ToolCall) (string, error) {
	name := call.FunctionName()
	tool, ok := r.Get(name)
	if !ok {
		return "", &ToolNotFoundError{Name: name}
	}

	args := map[string]any{}
	if raw := call.ArgumentsOf(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return "", &ArgumentParseError{Tool: name, Err: err}
		}
	}

	logger.DebugCF("tools", "executing tool", map[string]any{
		"tool":    name,
		"call_id": call.ID,
	})

	result, err := tool.Execute(ctx, args)
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", name, err)
	}
	if isEmptyResult(result) {
		return NoDataSentinel, nil
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("tool %q: encoding result: %w", name, err)
	}
	return string(encoded), nil
}
