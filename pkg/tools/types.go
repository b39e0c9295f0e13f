// Package tools defines the capability surface the model can invoke: a
// Tool interface, a registry that dispatches by function name, and the
// streaming-library tools themselves.
package tools

import (
	"context"
	"fmt"
	"reflect"
)

// NoDataSentinel is fed back to the model when a tool executes
// successfully but has nothing to return. The absence of data is not an
// error; the model decides how to phrase it.
const NoDataSentinel = `{"error": "No data found"}`

// Tool is one named capability the model may call. Parameters returns the
// JSON-schema object advertised to the model; Execute receives the parsed
// argument object and returns any JSON-serializable value.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ToolNotFoundError means the model requested a function name nothing is
// registered under. This is a registry/schema mismatch and is fatal to
// the round.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ArgumentParseError means the model produced arguments that are not a
// valid JSON object. Fatal to that tool call only.
type ArgumentParseError struct {
	Tool string
	Err  error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("tool %q: malformed arguments: %v", e.Tool, e.Err)
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }

// funcTool adapts a plain function into a Tool.
type funcTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

func (t *funcTool) Name() string               { return t.name }
func (t *funcTool) Description() string        { return t.description }
func (t *funcTool) Parameters() map[string]any { return t.parameters }

func (t *funcTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}

// isEmptyResult reports whether a tool's return value carries no data:
// nil, a nil pointer, an empty string, or an empty collection.
func isEmptyResult(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	default:
		return false
	}
}

func noParams() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok && v != ""
}

func boolArg(args map[string]any, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
