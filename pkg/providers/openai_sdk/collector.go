package openai_sdk

import "sort"

// toolCallCollector reassembles streamed tool-call fragments. The API may
// split a single call's id, function name, and argument JSON across many
// chunks; fragments belonging to the same call share a stream index, and
// each field is rebuilt by concatenating its pieces in arrival order. The
// argument string is not valid JSON until the call's stream is complete.
type toolCallCollector struct {
	partial map[int64]*partialToolCall
}

type partialToolCall struct {
	index     int64
	id        string
	name      string
	arguments string
}

func (c *toolCallCollector) add(index int64, id, name, arguments string) {
	if c.partial == nil {
		c.partial = make(map[int64]*partialToolCall)
	}
	p, ok := c.partial[index]
	if !ok {
		p = &partialToolCall{index: index}
		c.partial[index] = p
	}
	p.id += id
	p.name += name
	p.arguments += arguments
}

// finalize returns the completed calls ordered by stream index.
func (c *toolCallCollector) finalize() []ToolCall {
	if len(c.partial) == 0 {
		return nil
	}

	ordered := make([]*partialToolCall, 0, len(c.partial))
	for _, p := range c.partial {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

	calls := make([]ToolCall, 0, len(ordered))
	for _, p := range ordered {
		args := p.arguments
		if args == "" {
			args = "{}"
		}
		calls = append(calls, ToolCall{
			ID:   p.id,
			Type: "function",
			Function: &FunctionCall{
				Name:      p.name,
				Arguments: args,
			},
			Name: p.name,
		})
	}
	return calls
}
