// Package agent drives the tool-calling conversation loop: it feeds the
// session transcript to the model, streams text back to the caller,
// executes requested tools, and persists the finished transcript.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/myspotipal/spotipal/pkg/logger"
	"github.com/myspotipal/spotipal/pkg/providers"
	"github.com/myspotipal/spotipal/pkg/session"
	"github.com/myspotipal/spotipal/pkg/tools"
)

const (
	defaultMaxToolIterations = 10

	// Output channel capacity. Sends select on ctx.Done so an abandoned
	// consumer cancels the run instead of wedging it.
	fragmentBuffer = 16

	apologyFragment = "I'm sorry, something went wrong while answering that. Please try again."

	giveUpFragment = "\n\nI couldn't finish gathering everything for that request, so here is what I have so far."
)

// Orchestrator owns the working transcript for the duration of one Run
// and writes it back to the store exactly once, at completion. Concurrent
// runs against the same session id serialize on a per-session lock.
type Orchestrator struct {
	provider providers.LLMProvider
	registry *tools.Registry
	store    session.Store
	model    string

	maxToolIterations int
	chatOptions       map[string]any

	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

type Option func(*Orchestrator)

func WithMaxToolIterations(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxToolIterations = n
		}
	}
}

// WithChatOptions sets provider options such as max_tokens and
// temperature passed through on every model call.
func WithChatOptions(options map[string]any) Option {
	return func(o *Orchestrator) {
		o.chatOptions = options
	}
}

func New(provider providers.LLMProvider, registry *tools.Registry, store session.Store, model string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:          provider,
		registry:          registry,
		store:             store,
		model:             model,
		maxToolIterations: defaultMaxToolIterations,
		sessionLocks:      make(map[string]*sync.Mutex),
	}
	if o.model == "" {
		o.model = provider.GetDefaultModel()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Run answers one user query within a session. The returned channel
// carries text fragments whose concatenation is the complete answer;
// chunk boundaries carry no meaning. The channel closes when the run
// completes or aborts. Cancelling ctx abandons the run without
// persisting.
func (o *Orchestrator) Run(ctx context.Context, sessionID, query string) <-chan string {
	out := make(chan string, fragmentBuffer)
	go func() {
		defer close(out)
		o.run(ctx, sessionID, query, out)
	}()
	return out
}

func (o *Orchestrator) sessionLock(id string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.sessionLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		o.sessionLocks[id] = lock
	}
	return lock
}

func (o *Orchestrator) run(ctx context.Context, sessionID, query string, out chan<- string) {
	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	emit := func(fragment string) bool {
		if fragment == "" {
			return true
		}
		select {
		case out <- fragment:
			return true
		case <-ctx.Done():
			return false
		}
	}

	history, err := o.store.Load(ctx, sessionID)
	if err != nil {
		logger.ErrorCF("agent", "failed to load session", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		emit(apologyFragment)
		return
	}

	if len(history) == 0 {
		history = append(history, providers.Message{Role: "system", Content: systemPrompt})
	}
	history = append(history, providers.Message{Role: "user", Content: query})

	defs := o.registry.Definitions()

	// The final assistant message carries everything the model said across
	// all rounds, concatenated, exactly as the caller saw it.
	var responseText strings.Builder

	onDelta := func(delta string) {
		select {
		case out <- delta:
		case <-ctx.Done():
		}
	}

	for round := 0; ; round++ {
		if round >= o.maxToolIterations {
			logger.WarnCF("agent", "tool iteration cap reached", map[string]any{
				"session_id": sessionID,
				"rounds":     round,
			})
			emit(giveUpFragment)
			responseText.WriteString(giveUpFragment)
			o.finish(ctx, sessionID, history, responseText.String())
			return
		}

		resp, err := o.provider.ChatStream(ctx, history, defs, o.model, o.chatOptions, onDelta)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.ErrorCF("agent", "model call failed", map[string]any{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			emit(apologyFragment)
			return
		}
		responseText.WriteString(resp.Content)

		if len(resp.ToolCalls) == 0 {
			o.finish(ctx, sessionID, history, responseText.String())
			return
		}

		for _, call := range resp.ToolCalls {
			result, err := o.registry.Execute(ctx, call)
			if err != nil {
				var parseErr *tools.ArgumentParseError
				if errors.As(err, &parseErr) {
					// Fatal to this call only; tell the model what went
					// wrong and let it recover.
					logger.WarnCF("agent", "tool arguments failed to parse", map[string]any{
						"tool": parseErr.Tool,
					})
					result = fmt.Sprintf(`{"error": %q}`, parseErr.Error())
				} else {
					if ctx.Err() != nil {
						return
					}
					logger.ErrorCF("agent", "tool execution failed", map[string]any{
						"session_id": sessionID,
						"tool":       call.FunctionName(),
						"error":      err.Error(),
					})
					emit(apologyFragment)
					return
				}
			}

			history = append(history,
				providers.Message{
					Role:      "assistant",
					ToolCalls: []providers.ToolCall{call},
				},
				providers.Message{
					Role:       "tool",
					Content:    result,
					ToolCallID: call.ID,
				},
			)
		}
	}
}

// finish appends the final assistant message and persists the transcript.
// This is the only write back to the store in a run.
func (o *Orchestrator) finish(ctx context.Context, sessionID string, history []providers.Message, responseText string) {
	if ctx.Err() != nil {
		return
	}
	history = append(history, providers.Message{Role: "assistant", Content: responseText})
	if err := o.store.Save(ctx, sessionID, history); err != nil {
		logger.ErrorCF("agent", "failed to persist session", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}
	logger.DebugCF("agent", "run complete", map[string]any{
		"session_id": sessionID,
		"messages":   len(history),
	})
}
