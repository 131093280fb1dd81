package agent

import (
	"context"
	"fmt"

	"github.com/nvillagra/sage/internal/domain/tool"
	"github.com/nvillagra/sage/internal/infra/llm"
)

// Orchestrator drives a single research turn: ensure the system preamble,
// route the latest user question to at most one tool, fold the tool output
// into the completion context, and append the assistant answer.
//
// RunTurn never returns an error. Provider failures degrade to a fixed
// fallback answer so the surfaces above it always have something to say.
type Orchestrator struct {
	provider llm.LLMProvider
	tools    *tool.Registry
}

// NewOrchestrator wires an orchestrator over a completion provider and a
// tool registry. Both are required.
func NewOrchestrator(provider llm.LLMProvider, tools *tool.Registry) *Orchestrator {
	return &Orchestrator{provider: provider, tools: tools}
}

// RunTurn executes one conversational turn. It returns the updated
// conversation (a fresh slice, the input is never mutated) and the tool
// invocations made during the turn, in order. At most one tool fires per
// turn.
func (o *Orchestrator) RunTurn(ctx context.Context, conversation []Message) ([]Message, []ToolInvocation) {
	conv := ensureSystemMessage(conversation)

	lastUser := -1
	for i := len(conv) - 1; i >= 0; i-- {
		if conv[i].Role == RoleUser {
			lastUser = i
			break
		}
	}
	if lastUser < 0 {
		return append(conv, Message{Role: RoleAssistant, Content: ClarificationRequest}), nil
	}

	var invocations []ToolInvocation

	// The completion context is a private copy: tool output is folded into
	// the last user message there, while the conversation we return keeps
	// the user's words untouched.
	llmConv := conv
	if name, argument := RouteIntent(conv[lastUser].Content); name != "" {
		// A routed name missing from the registry means no tool fires at
		// all: no invocation is recorded and nothing is folded in.
		if t, err := o.tools.Get(name); err == nil {
			inv := invoke(ctx, t, name, argument)
			invocations = append(invocations, inv)

			llmConv = make([]Message, len(conv))
			copy(llmConv, conv)
			llmConv[lastUser] = Message{
				Role: RoleUser,
				Content: fmt.Sprintf(
					"%s\n\nTool %s was consulted and returned:\n%s\n\nUse this result when answering.",
					conv[lastUser].Content, inv.Tool, inv.Result,
				),
			}
		}
	}

	answer := o.complete(ctx, llmConv)
	return append(conv, Message{Role: RoleAssistant, Content: answer}), invocations
}

func invoke(ctx context.Context, t tool.Tool, name, argument string) ToolInvocation {
	inv := ToolInvocation{Tool: name, Argument: argument}

	result, err := t.Invoke(ctx, argument)
	if err != nil {
		inv.Result = fmt.Sprintf("Tool error: %v", err)
		return inv
	}
	inv.Result = result
	inv.Succeeded = true
	return inv
}

func (o *Orchestrator) complete(ctx context.Context, conv []Message) string {
	req := llm.ChatRequest{Messages: toProviderMessages(conv), Temperature: 0}
	resp, err := o.provider.ChatCompletion(ctx, req)
	if err != nil || resp == nil || resp.Content == "" {
		return FallbackAnswer
	}
	return resp.Content
}

func toProviderMessages(conv []Message) []llm.Message {
	out := make([]llm.Message, len(conv))
	for i, m := range conv {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

// ensureSystemMessage guarantees the system preamble sits at index 0,
// copying the slice so callers never observe their input changing.
func ensureSystemMessage(conversation []Message) []Message {
	if len(conversation) > 0 && conversation[0].Role == RoleSystem {
		out := make([]Message, len(conversation), len(conversation)+1)
		copy(out, conversation)
		return out
	}
	out := make([]Message, 0, len(conversation)+2)
	out = append(out, Message{Role: RoleSystem, Content: SystemPreamble})
	return append(out, conversation...)
}
