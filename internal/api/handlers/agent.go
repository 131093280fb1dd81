package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nvillagra/sage/internal/domain/agent"
	"github.com/nvillagra/sage/internal/domain/citations"
	"github.com/nvillagra/sage/internal/domain/history"
	"github.com/nvillagra/sage/internal/infra/eventbus"
)

// TurnRunner is the orchestrator surface the handlers need: one call per
// conversational turn, never failing.
type TurnRunner interface {
	RunTurn(ctx context.Context, conversation []agent.Message) ([]agent.Message, []agent.ToolInvocation)
}

// AgentHandler serves the query and chat endpoints. The bus is optional;
// when present, each answered turn is published for the history recorder.
type AgentHandler struct {
	runner TurnRunner
	bus    eventbus.EventBus
}

func NewAgentHandler(runner TurnRunner, bus eventbus.EventBus) *AgentHandler {
	return &AgentHandler{runner: runner, bus: bus}
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answer         string                `json:"answer"`
	Question       string                `json:"question"`
	ToolsUsed      []string              `json:"tools_used,omitempty"`
	ProcessingTime float64               `json:"processing_time"`
	Structured     *citations.Structured `json:"structured,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Message        chatMessage           `json:"message"`
	ToolsUsed      []string              `json:"tools_used,omitempty"`
	ProcessingTime float64               `json:"processing_time"`
	Structured     *citations.Structured `json:"structured,omitempty"`
}

// Query handles POST /api/query: one question, one answer, no prior context.
func (h *AgentHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	start := time.Now()
	conversation, invocations := h.runner.RunTurn(r.Context(), []agent.Message{
		{Role: agent.RoleUser, Content: req.Question},
	})
	answer := lastAssistantMessage(conversation)
	elapsed := time.Since(start)

	h.publishTurn(req.Question, answer, invocations, elapsed)

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:         answer,
		Question:       req.Question,
		ToolsUsed:      toolsUsed(invocations),
		ProcessingTime: processingSeconds(elapsed),
		Structured:     citations.Extract(answer),
	})
}

// Chat handles POST /api/chat: a multi-turn conversation where the client
// resends the full message history each time.
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}

	conversation := make([]agent.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case agent.RoleUser, agent.RoleAssistant, agent.RoleSystem:
			conversation = append(conversation, agent.Message{Role: m.Role, Content: m.Content})
		default:
			writeError(w, http.StatusBadRequest, "unknown message role: "+m.Role)
			return
		}
	}

	start := time.Now()
	updated, invocations := h.runner.RunTurn(r.Context(), conversation)
	answer := lastAssistantMessage(updated)
	elapsed := time.Since(start)

	h.publishTurn(lastUserContent(conversation), answer, invocations, elapsed)

	writeJSON(w, http.StatusOK, chatResponse{
		Message:        chatMessage{Role: agent.RoleAssistant, Content: answer},
		ToolsUsed:      toolsUsed(invocations),
		ProcessingTime: processingSeconds(elapsed),
		Structured:     citations.Extract(answer),
	})
}

func (h *AgentHandler) publishTurn(question, answer string, invocations []agent.ToolInvocation, elapsed time.Duration) {
	if h.bus == nil {
		return
	}
	h.bus.Publish(eventbus.TopicTurnCompleted, history.TurnCompleted{
		Question:    question,
		Answer:      answer,
		Invocations: invocations,
		Latency:     elapsed,
	})
}

func lastUserContent(conversation []agent.Message) string {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role == agent.RoleUser {
			return conversation[i].Content
		}
	}
	return ""
}
