package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/deckhand-io/deckhand/internal/adapter/llm"
	"github.com/deckhand-io/deckhand/internal/domain"
)

// ErrMissingMessage is returned when the inbound request carries no user
// message. It is a client error, not a server failure.
var ErrMissingMessage = errors.New("message is required")

// TurnObserver receives progress frames during a streaming turn.
type TurnObserver func(frame domain.StreamFrame)

// Chat runs one conversational turn and returns the full updated history.
// The caller must resend this exact array, plus its next user message, on the
// following turn.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	return s.chat(ctx, req, nil)
}

// ChatStream runs one turn, emitting progress frames to the observer. The
// final done frame is emitted by the transport layer.
func (s *Service) ChatStream(ctx context.Context, req domain.ChatRequest, observe TurnObserver) (*domain.ChatResponse, error) {
	return s.chat(ctx, req, observe)
}

func (s *Service) chat(ctx context.Context, req domain.ChatRequest, observe TurnObserver) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMissingMessage
	}

	requestID := "req_" + uuid.New().String()[:8]
	s.recordEvent(ctx, requestID, domain.EventTypeTurnStarted, map[string]interface{}{
		"history_len": len(req.Messages),
	})
	s.recordEvent(ctx, requestID, domain.EventTypeUserInput, map[string]string{
		"content": req.Message,
	})

	// ROUTING: reconstruct context and pick phase, instructions, and catalog.
	state := domain.TurnStateRouting
	curated := s.curator.Curate(req.Messages)
	phase := s.routePhase(ctx, curated)
	instructions := instructionsFor(phase)
	catalog := s.catalog.ForPhase(ctx, phase)
	emit(observe, domain.StreamFrame{Type: "phase", Phase: phase})

	working := append(curated, domain.Message{Role: domain.RoleUser, Content: req.Message})

	for turn := 0; turn < s.config.MaxTurns; turn++ {
		state = domain.TurnStateAwaitingModel
		resp, err := s.modelTurn(ctx, requestID, instructions, working, catalog)
		if err != nil {
			s.recordEvent(ctx, requestID, domain.EventTypeTurnFailed, map[string]string{"error": err.Error()})
			return nil, err
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
			return nil, fmt.Errorf("model returned no choices")
		}
		assistant := *resp.Choices[0].Message
		assistant.Role = domain.RoleAssistant
		working = append(working, assistant)

		if len(assistant.ToolCalls) == 0 {
			state = domain.TurnStateDone
			break
		}

		// EXECUTING_TOOLS: run requested calls in order, appending each
		// result immediately adjacent to its request.
		state = domain.TurnStateExecutingTools
		var lastSearch *searchOutcome
		for _, tc := range assistant.ToolCalls {
			lastSearch = nil
			result, search := s.executeToolCall(ctx, requestID, phase, tc, observe)
			working = append(working, result)
			if search != nil {
				lastSearch = search
			}

			if tc.Function.Name == domain.ToolSelectCard && phase != domain.PhaseOperate && isSuccess(result) {
				phase = domain.PhaseOperate
				instructions = instructionsFor(phase)
				catalog = s.catalog.ForPhase(ctx, phase)
				s.recordEvent(ctx, requestID, domain.EventTypePhaseChanged, map[string]string{"phase": string(phase)})
				emit(observe, domain.StreamFrame{Type: "phase", Phase: phase})
			}
		}

		// Disambiguation early exit: when the last tool executed was a card
		// search with several candidates, surface the list directly instead
		// of burning a model call just to ask the user to choose.
		if lastSearch != nil && len(lastSearch.details) > 1 {
			working = append(working, domain.Message{
				Role:    domain.RoleAssistant,
				Content: formatCandidates(lastSearch.details),
			})
			state = domain.TurnStateDone
			break
		}
	}

	if state != domain.TurnStateDone {
		// Model turn budget exhausted mid-tool-loop. Close the turn
		// conversationally rather than replaying a dangling tool exchange.
		working = append(working, domain.Message{
			Role:    domain.RoleAssistant,
			Content: "I wasn't able to finish that in one go. Could you rephrase or narrow down the request?",
		})
	}

	s.recordEvent(ctx, requestID, domain.EventTypeTurnDone, map[string]interface{}{
		"messages": len(working),
		"phase":    phase,
	})
	return &domain.ChatResponse{Messages: working}, nil
}

// modelTurn sends the tool-enabled completion call for the current loop pass.
func (s *Service) modelTurn(ctx context.Context, requestID, instructions string, working []domain.Message, catalog []domain.ToolDescriptor) (*llm.ChatCompletionResponse, error) {
	messages := make([]domain.Message, 0, len(working)+1)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: instructions})
	messages = append(messages, working...)

	temperature := s.config.LLMTemperature
	resp, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:       s.config.LLMModel,
		Messages:    messages,
		Temperature: &temperature,
		Tools:       llm.FunctionTools(catalog),
		ToolChoice:  "auto",
	})
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, requestID, domain.EventTypeModelCallDone, map[string]interface{}{
		"model": resp.Model,
		"usage": resp.Usage,
	})
	return resp, nil
}

// searchOutcome carries the full card-search records for the early-exit
// listing; only the terse summary goes back into history.
type searchOutcome struct {
	details []domain.Printing
}

// executeToolCall dispatches one requested call and returns the paired tool
// result message. Failures are converted to error-shaped results; nothing
// escapes past this boundary.
func (s *Service) executeToolCall(ctx context.Context, requestID string, phase domain.Phase, tc domain.ToolCall, observe TurnObserver) (domain.Message, *searchOutcome) {
	name := tc.Function.Name
	args := json.RawMessage(tc.Function.Arguments)
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	emit(observe, domain.StreamFrame{Type: "tool_call", ToolName: name})
	s.recordEvent(ctx, requestID, domain.EventTypeToolDispatched, map[string]interface{}{
		"tool_name": name,
		"args":      args,
	})

	var result domain.ToolResult
	var search *searchOutcome
	switch {
	case !s.dispatcher.Has(ctx, name):
		// Unknown tool: skip execution, but still pair the request with an
		// error result so the history stays replayable.
		log.Printf("WARN: no executor registered for tool %s, skipping", name)
		result = domain.ErrorResult(fmt.Sprintf("no executor registered for %s", name))
	case !s.allowedByPolicy(ctx, requestID, phase, name, args):
		result = domain.ErrorResult(fmt.Sprintf("tool %s is not allowed before a card has been selected", name))
	default:
		result = s.dispatcher.Dispatch(ctx, name, args)
		if name == domain.ToolSearchCards && result.Status == "success" {
			result, search = splitSearchResult(result)
		}
	}

	s.recordEvent(ctx, requestID, domain.EventTypeToolResult, map[string]interface{}{
		"tool_name": name,
		"status":    result.Status,
	})
	emit(observe, domain.StreamFrame{Type: "tool_result", ToolName: name, Status: result.Status})

	content, err := json.Marshal(result)
	if err != nil {
		content = []byte(`{"status":"error","message":"failed to encode tool result"}`)
	}
	return domain.Message{
		Role:       domain.RoleTool,
		ToolCallID: tc.ID,
		Content:    string(content),
	}, search
}

// allowedByPolicy evaluates the tool policy. Evaluation errors fail open with
// a warning: policy is a guard rail, not a hard dependency.
func (s *Service) allowedByPolicy(ctx context.Context, requestID string, phase domain.Phase, name string, args json.RawMessage) bool {
	if s.policyEngine == nil {
		return true
	}

	input := map[string]interface{}{
		"tool_name": name,
		"phase":     string(phase),
	}
	var argMap map[string]interface{}
	if err := json.Unmarshal(args, &argMap); err == nil {
		input["args"] = argMap
	} else {
		input["args"] = map[string]interface{}{}
	}

	decision, reason, err := s.policyEngine.Evaluate(ctx, input)
	if err != nil {
		log.Printf("WARN: policy evaluation failed for %s: %v", name, err)
		return true
	}
	s.recordEvent(ctx, requestID, domain.EventTypePolicyDecision, map[string]string{
		"tool_name": name,
		"decision":  decision,
		"reason":    reason,
	})
	return decision != "block"
}

// splitSearchResult replaces the search result's payload with its terse
// summary half and extracts the full records for the caller.
func splitSearchResult(result domain.ToolResult) (domain.ToolResult, *searchOutcome) {
	encoded, err := json.Marshal(result.Message)
	if err != nil {
		return result, nil
	}
	var payload struct {
		TotalFound int               `json:"total_found"`
		HasMore    bool              `json:"has_more"`
		Summary    []string          `json:"summary"`
		Details    []domain.Printing `json:"details"`
	}
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return result, nil
	}

	condensed := map[string]interface{}{
		"total_found": payload.TotalFound,
		"summary":     payload.Summary,
	}
	if payload.HasMore {
		condensed["has_more"] = true
	}
	return domain.SuccessResult(condensed), &searchOutcome{details: payload.Details}
}

func isSuccess(result domain.Message) bool {
	var envelope struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(result.Content), &envelope); err != nil {
		return false
	}
	return envelope.Status == "success"
}

func formatCandidates(printings []domain.Printing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %d printings that match. Which one do you mean?\n", len(printings))
	for _, p := range printings {
		fmt.Fprintf(&sb, "\n- %s (%s #%s)", p.Name, p.Set, p.CollectorNumber)
		if p.SetName != "" {
			fmt.Fprintf(&sb, " from %s", p.SetName)
		}
	}
	return sb.String()
}

func emit(observe TurnObserver, frame domain.StreamFrame) {
	if observe != nil {
		observe(frame)
	}
}
