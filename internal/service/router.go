package service

import (
	"context"
	"log"
	"strings"

	"github.com/deckhand-io/deckhand/internal/adapter/llm"
	"github.com/deckhand-io/deckhand/internal/domain"
	"github.com/deckhand-io/deckhand/internal/history"
)

// routePhase decides which workflow phase governs this turn, from the curated
// history alone. Phase is always recomputable from the replayed messages;
// nothing is cached server-side.
func (s *Service) routePhase(ctx context.Context, curated []domain.Message) domain.Phase {
	if s.config.RouterMode == "model" {
		return s.classifyPhase(ctx, curated)
	}
	return structuralPhase(curated)
}

// structuralPhase inspects history for a retained, non-superseded select-card
// pair.
func structuralPhase(curated []domain.Message) domain.Phase {
	if _, ok := history.SelectedCard(curated); ok {
		return domain.PhaseOperate
	}
	return domain.PhaseIdentify
}

// classifyPhase asks the model whether a printing has been unambiguously
// identified. Malformed classifier output defaults silently to the
// identification phase.
func (s *Service) classifyPhase(ctx context.Context, curated []domain.Message) domain.Phase {
	messages := make([]domain.Message, 0, len(curated)+1)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: classifierInstructions})
	messages = append(messages, curated...)

	resp, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:    s.config.LLMModel,
		Messages: messages,
	})
	if err != nil {
		log.Printf("WARN: phase classification failed, defaulting to identify: %v", err)
		return domain.PhaseIdentify
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return domain.PhaseIdentify
	}

	switch strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content)) {
	case string(domain.PhaseOperate):
		return domain.PhaseOperate
	default:
		return domain.PhaseIdentify
	}
}

// instructionsFor returns the system instructions for the phase.
func instructionsFor(phase domain.Phase) string {
	if phase == domain.PhaseOperate {
		return operateInstructions
	}
	return identifyInstructions
}
