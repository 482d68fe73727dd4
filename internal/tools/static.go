package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deckhand-io/deckhand/internal/adapter/scryfall"
	"github.com/deckhand-io/deckhand/internal/domain"
)

// SearchResult is the card-search executor's payload. Summary is the terse
// half intended for the model; Details carries the full records for direct
// display to the user.
type SearchResult struct {
	TotalFound int               `json:"total_found"`
	HasMore    bool              `json:"has_more,omitempty"`
	Summary    []string          `json:"summary"`
	Details    []domain.Printing `json:"details,omitempty"`
}

// RegisterStatic wires the static tool executors into the registry.
func RegisterStatic(reg *Registry, cards *scryfall.Client) {
	reg.MustRegister(domain.ToolSearchCards, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var filters domain.SearchFilters
		if err := json.Unmarshal(args, &filters); err != nil {
			return nil, fmt.Errorf("invalid search arguments: %w", err)
		}
		page, err := cards.Search(ctx, filters)
		if err != nil {
			return nil, err
		}
		result := SearchResult{
			TotalFound: page.TotalCards,
			HasMore:    page.HasMore,
			Summary:    make([]string, 0, len(page.Printings)),
			Details:    page.Printings,
		}
		for _, p := range page.Printings {
			result.Summary = append(result.Summary, p.Summary())
		}
		return json.Marshal(result)
	})

	reg.MustRegister(domain.ToolSelectCard, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		// The marker tool performs no external call: it echoes the model's
		// validated arguments back as the canonical selected-card record.
		var card domain.SelectedCard
		if err := json.Unmarshal(args, &card); err != nil {
			return nil, fmt.Errorf("invalid select arguments: %w", err)
		}
		if card.Set == "" {
			return nil, fmt.Errorf("set is required")
		}
		if card.CollectorNumber == "" {
			return nil, fmt.Errorf("collector_number is required")
		}
		return json.Marshal(card)
	})

	reg.MustRegister(domain.ToolCardRulings, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var card domain.SelectedCard
		if err := json.Unmarshal(args, &card); err != nil {
			return nil, fmt.Errorf("invalid rulings arguments: %w", err)
		}
		if card.Set == "" || card.CollectorNumber == "" {
			return nil, fmt.Errorf("set and collector_number are required")
		}
		rulings, err := cards.Rulings(ctx, card.Set, card.CollectorNumber)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]interface{}{"rulings": rulings})
	})
}
