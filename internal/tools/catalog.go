// Package tools builds the per-phase tool catalog and dispatches requested
// tool calls to their executors.
package tools

import (
	"context"
	"log"
	"sort"

	"github.com/deckhand-io/deckhand/internal/adapter/collection"
	"github.com/deckhand-io/deckhand/internal/domain"
)

// Catalog decides which tool descriptors are exposed to the model for a
// given phase.
type Catalog struct {
	collection *collection.Client
}

// NewCatalog creates a catalog builder.
func NewCatalog(col *collection.Client) *Catalog {
	return &Catalog{collection: col}
}

// ForPhase returns the descriptors for the phase. The identify phase exposes
// the static tools; the operate phase additionally exposes the backend-derived
// set so the model can still refine a search after selection.
func (c *Catalog) ForPhase(ctx context.Context, phase domain.Phase) []domain.ToolDescriptor {
	descriptors := StaticDescriptors()
	if phase != domain.PhaseOperate {
		return descriptors
	}

	ops, err := c.collection.Operations(ctx)
	if err != nil {
		// Degrade to an empty dynamic set: the model will have no backend
		// tools this turn and must say so.
		log.Printf("WARN: backend schema retrieval failed, no collection tools this turn: %v", err)
		return descriptors
	}
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		descriptors = append(descriptors, ops[name].Descriptor())
	}
	return descriptors
}

// StaticDescriptors returns the fixed identify-phase tool descriptors.
func StaticDescriptors() []domain.ToolDescriptor {
	return []domain.ToolDescriptor{
		{
			Name:        domain.ToolSearchCards,
			Description: "Search for card printings by any combination of filters. Filters combine conjunctively; results are limited to physical printings and include every printing of matching cards.",
			Parameters: domain.ObjectSchema(map[string]*domain.Schema{
				"name":      {Type: "string", Description: "Substring of the card name."},
				"oracle":    {Type: "string", Description: "Keywords to match in rules text."},
				"type_line": {Type: "string", Description: "Card type, e.g. 'creature' or 'legendary sorcery'."},
				"colors": {
					Type:        "array",
					Description: "Color identity letters.",
					Items:       &domain.Schema{Type: "string", Enum: []string{"W", "U", "B", "R", "G", "C"}},
				},
				"set":      {Type: "string", Description: "Three-to-five letter set code, e.g. 'GPT'."},
				"reserved": {Type: "boolean", Description: "Restrict to (or exclude) reserved-list cards."},
				"page":     {Type: "integer", Description: "Result page, starting at 1."},
				"order": {
					Type:        "string",
					Description: "Sort field.",
					Enum:        []string{"name", "set", "released", "rarity"},
				},
				"direction": {
					Type:        "string",
					Description: "Sort direction.",
					Enum:        []string{"asc", "desc"},
				},
			}),
		},
		{
			Name:        domain.ToolSelectCard,
			Description: "Mark a single printing as the unambiguous card the user means. Call this only after a search has confirmed the exact set code and collector number.",
			Parameters: domain.ObjectSchema(map[string]*domain.Schema{
				"set":              {Type: "string", Description: "Set code of the chosen printing."},
				"collector_number": {Type: "string", Description: "Collector number of the chosen printing."},
				"image_url":        {Type: "string", Description: "Image URL from the search result, if available."},
			}, "set", "collector_number"),
		},
		{
			Name:        domain.ToolCardRulings,
			Description: "Look up published rulings for a specific printing.",
			Parameters: domain.ObjectSchema(map[string]*domain.Schema{
				"set":              {Type: "string", Description: "Set code."},
				"collector_number": {Type: "string", Description: "Collector number."},
			}, "set", "collector_number"),
		},
	}
}
