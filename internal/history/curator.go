// Package history curates client-supplied message history into a bounded,
// de-duplicated context safe to resupply to the model.
package history

import (
	"encoding/json"

	"github.com/deckhand-io/deckhand/internal/domain"
)

// Curator applies the pruning policy. The input may be arbitrarily long and
// malformed (orphaned tool entries, leaked system messages); the output always
// satisfies the pairing invariant: every retained tool-call request has its
// matching results immediately adjacent, and no result lacks a request.
type Curator struct {
	// MaxTextTurns bounds how many of the most recent plain user/assistant
	// text messages are retained.
	MaxTextTurns int
}

// NewCurator creates a curator with the given text-turn bound.
func NewCurator(maxTextTurns int) *Curator {
	if maxTextTurns <= 0 {
		maxTextTurns = 6
	}
	return &Curator{MaxTextTurns: maxTextTurns}
}

// unit is one retainable slice of history: either a single plain-text message
// or a tool-call request message plus its adjacent results.
type unit struct {
	messages []domain.Message
	isText   bool
	// first tool name of a pair unit, "" for text units
	toolName string
}

// Curate produces the cleaned history.
func (c *Curator) Curate(messages []domain.Message) []domain.Message {
	msgs := messages

	// Rule 1-2: strip any leading system or instruction-only message. A fresh
	// instruction prefix is prepended on every model call.
	for len(msgs) > 0 && (msgs[0].Role == domain.RoleSystem || msgs[0].Role == domain.RoleDeveloper) {
		msgs = msgs[1:]
	}

	// Rule 3: a trailing assistant message carrying tool-call structure is a
	// leaked artifact, not a user-facing reply. Drop it.
	for len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		if last.Role == domain.RoleAssistant && len(last.ToolCalls) > 0 {
			msgs = msgs[:len(msgs)-1]
			continue
		}
		break
	}

	units := parseUnits(msgs)
	units = supersede(units, domain.ToolSearchCards)
	units = c.boundTextTurns(units)
	units = phaseLock(units)

	var out []domain.Message
	for _, u := range units {
		out = append(out, u.messages...)
	}
	return out
}

// SelectedCard returns the card asserted by the most recent retained
// select-card pair, if any. The value is parsed from the model's own tool
// arguments, never synthesized.
func SelectedCard(messages []domain.Message) (*domain.SelectedCard, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role != domain.RoleAssistant {
			continue
		}
		for _, tc := range m.ToolCalls {
			if tc.Function.Name != domain.ToolSelectCard {
				continue
			}
			var card domain.SelectedCard
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &card); err != nil {
				continue
			}
			if card.Set == "" || card.CollectorNumber == "" {
				continue
			}
			return &card, true
		}
	}
	return nil, false
}

// parseUnits groups messages into retainable units, dropping anything that
// would violate the pairing invariant: requests with missing results, results
// with no preceding request, and non-conversational roles.
func parseUnits(msgs []domain.Message) []unit {
	var units []unit
	for i := 0; i < len(msgs); i++ {
		m := msgs[i]
		switch {
		case m.Role == domain.RoleAssistant && len(m.ToolCalls) > 0:
			pair, consumed, ok := collectPair(msgs, i)
			i += consumed
			if ok {
				units = append(units, pair)
			}
		case m.Role == domain.RoleTool:
			// Orphan result: no preceding request claimed it.
			continue
		case (m.Role == domain.RoleUser || m.Role == domain.RoleAssistant) && m.Content != "":
			units = append(units, unit{messages: []domain.Message{m}, isText: true})
		default:
			// Empty or foreign-role entries are dropped.
		}
	}
	return units
}

// collectPair gathers the tool results adjacent to the request at msgs[i].
// Returns the unit, how many extra messages were consumed, and whether the
// pair is complete.
func collectPair(msgs []domain.Message, i int) (unit, int, bool) {
	req := msgs[i]
	wanted := make(map[string]bool, len(req.ToolCalls))
	for _, tc := range req.ToolCalls {
		wanted[tc.ID] = true
	}

	pair := unit{messages: []domain.Message{req}, toolName: req.ToolCalls[0].Function.Name}
	consumed := 0
	for j := i + 1; j < len(msgs) && msgs[j].Role == domain.RoleTool; j++ {
		consumed++
		if wanted[msgs[j].ToolCallID] {
			delete(wanted, msgs[j].ToolCallID)
			pair.messages = append(pair.messages, msgs[j])
		}
		// Results for unknown ids are dropped with the consumed run.
	}
	return pair, consumed, len(wanted) == 0
}

// supersede keeps only the most recent pair unit whose request includes the
// named tool, dropping earlier ones entirely.
func supersede(units []unit, tool string) []unit {
	last := -1
	for i, u := range units {
		if !u.isText && u.messages[0].HasToolCall(tool) {
			last = i
		}
	}
	if last < 0 {
		return units
	}
	out := units[:0]
	for i, u := range units {
		if i != last && !u.isText && u.messages[0].HasToolCall(tool) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// boundTextTurns retains only the most recent MaxTextTurns plain text units.
// Pair units are never subject to the bound.
func (c *Curator) boundTextTurns(units []unit) []unit {
	textCount := 0
	for _, u := range units {
		if u.isText {
			textCount++
		}
	}
	drop := textCount - c.MaxTextTurns
	if drop <= 0 {
		return units
	}
	out := units[:0]
	for _, u := range units {
		if u.isText && drop > 0 {
			drop--
			continue
		}
		out = append(out, u)
	}
	return out
}

// phaseLock drops assistant free-text units preceding a retained select-card
// pair, so the next turn's context centers on the selected card plus the
// newest user request.
func phaseLock(units []unit) []unit {
	selectAt := -1
	for i, u := range units {
		if !u.isText && u.messages[0].HasToolCall(domain.ToolSelectCard) {
			selectAt = i
		}
	}
	if selectAt < 0 {
		return units
	}
	out := units[:0]
	for i, u := range units {
		if i < selectAt && u.isText && u.messages[0].Role == domain.RoleAssistant {
			continue
		}
		out = append(out, u)
	}
	return out
}
