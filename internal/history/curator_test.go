package history

import (
	"testing"

	"github.com/deckhand-io/deckhand/internal/domain"
)

func text(role, content string) domain.Message {
	return domain.Message{Role: role, Content: content}
}

func callMsg(id, name, args string) domain.Message {
	return domain.Message{
		Role: domain.RoleAssistant,
		ToolCalls: []domain.ToolCall{
			{ID: id, Type: "function", Function: domain.ToolCallFunction{Name: name, Arguments: args}},
		},
	}
}

func resultMsg(id, content string) domain.Message {
	return domain.Message{Role: domain.RoleTool, ToolCallID: id, Content: content}
}

// checkPairing fails the test if any tool-call request lacks adjacent
// matching results, or any result lacks a preceding request.
func checkPairing(t *testing.T, msgs []domain.Message) {
	t.Helper()
	for i := 0; i < len(msgs); i++ {
		m := msgs[i]
		if m.Role == domain.RoleAssistant && len(m.ToolCalls) > 0 {
			for j, tc := range m.ToolCalls {
				k := i + 1 + j
				if k >= len(msgs) || msgs[k].Role != domain.RoleTool || msgs[k].ToolCallID != tc.ID {
					t.Fatalf("call %s at %d has no adjacent result", tc.ID, i)
				}
			}
			i += len(m.ToolCalls)
			continue
		}
		if m.Role == domain.RoleTool {
			t.Fatalf("orphan tool result %s at %d", m.ToolCallID, i)
		}
	}
}

func TestCurateStripsLeadingSystemAndDeveloper(t *testing.T) {
	c := NewCurator(6)
	out := c.Curate([]domain.Message{
		text(domain.RoleSystem, "old instructions"),
		text(domain.RoleDeveloper, "old dev note"),
		text(domain.RoleUser, "hello"),
	})
	if len(out) != 1 || out[0].Role != domain.RoleUser {
		t.Fatalf("expected only the user message, got %+v", out)
	}
}

func TestCurateDropsTrailingStructuredAssistant(t *testing.T) {
	c := NewCurator(6)
	out := c.Curate([]domain.Message{
		text(domain.RoleUser, "find a card"),
		callMsg("tc1", domain.ToolSearchCards, `{"name":"Shock"}`),
	})
	checkPairing(t, out)
	if len(out) != 1 {
		t.Fatalf("expected the dangling tool request dropped, got %+v", out)
	}
}

func TestCurateDropsOrphans(t *testing.T) {
	c := NewCurator(6)
	out := c.Curate([]domain.Message{
		resultMsg("ghost", `{"status":"success"}`),
		text(domain.RoleUser, "hi"),
		callMsg("tc1", domain.ToolSearchCards, `{}`),
		// result for tc1 missing; next turn follows
		text(domain.RoleAssistant, "which one?"),
	})
	checkPairing(t, out)
	for _, m := range out {
		if m.Role == domain.RoleTool || len(m.ToolCalls) > 0 {
			t.Fatalf("expected all tool structure dropped, got %+v", out)
		}
	}
}

func TestCurateSupersedesOlderSearches(t *testing.T) {
	c := NewCurator(6)
	out := c.Curate([]domain.Message{
		text(domain.RoleUser, "find Stomping Ground"),
		callMsg("tc1", domain.ToolSearchCards, `{"name":"Stomping Ground"}`),
		resultMsg("tc1", `{"status":"success","message":{"summary":["GPT #165","RTR #243"]}}`),
		text(domain.RoleAssistant, "which printing?"),
		text(domain.RoleUser, "the Guildpact one"),
		callMsg("tc2", domain.ToolSearchCards, `{"name":"Stomping Ground","set":"GPT"}`),
		resultMsg("tc2", `{"status":"success","message":{"summary":["GPT #165"]}}`),
	})
	checkPairing(t, out)

	var searchIDs []string
	for _, m := range out {
		for _, tc := range m.ToolCalls {
			if tc.Function.Name == domain.ToolSearchCards {
				searchIDs = append(searchIDs, tc.ID)
			}
		}
	}
	if len(searchIDs) != 1 || searchIDs[0] != "tc2" {
		t.Fatalf("expected only the newest search pair, got %v", searchIDs)
	}
	for _, m := range out {
		if m.ToolCallID == "tc1" {
			t.Fatalf("stale search result survived: %+v", out)
		}
	}
}

func TestCurateBoundsTextTurns(t *testing.T) {
	c := NewCurator(2)
	out := c.Curate([]domain.Message{
		text(domain.RoleUser, "one"),
		text(domain.RoleAssistant, "two"),
		text(domain.RoleUser, "three"),
		text(domain.RoleAssistant, "four"),
	})
	if len(out) != 2 || out[0].Content != "three" || out[1].Content != "four" {
		t.Fatalf("expected the two most recent text turns, got %+v", out)
	}
}

func TestCurateKeepsPairsDespiteTextBound(t *testing.T) {
	c := NewCurator(1)
	out := c.Curate([]domain.Message{
		text(domain.RoleUser, "find it"),
		callMsg("tc1", domain.ToolSearchCards, `{"name":"Shock"}`),
		resultMsg("tc1", `{"status":"success"}`),
		text(domain.RoleUser, "ok"),
	})
	checkPairing(t, out)
	found := false
	for _, m := range out {
		if len(m.ToolCalls) > 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("pair dropped by text bound: %+v", out)
	}
	if out[len(out)-1].Content != "ok" {
		t.Fatalf("expected newest text turn retained, got %+v", out)
	}
}

func TestCuratePhaseLockDropsOldAssistantChatter(t *testing.T) {
	c := NewCurator(10)
	out := c.Curate([]domain.Message{
		text(domain.RoleUser, "find Stomping Ground"),
		text(domain.RoleAssistant, "sure, let me look"),
		callMsg("sel", domain.ToolSelectCard, `{"set":"GPT","collector_number":"165"}`),
		resultMsg("sel", `{"status":"success","message":{"set":"GPT","collector_number":"165"}}`),
		text(domain.RoleUser, "add two copies"),
	})
	checkPairing(t, out)
	for _, m := range out {
		if m.Role == domain.RoleAssistant && m.Content == "sure, let me look" {
			t.Fatalf("pre-selection assistant chatter retained: %+v", out)
		}
	}
	if _, ok := SelectedCard(out); !ok {
		t.Fatalf("selection pair lost: %+v", out)
	}
}

func TestSelectedCard(t *testing.T) {
	msgs := []domain.Message{
		callMsg("sel", domain.ToolSelectCard, `{"set":"GPT","collector_number":"165"}`),
		resultMsg("sel", `{"status":"success"}`),
	}
	card, ok := SelectedCard(msgs)
	if !ok {
		t.Fatalf("expected a selected card")
	}
	if card.Set != "GPT" || card.CollectorNumber != "165" {
		t.Fatalf("unexpected card: %+v", card)
	}

	if _, ok := SelectedCard([]domain.Message{
		callMsg("sel", domain.ToolSelectCard, `{"set":"GPT"}`),
	}); ok {
		t.Fatalf("incomplete selection should not qualify")
	}
}
