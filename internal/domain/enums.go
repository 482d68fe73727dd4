// Package domain defines the core domain models for the concierge.
package domain

// Phase selects which workflow stage governs the current turn's instructions
// and tool catalog.
type Phase string

const (
	// PhaseIdentify is the card-identification stage: the user and model are
	// still narrowing down to a single printing.
	PhaseIdentify Phase = "identify"
	// PhaseOperate is the collection-operation stage: a printing has been
	// selected and backend CRUD tools are available.
	PhaseOperate Phase = "operate"
)

// TurnState names the orchestration loop states for one inbound request.
type TurnState string

const (
	TurnStateRouting        TurnState = "ROUTING"
	TurnStateAwaitingModel  TurnState = "AWAITING_MODEL"
	TurnStateExecutingTools TurnState = "EXECUTING_TOOLS"
	TurnStateDone           TurnState = "DONE"
)

// EventType labels audit trail events.
type EventType string

const (
	EventTypeTurnStarted    EventType = "turn_started"
	EventTypeUserInput      EventType = "user_input"
	EventTypeModelCallDone  EventType = "model_call_done"
	EventTypePolicyDecision EventType = "policy_decision"
	EventTypeToolDispatched EventType = "tool_dispatched"
	EventTypeToolResult     EventType = "tool_result"
	EventTypePhaseChanged   EventType = "phase_changed"
	EventTypeTurnDone       EventType = "turn_done"
	EventTypeTurnFailed     EventType = "turn_failed"
)
