// Package service implements the orchestration loop for one conversational
// turn: curate history, route the phase, call the model, execute tool calls,
// and repeat until the model produces a plain answer.
package service

import (
	"github.com/deckhand-io/deckhand/internal/adapter/llm"
	"github.com/deckhand-io/deckhand/internal/config"
	"github.com/deckhand-io/deckhand/internal/history"
	"github.com/deckhand-io/deckhand/internal/policy"
	"github.com/deckhand-io/deckhand/internal/repository"
	"github.com/deckhand-io/deckhand/internal/tools"
)

// Service holds the collaborators for the orchestration loop.
type Service struct {
	llmClient    llm.ChatClient
	catalog      *tools.Catalog
	dispatcher   *tools.Dispatcher
	curator      *history.Curator
	policyEngine *policy.Engine
	audit        repository.AuditStore
	config       *config.Config
}

// New creates a service. audit may be nil to disable the audit trail.
func New(llmClient llm.ChatClient, catalog *tools.Catalog, dispatcher *tools.Dispatcher, curator *history.Curator, policyEngine *policy.Engine, audit repository.AuditStore, cfg *config.Config) *Service {
	return &Service{
		llmClient:    llmClient,
		catalog:      catalog,
		dispatcher:   dispatcher,
		curator:      curator,
		policyEngine: policyEngine,
		audit:        audit,
		config:       cfg,
	}
}
