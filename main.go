package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deckhand-io/deckhand/internal/adapter/collection"
	"github.com/deckhand-io/deckhand/internal/adapter/llm"
	"github.com/deckhand-io/deckhand/internal/adapter/scryfall"
	"github.com/deckhand-io/deckhand/internal/config"
	"github.com/deckhand-io/deckhand/internal/history"
	"github.com/deckhand-io/deckhand/internal/policy"
	"github.com/deckhand-io/deckhand/internal/repository"
	"github.com/deckhand-io/deckhand/internal/secrets"
	"github.com/deckhand-io/deckhand/internal/service"
	"github.com/deckhand-io/deckhand/internal/tools"
	handler "github.com/deckhand-io/deckhand/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting deckhand...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("LLM: %s (%s)", cfg.LLMModel, cfg.LLMBaseURL)
	log.Printf("Card search: %s", cfg.ScryfallBaseURL)
	log.Printf("Collection backend: %s", cfg.CollectionBaseURL)

	// Credentials are resolved lazily on first use.
	creds := secrets.NewProvider()

	// Initialize external clients
	llmClient := llm.NewChatClient(cfg.LLMBaseURL, creds, cfg.LLMTimeout)
	cards := scryfall.NewClient(cfg.ScryfallBaseURL, cfg.SearchTimeout)
	backend := collection.NewClient(cfg.CollectionBaseURL, cfg.SchemaPath, cfg.TokenPath, creds, cfg.SchemaCacheTTL, cfg.BackendTimeout)

	// Initialize tool surface
	registry := tools.NewRegistry()
	tools.RegisterStatic(registry, cards)
	catalog := tools.NewCatalog(backend)
	dispatcher := tools.NewDispatcher(registry, backend)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize audit trail
	var audit repository.AuditStore
	if cfg.DatabaseURL != "" {
		store, err := repository.NewSQLiteAudit(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize audit store: %v", err)
		}
		defer store.Close()
		audit = store
	} else {
		log.Printf("DATABASE_URL empty, audit trail disabled")
	}

	// Initialize service
	curator := history.NewCurator(cfg.HistoryTextTurns)
	svc := service.New(llmClient, catalog, dispatcher, curator, policyEngine, audit, cfg)

	// Create and start HTTP server
	server := handler.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down deckhand...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Deckhand stopped")
}
