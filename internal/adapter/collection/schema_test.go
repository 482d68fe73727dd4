package collection

import (
	"encoding/json"
	"testing"
)

const sampleSchema = `{
	"paths": {
		"/cards": {
			"get": {
				"operationId": "listCards",
				"summary": "List collection entries",
				"parameters": [
					{"name": "page", "in": "query", "schema": {"type": "integer"}}
				]
			},
			"post": {
				"operationId": "createCard",
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"type": "object",
								"properties": {
									"set": {"type": "string"},
									"collector_number": {"type": "string"},
									"quantity": {"type": "integer"}
								},
								"required": ["set", "collector_number"]
							}
						}
					}
				}
			}
		},
		"/cards/{id}": {
			"delete": {
				"parameters": [
					{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
				]
			}
		}
	}
}`

func parseSample(t *testing.T) map[string]Operation {
	t.Helper()
	var doc document
	if err := json.Unmarshal([]byte(sampleSchema), &doc); err != nil {
		t.Fatalf("failed to parse sample schema: %v", err)
	}
	return resolveOperations(&doc)
}

func TestResolveOperationsNames(t *testing.T) {
	ops := parseSample(t)
	for _, want := range []string{"collection_listCards", "collection_createCard", "collection_delete_cards_id"} {
		if _, ok := ops[want]; !ok {
			t.Fatalf("missing operation %s (have %v)", want, keys(ops))
		}
	}
}

func TestDescriptorMergesBodyAndParameters(t *testing.T) {
	ops := parseSample(t)

	desc := ops["collection_createCard"].Descriptor()
	if desc.Parameters == nil {
		t.Fatalf("expected parameters")
	}
	for _, prop := range []string{"set", "collector_number", "quantity"} {
		if _, ok := desc.Parameters.Properties[prop]; !ok {
			t.Fatalf("body property %s not merged", prop)
		}
	}
	if !contains(desc.Parameters.Required, "set") || !contains(desc.Parameters.Required, "collector_number") {
		t.Fatalf("required body fields not preserved: %v", desc.Parameters.Required)
	}

	del := ops["collection_delete_cards_id"].Descriptor()
	idSchema, ok := del.Parameters.Properties["id"]
	if !ok || idSchema.Type != "string" {
		t.Fatalf("path parameter not declared: %+v", del.Parameters)
	}
	if !contains(del.Parameters.Required, "id") {
		t.Fatalf("required path parameter not preserved: %v", del.Parameters.Required)
	}
}

func TestDescriptorDescriptionFallback(t *testing.T) {
	ops := parseSample(t)
	if got := ops["collection_listCards"].Descriptor().Description; got != "List collection entries" {
		t.Fatalf("summary not used: %q", got)
	}
	if got := ops["collection_delete_cards_id"].Descriptor().Description; got != "DELETE /cards/{id}" {
		t.Fatalf("fallback description wrong: %q", got)
	}
}

func keys(ops map[string]Operation) []string {
	var out []string
	for k := range ops {
		out = append(out, k)
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
