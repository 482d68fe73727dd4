package collection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deckhand-io/deckhand/internal/domain"
)

// ToolPrefix namespaces backend-derived tool names.
const ToolPrefix = "collection_"

// document is the subset of the backend's machine-readable API description
// needed to synthesize tools and route invocations.
type document struct {
	Paths map[string]pathItem `json:"paths"`
}

type pathItem struct {
	Get    *operationSpec `json:"get,omitempty"`
	Post   *operationSpec `json:"post,omitempty"`
	Put    *operationSpec `json:"put,omitempty"`
	Patch  *operationSpec `json:"patch,omitempty"`
	Delete *operationSpec `json:"delete,omitempty"`
}

type operationSpec struct {
	OperationID string       `json:"operationId,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
	RequestBody *requestBody `json:"requestBody,omitempty"`
}

type requestBody struct {
	Required bool                 `json:"required,omitempty"`
	Content  map[string]mediaType `json:"content"`
}

type mediaType struct {
	Schema *domain.Schema `json:"schema,omitempty"`
}

// Parameter is a declared path or query parameter.
type Parameter struct {
	Name        string         `json:"name"`
	In          string         `json:"in"` // path or query
	Required    bool           `json:"required,omitempty"`
	Description string         `json:"description,omitempty"`
	Schema      *domain.Schema `json:"schema,omitempty"`
}

// Operation is one backend operation resolved from the schema, addressable by
// its synthesized tool name.
type Operation struct {
	ToolName    string
	Method      string
	Path        string
	Description string
	Parameters  []Parameter
	BodySchema  *domain.Schema
}

// resolveOperations flattens the schema document into a name-keyed operation
// map. Iteration order of paths is made deterministic for stable catalogs.
func resolveOperations(doc *document) map[string]Operation {
	ops := make(map[string]Operation)

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths[path]
		forEachMethod(item, func(method string, spec *operationSpec) {
			op := Operation{
				ToolName:    toolName(spec.OperationID, method, path),
				Method:      method,
				Path:        path,
				Description: operationDescription(spec, method, path),
				Parameters:  spec.Parameters,
			}
			if spec.RequestBody != nil {
				if mt, ok := spec.RequestBody.Content["application/json"]; ok {
					op.BodySchema = mt.Schema
				}
			}
			ops[op.ToolName] = op
		})
	}
	return ops
}

func forEachMethod(item pathItem, fn func(method string, spec *operationSpec)) {
	if item.Get != nil {
		fn("GET", item.Get)
	}
	if item.Post != nil {
		fn("POST", item.Post)
	}
	if item.Put != nil {
		fn("PUT", item.Put)
	}
	if item.Patch != nil {
		fn("PATCH", item.Patch)
	}
	if item.Delete != nil {
		fn("DELETE", item.Delete)
	}
}

// toolName synthesizes a tool name from the operation id, falling back to a
// deterministic method+path slug.
func toolName(opID, method, path string) string {
	if opID != "" {
		return ToolPrefix + opID
	}
	slug := strings.NewReplacer("{", "", "}", "", "/", "_", "-", "_").Replace(strings.Trim(path, "/"))
	return ToolPrefix + strings.ToLower(method) + "_" + slug
}

func operationDescription(spec *operationSpec, method, path string) string {
	if spec.Summary != "" {
		return spec.Summary
	}
	if spec.Description != "" {
		return spec.Description
	}
	return fmt.Sprintf("%s %s", method, path)
}

// Descriptor translates the operation into a callable tool descriptor: path
// and query parameters become scalar properties, request-body properties are
// merged in alongside them, and required-ness is preserved on both.
func (op Operation) Descriptor() domain.ToolDescriptor {
	params := &domain.Schema{
		Type:       "object",
		Properties: map[string]*domain.Schema{},
	}
	for _, p := range op.Parameters {
		schema := p.Schema
		if schema == nil {
			schema = &domain.Schema{Type: "string"}
		}
		if p.Description != "" && schema.Description == "" {
			copied := *schema
			copied.Description = p.Description
			schema = &copied
		}
		params.Properties[p.Name] = schema
		if p.Required {
			params.Required = append(params.Required, p.Name)
		}
	}
	if op.BodySchema != nil {
		for name, prop := range op.BodySchema.Properties {
			params.Properties[name] = prop
		}
		params.Required = append(params.Required, op.BodySchema.Required...)
	}
	return domain.ToolDescriptor{
		Name:        op.ToolName,
		Description: op.Description,
		Parameters:  params,
	}
}

// bodyKeys reports which argument keys belong to the request body rather than
// the path or query.
func (op Operation) bodyKeys() map[string]bool {
	keys := make(map[string]bool)
	if op.BodySchema == nil {
		return keys
	}
	for name := range op.BodySchema.Properties {
		keys[name] = true
	}
	return keys
}
