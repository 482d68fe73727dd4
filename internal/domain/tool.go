package domain

// Static tool names.
const (
	ToolSearchCards = "search_cards"
	ToolSelectCard  = "select_card"
	ToolCardRulings = "card_rulings"
)

// ToolDescriptor is a named, schema-described capability the model may invoke.
type ToolDescriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Schema is the JSON-schema subset used for tool parameter contracts and for
// decoding the backend's machine-readable API description.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// ObjectSchema is a convenience constructor for an object parameter contract.
func ObjectSchema(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: props, Required: required}
}
