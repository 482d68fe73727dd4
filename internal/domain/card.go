package domain

// Printing is one physical printing of a card as returned by the
// card-metadata search API.
type Printing struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Set             string `json:"set"`
	SetName         string `json:"set_name,omitempty"`
	CollectorNumber string `json:"collector_number"`
	TypeLine        string `json:"type_line,omitempty"`
	ManaCost        string `json:"mana_cost,omitempty"`
	Rarity          string `json:"rarity,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
}

// Summary is the terse form fed back to the model to keep token cost down.
func (p Printing) Summary() string {
	return p.Set + " #" + p.CollectorNumber + " - " + p.Name
}

// SelectedCard is the printing the model has asserted as unambiguous. It is
// never fabricated server-side: it only echoes the model's validated
// select-card tool arguments, which trace back to a prior search result.
type SelectedCard struct {
	Set             string `json:"set"`
	CollectorNumber string `json:"collector_number"`
	ImageURL        string `json:"image_url,omitempty"`
}

// SearchFilters is the structured filter set for the card-metadata search
// tool. All fields are optional and combined conjunctively.
type SearchFilters struct {
	Name      string   `json:"name,omitempty"`
	Oracle    string   `json:"oracle,omitempty"`
	TypeLine  string   `json:"type_line,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Set       string   `json:"set,omitempty"`
	Reserved  *bool    `json:"reserved,omitempty"`
	Page      int      `json:"page,omitempty"`
	Order     string   `json:"order,omitempty"`
	Direction string   `json:"direction,omitempty"`
}

// Ruling is a single published ruling for a printing.
type Ruling struct {
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Comment     string `json:"comment"`
}
