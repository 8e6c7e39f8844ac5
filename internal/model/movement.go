package model

// CategoryUnspecified is the sentinel used when the model does not
// classify the movement.
const CategoryUnspecified = "Não especificado"

// Movement is the structured record extracted from a free-text financial
// statement. The JSON tags match the schema the provider prompts ask for,
// so a provider response decodes directly into this type.
type Movement struct {
	// MovementType is the coarse nature of the movement. The label set is
	// defined by the provider prompt (e.g. "Gasto", "Receita") and is kept
	// verbatim because it flows into the backend category field.
	MovementType string `json:"tMovimentacao"`
	// Amount is the positive monetary value of the movement.
	Amount float64 `json:"valorMovimentacao"`
	// Place describes where the movement occurred.
	Place string `json:"local"`
	// Date is the calendar date formatted as DD/MM/YYYY.
	Date string `json:"data"`
	// Category classifies the movement (alimentação, lazer, transporte...).
	Category string `json:"tipo"`
}

// Complete reports whether the record is usable: movement type, amount,
// place and date must all be populated. Category is optional and is
// normalized to CategoryUnspecified when empty.
func (m *Movement) Complete() bool {
	if m == nil {
		return false
	}
	return m.MovementType != "" && m.Amount != 0 && m.Place != "" && m.Date != ""
}

// NormalizeCategory fills the category sentinel for records the model left
// unclassified.
func (m *Movement) NormalizeCategory() {
	if m != nil && m.Category == "" {
		m.Category = CategoryUnspecified
	}
}
