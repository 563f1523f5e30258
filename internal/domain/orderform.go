package domain

// FieldType is the input widget type of an order-intake field, as defined by
// the upstream settings service.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextArea FieldType = "text_area"
	FieldTypeChoose   FieldType = "choose"
)

// OrderField is one dynamic order-intake field. The schema (everything but
// Value) comes from the settings service once per order session; Value is
// filled in by the shopper.
type OrderField struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Hint     string    `json:"hint"`
	Required bool      `json:"required"`
	Value    string    `json:"value"`
}

// ValidationResult carries every failing field id, not just the first, so a
// UI can highlight all offending inputs in one pass.
type ValidationResult struct {
	OK              bool     `json:"ok"`
	MissingFieldIDs []string `json:"missing_field_ids,omitempty"`
}

// ValidateOrderFields checks required-field completeness. A field fails when
// it is required and its value is empty.
func ValidateOrderFields(fields []OrderField) ValidationResult {
	missing := []string{}
	for _, f := range fields {
		if f.Required && f.Value == "" {
			missing = append(missing, f.ID)
		}
	}
	if len(missing) > 0 {
		return ValidationResult{OK: false, MissingFieldIDs: missing}
	}
	return ValidationResult{OK: true}
}
