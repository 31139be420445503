package domain

// FieldType restricts the value kind a dynamic field accepts.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
)

// Field defines one admin-managed dynamic attribute of a Setting.
// Key is the machine identifier used inside Setting.Data; Name is the
// display label. CategoryID must reference an existing Category.
type Field struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Key        string    `json:"key"`
	Type       FieldType `json:"type"`
	CategoryID string    `json:"categoryId"`
}

// Category groups Fields for tabbed display. Deleting a Category is
// rejected while any Field still belongs to it.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
