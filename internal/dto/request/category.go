package request

// NameRequest creates or renames a category or tag.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
