package clients

// SaveClientRequest carries the full client payload. Saves are whole
// replacements; there is no partial-field update.
type SaveClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	Company  string `json:"company"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}
