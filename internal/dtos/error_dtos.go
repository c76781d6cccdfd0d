package dtos

// ValidationErrorDetail is the structured shape for field-level validation
// failures in error responses.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
