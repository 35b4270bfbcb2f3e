package dto

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message    string           `json:"message"`
	Field      string           `json:"field,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
