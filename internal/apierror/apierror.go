// Package apierror is the single error envelope the marketplace API speaks.
// Every 4xx/5xx body is one of these shapes, so clients (and the mediation
// panel) never see raw GORM or SMTP errors.
package apierror

// APIError carries a client-safe message.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func (e *APIError) Error() string { return e.Detail }

// ValidationError adds per-field detail for request binding failures.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
