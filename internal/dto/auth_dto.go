package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegistroRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=40"`
	Nombre   string  `json:"nombre"   validate:"required"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Rol      string  `json:"rol"      validate:"required,oneof=marca socio"`
	// CodigoReferido: optional invitation code; when valid, the code owner
	// receives the immediate signup bonus.
	CodigoReferido *string `json:"codigo_referido"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=8"`
}

type UsuarioListResponse struct {
	Usuarios []UsuarioResponse `json:"usuarios"`
	Total    int               `json:"total"`
}

type UsuarioResponse struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Nombre           string  `json:"nombre"`
	Email            *string `json:"email,omitempty"`
	Rol              string  `json:"rol"`
	Reputacion       float64 `json:"reputacion"`
	DealsCompletados int     `json:"deals_completados"`
	NivelFidelidad   string  `json:"nivel_fidelidad"`
	Activo           bool    `json:"activo"`
}
