package dto

import "time"

// LoginRequest credenciales del administrador.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de acceso.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
