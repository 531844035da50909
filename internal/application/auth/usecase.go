package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login del administrador de la tienda (un único operador con contraseña bcrypt).
type AuthUseCase struct {
	passwordHash []byte
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(passwordHash string, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{passwordHash: []byte(passwordHash), jwtCfg: jwtCfg}
}

// Enabled indica si hay credenciales configuradas.
func (uc *AuthUseCase) Enabled() bool {
	return len(uc.passwordHash) > 0 && uc.jwtCfg.Secret != ""
}

// Login verifica la contraseña y genera el JWT.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !uc.Enabled() {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, jwt.RoleAdmin, jwt.RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp}, nil
}
