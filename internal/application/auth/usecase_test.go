package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bakery-inventory/internal/application/auth"
	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/pkg/jwt"
)

func newAuth(t *testing.T, password string) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.NewAuthUseCase(string(hash), auth.JWTConfig{Secret: "secret", ExpMinutes: 60, Issuer: "bakery"})
}

func TestLogin_ContrasenaCorrecta(t *testing.T) {
	uc := newAuth(t, "polina")
	out, err := uc.Login(dto.LoginRequest{Password: "polina"})
	require.NoError(t, err)

	_, role, err := jwt.Parse("secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleAdmin, role)
}

func TestLogin_Rechazos(t *testing.T) {
	_, err := newAuth(t, "polina").Login(dto.LoginRequest{Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	disabled := auth.NewAuthUseCase("", auth.JWTConfig{Secret: "secret"})
	assert.False(t, disabled.Enabled())
	_, err = disabled.Login(dto.LoginRequest{Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
