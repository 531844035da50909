package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-inventory/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, exp, err := jwt.Generate("secret", "admin", jwt.RoleAdmin, "bakery", 30)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	sub, role, err := jwt.Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
	assert.Equal(t, jwt.RoleAdmin, role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, _, err := jwt.Generate("secret", "admin", jwt.RoleAdmin, "bakery", 30)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, _, err := jwt.Generate("secret", "admin", jwt.RoleAdmin, "bakery", -5)
	require.NoError(t, err)
	_, _, err = jwt.Parse("secret", expired)
	assert.Error(t, err, "expirado")

	_, _, err = jwt.Generate("", "admin", jwt.RoleAdmin, "bakery", 30)
	assert.Error(t, err)
}
