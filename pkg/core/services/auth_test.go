package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sastra-some/duty-portal/internal/config"
)

func authConfig() *config.Config {
	return &config.Config{
		Credentials: config.Credentials{
			Username:      "portal",
			Password:      "secret",
			AdminPassword: "admin-secret",
		},
	}
}

func TestAuthenticate(t *testing.T) {
	cfg := authConfig()

	assert.NoError(t, Authenticate(cfg, "portal", "secret"))
	assert.ErrorIs(t, Authenticate(cfg, "portal", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, Authenticate(cfg, "wrong", "secret"), ErrInvalidCredentials)
	assert.ErrorIs(t, Authenticate(cfg, "", ""), ErrInvalidCredentials)
}

func TestAuthenticateAdmin(t *testing.T) {
	cfg := authConfig()

	assert.NoError(t, AuthenticateAdmin(cfg, "admin-secret"))
	assert.ErrorIs(t, AuthenticateAdmin(cfg, "secret"), ErrInvalidCredentials)
	assert.ErrorIs(t, AuthenticateAdmin(cfg, ""), ErrInvalidCredentials)
}
