package services

import (
	"crypto/subtle"
	"errors"

	"github.com/sastra-some/duty-portal/internal/config"
)

// ErrInvalidCredentials is the single rejection for any failed login;
// the gate never reveals which part was wrong
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticate checks the static shared faculty credential pair
func Authenticate(cfg *config.Config, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Credentials.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Credentials.Password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// AuthenticateAdmin checks the administrative password gating the
// ledger listing and the destructive clear
func AuthenticateAdmin(cfg *config.Config, password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Credentials.AdminPassword)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
