package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaultacks/internal/identity"
)

// Pinger checks that the overview endpoint is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionForgetter drops locally cached data of a user.
type SessionForgetter interface {
	Forget(ctx context.Context, address string) error
}

// AuthService manages the mnemonic based identity of the CLI user.
//
// Contract:
//   - Register: create a new mnemonic and derive its identity.
//   - Login: derive the identity of an existing mnemonic.
//   - Ping: check overview reachability (used by the online watcher).
//   - Logout: drop cached data and wipe the key material.
type AuthService interface {
	Register(ctx context.Context) (string, *identity.Identity, error)
	Login(ctx context.Context, mnemonic string) (*identity.Identity, error)
	Ping(ctx context.Context) error
	Logout(ctx context.Context, id *identity.Identity) error
}

type authService struct {
	pinger Pinger
	cache  SessionForgetter
}

// NewAuthService constructs an AuthService. cache may be nil.
func NewAuthService(pinger Pinger, cache SessionForgetter) AuthService {
	return &authService{pinger: pinger, cache: cache}
}

func (a *authService) Register(ctx context.Context) (string, *identity.Identity, error) {
	mnemonic, err := identity.NewMnemonic()
	if err != nil {
		return "", nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	id, err := identity.FromMnemonic(mnemonic)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, id, nil
}

func (a *authService) Login(ctx context.Context, mnemonic string) (*identity.Identity, error) {
	return identity.FromMnemonic(mnemonic)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.pinger.Ping(ctx)
}

func (a *authService) Logout(ctx context.Context, id *identity.Identity) error {
	if id == nil {
		return nil
	}
	defer id.Wipe()

	if a.cache != nil {
		if err := a.cache.Forget(ctx, id.Address); err != nil {
			return fmt.Errorf("forget cached data: %w", err)
		}
	}
	return nil
}
