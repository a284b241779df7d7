package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/identity"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Register creates a fresh identity, prints its recovery phrase once and
// opens a session for it.
func (a *App) Register(ctx context.Context) error {
	mnemonic, id, err := a.authService.Register(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Your recovery phrase (write it down, it is the only way back in):")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "  "+mnemonic)
	fmt.Fprintln(a.out)

	return a.startSession(ctx, id)
}

// Login asks for the recovery phrase and opens a session.
func (a *App) Login(ctx context.Context) error {
	phrase, err := getSecret(a.reader, "Enter recovery phrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(phrase)

	id, err := a.authService.Login(ctx, strings.TrimSpace(string(phrase)))
	if err != nil {
		if errors.Is(err, common.ErrInvalidMnemonic) {
			fmt.Fprintln(a.out, "Invalid recovery phrase")
		}
		return err
	}

	return a.startSession(ctx, id)
}

// startSession replaces the current session with one for id and kicks off
// the initial refresh in the background.
func (a *App) startSession(ctx context.Context, id *identity.Identity) error {
	fs, err := a.openSession(ctx, id)
	if err != nil {
		id.Wipe()
		return err
	}

	// the previous session's refresh must finish before its key is wiped
	a.wg.Wait()

	a.mu.Lock()
	prev := a.identity
	a.identity = id
	a.fileService = fs
	a.mu.Unlock()
	if prev != nil {
		prev.Wipe()
	}

	a.log.Info(ctx, "logged in", "address", id.Address)
	fmt.Fprintf(a.out, "Logged in as %s\n", id.Address)

	a.checkOnline(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := fs.Refresh(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn(ctx, "initial refresh failed", "error", err)
		}
	}()
	return nil
}

// Logout drops cached documents of the user and wipes the key material.
func (a *App) Logout(ctx context.Context) error {
	a.wg.Wait()

	a.mu.Lock()
	id := a.identity
	a.mu.Unlock()
	if id == nil {
		return common.ErrNotLoggedIn
	}

	if err := a.authService.Logout(ctx, id); err != nil {
		return err
	}

	a.mu.Lock()
	a.identity = nil
	a.fileService = nil
	a.mu.Unlock()

	fmt.Fprintln(a.out, "Logged out")
	return nil
}
