package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/client/services"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/identity"
	"github.com/stretchr/testify/require"
)

func stubSecret(t *testing.T, phrase string) {
	t.Helper()
	orig := getSecret
	getSecret = func(_ *bufio.Reader, _ string, _ io.Writer) ([]byte, error) { return []byte(phrase), nil }
	t.Cleanup(func() { getSecret = orig })
}

func loggedOutApp(t *testing.T, auth *fakeAuth, fs *fakeFiles) (*App, *bytes.Buffer) {
	t.Helper()
	app, out := newTestApp(t, nil, "")
	app.authService = auth
	app.mode = ModeDisabled
	app.openSession = func(ctx context.Context, id *identity.Identity) (services.FileService, error) {
		return fs, nil
	}
	return app, out
}

func TestLogin_OpensSessionAndRefreshes(t *testing.T) {
	stubSecret(t, "  "+testMnemonic+"  ")
	id := &identity.Identity{Address: testAddress}
	auth := &fakeAuth{id: id}
	fs := newFakeFiles()
	app, out := loggedOutApp(t, auth, fs)

	require.NoError(t, app.Login(context.Background()))
	app.wg.Wait()

	require.Equal(t, testMnemonic, auth.loginPhrase)
	require.True(t, app.isLoggedIn())
	require.Equal(t, ModeOnline, app.Mode())
	require.Equal(t, 1, fs.refreshCount())
	require.Contains(t, out.String(), "Logged in as "+testAddress)
}

func TestLogin_InvalidMnemonic(t *testing.T) {
	stubSecret(t, "not a phrase")
	app, out := loggedOutApp(t, &fakeAuth{loginErr: common.ErrInvalidMnemonic}, newFakeFiles())

	err := app.Login(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidMnemonic)
	require.False(t, app.isLoggedIn())
	require.Contains(t, out.String(), "Invalid recovery phrase")
}

func TestLogin_SessionFailureWipesIdentity(t *testing.T) {
	stubSecret(t, testMnemonic)
	id, err := identity.FromMnemonic(testMnemonic)
	require.NoError(t, err)

	app, _ := loggedOutApp(t, &fakeAuth{id: id}, nil)
	app.openSession = func(ctx context.Context, id *identity.Identity) (services.FileService, error) {
		return nil, errors.New("bucket missing")
	}

	require.ErrorContains(t, app.Login(context.Background()), "bucket missing")
	require.False(t, app.isLoggedIn())
	require.Equal(t, make([]byte, 32), id.ContentKey())
}

func TestRegister_PrintsPhraseOnce(t *testing.T) {
	id := &identity.Identity{Address: testAddress}
	fs := newFakeFiles()
	app, out := loggedOutApp(t, &fakeAuth{id: id, mnemonic: testMnemonic}, fs)

	require.NoError(t, app.Register(context.Background()))
	app.wg.Wait()

	text := out.String()
	require.Contains(t, text, "Your recovery phrase")
	require.Contains(t, text, testMnemonic)
	require.True(t, app.isLoggedIn())
	require.Equal(t, 1, fs.refreshCount())
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{}
	app, out := newTestApp(t, newFakeFiles(), "")
	app.authService = auth

	require.NoError(t, app.Logout(context.Background()))
	require.True(t, auth.loggedOut)
	require.False(t, app.isLoggedIn())
	require.Contains(t, out.String(), "Logged out")

	require.ErrorIs(t, app.Logout(context.Background()), common.ErrNotLoggedIn)
}

func TestLogout_ErrorKeepsSession(t *testing.T) {
	app, _ := newTestApp(t, newFakeFiles(), "")
	app.authService = &fakeAuth{logoutErr: errors.New("db locked")}

	require.Error(t, app.Logout(context.Background()))
	require.True(t, app.isLoggedIn())
}

func TestStartSession_BackgroundRefreshFailureIsNotFatal(t *testing.T) {
	fs := newFakeFiles()
	fs.err = common.ErrFetchFailed
	app, _ := loggedOutApp(t, &fakeAuth{}, fs)

	require.NoError(t, app.startSession(context.Background(), &identity.Identity{Address: testAddress}))
	require.Eventually(t, func() bool { return fs.refreshCount() == 1 }, time.Second, time.Millisecond)
	app.wg.Wait()
	require.True(t, app.isLoggedIn())
}

func TestStartSession_WaitsForPreviousRefreshBeforeWiping(t *testing.T) {
	ctx := context.Background()
	first, err := identity.FromMnemonic(testMnemonic)
	require.NoError(t, err)
	want := append([]byte(nil), first.ContentKey()...)

	release := make(chan struct{})
	var seen []byte
	fs := newFakeFiles()
	fs.onRefresh = func() {
		<-release
		seen = append([]byte(nil), first.ContentKey()...)
	}
	app, _ := loggedOutApp(t, &fakeAuth{}, fs)
	require.NoError(t, app.startSession(ctx, first))

	next := newFakeFiles()
	app.openSession = func(ctx context.Context, id *identity.Identity) (services.FileService, error) {
		return next, nil
	}
	done := make(chan error, 1)
	go func() { done <- app.startSession(ctx, &identity.Identity{Address: otherAddress}) }()

	select {
	case <-done:
		t.Fatal("session switched while the previous refresh was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	app.wg.Wait()

	require.Equal(t, want, seen)
	require.Equal(t, make([]byte, 32), first.ContentKey())
	require.Equal(t, 1, next.refreshCount())
}
