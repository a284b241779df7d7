package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/client/models"
	"github.com/dmitrijs2005/vaultacks/internal/client/services"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/filex"
)

const defaultLinkTTL = 15 * time.Minute

var (
	errOffline = errors.New("not available in offline mode")
	errUsage   = errors.New("invalid arguments")
)

func usage(format string) error {
	return fmt.Errorf("%w, usage: %s", errUsage, format)
}

// files returns the active FileService or ErrNotLoggedIn.
func (a *App) files() (services.FileService, error) {
	_, fs := a.session()
	if fs == nil {
		return nil, common.ErrNotLoggedIn
	}
	return fs, nil
}

// mutable returns the FileService when remote writes are possible.
func (a *App) mutable() (services.FileService, error) {
	fs, err := a.files()
	if err != nil {
		return nil, err
	}
	if a.Mode() == ModeOffline {
		return nil, errOffline
	}
	return fs, nil
}

// splitPublic strips a leading -p/--public flag from args.
func splitPublic(args []string) (bool, []string) {
	if len(args) > 0 && (args[0] == "-p" || args[0] == "--public") {
		return true, args[1:]
	}
	return false, args
}

// Refresh reloads both documents and prints the user's files.
func (a *App) Refresh(ctx context.Context) error {
	fs, err := a.mutable()
	if err != nil {
		return err
	}
	if err := fs.Refresh(ctx); err != nil {
		return err
	}
	return a.List(ctx)
}

// snapshot returns the documents to display. Offline it falls back to the
// local cache.
func (a *App) snapshot(ctx context.Context, fs services.FileService) (*models.PrivateMetadata, *models.PublicMetadata, error) {
	if a.Mode() != ModeOffline {
		return fs.Private(), fs.Public(), nil
	}
	priv, pub, err := fs.Cached(ctx)
	if err != nil {
		return nil, nil, err
	}
	fmt.Fprintln(a.out, "(offline, showing cached data)")
	return priv, pub, nil
}

// List prints the files of the logged in user.
func (a *App) List(ctx context.Context) error {
	fs, err := a.files()
	if err != nil {
		return err
	}
	if fs.Refreshing() {
		renderLoading(a.out)
		return nil
	}

	priv, pub, err := a.snapshot(ctx, fs)
	if err != nil {
		return err
	}
	renderGrid(a.out, userCards(priv, pub, fs.Address()), false)
	renderFooter(a.out)
	return nil
}

// Public prints every file advertised in the overview.
func (a *App) Public(ctx context.Context) error {
	fs, err := a.files()
	if err != nil {
		return err
	}
	if fs.Refreshing() {
		renderLoading(a.out)
		return nil
	}

	_, pub, err := a.snapshot(ctx, fs)
	if err != nil {
		return err
	}
	renderGrid(a.out, publicCards(pub), true)
	renderFooter(a.out)
	return nil
}

// Save stores a text file: save [-p] <path> [text...]. Without inline text
// the content is read until an empty line.
func (a *App) Save(ctx context.Context, args []string) error {
	public, args := splitPublic(args)
	if len(args) == 0 {
		return usage("save [-p] <path> [text...]")
	}
	fs, err := a.mutable()
	if err != nil {
		return err
	}

	path := args[0]
	text := strings.Join(args[1:], " ")
	if text == "" {
		text, err = GetMultiline(a.reader, "Enter text", a.out)
		if err != nil {
			return err
		}
	}

	url, err := fs.Save(ctx, path, []byte(text), public, true)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s: %s\n", path, url)
	return nil
}

// SaveFile uploads a local file: savefile [-p] <local> [remote].
func (a *App) SaveFile(ctx context.Context, args []string) error {
	public, args := splitPublic(args)
	if len(args) == 0 || len(args) > 2 {
		return usage("savefile [-p] <local> [remote]")
	}
	fs, err := a.mutable()
	if err != nil {
		return err
	}

	local := args[0]
	remote := filepath.Base(local)
	if len(args) == 2 {
		remote = args[1]
	}

	data, err := os.ReadFile(local)
	if err != nil {
		return err
	}

	url, err := fs.Save(ctx, remote, data, public, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%d bytes): %s\n", remote, len(data), url)
	return nil
}

// Show prints the metadata card of a file.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <path>")
	}
	fs, err := a.files()
	if err != nil {
		return err
	}
	info, err := fs.GetFileMetadata(args[0])
	if err != nil {
		return err
	}
	renderCard(a.out, info, fs.Address())
	return nil
}

// Get downloads a file: get <path> [local]. Text files without a target
// are printed.
func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return usage("get <path> [local]")
	}
	fs, err := a.mutable()
	if err != nil {
		return err
	}

	info, data, err := fs.GetFile(ctx, args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 && info.IsString {
		fmt.Fprintln(a.out, string(data))
		return nil
	}

	target := filepath.Base(info.Path)
	if len(args) == 2 {
		target = args[1]
	}
	if err := filex.WriteFileAtomic(target, data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %d bytes to %s\n", len(data), target)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <path>")
	}
	fs, err := a.mutable()
	if err != nil {
		return err
	}
	if err := fs.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", args[0])
	return nil
}

// Share publishes a private file to the overview under the shared key.
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("share <path>")
	}
	fs, err := a.mutable()
	if err != nil {
		return err
	}
	if err := fs.Share(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Shared %s\n", args[0])
	if info, err := fs.GetFileMetadata(args[0]); err == nil {
		fmt.Fprintf(a.out, "URL: %s\n", info.URL)
	}
	return nil
}

// Link prints a time-limited download URL: link <path> [ttl].
func (a *App) Link(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return usage("link <path> [ttl]")
	}
	ttl := defaultLinkTTL
	if len(args) == 2 {
		d, err := time.ParseDuration(args[1])
		if err != nil || d <= 0 {
			return usage("link <path> [ttl], e.g. link notes.txt 1h")
		}
		ttl = d
	}
	fs, err := a.mutable()
	if err != nil {
		return err
	}

	url, err := fs.Link(ctx, args[0], ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, url)
	return nil
}

// DeleteAll removes every file of the user after confirmation.
func (a *App) DeleteAll(ctx context.Context) error {
	fs, err := a.mutable()
	if err != nil {
		return err
	}
	if !confirm(a.reader, "Delete ALL your files?", a.out) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	n, err := fs.DeleteAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d files\n", n)
	return nil
}

// ResetOverview empties the shared overview after confirmation.
func (a *App) ResetOverview(ctx context.Context) error {
	fs, err := a.mutable()
	if err != nil {
		return err
	}
	if !confirm(a.reader, "Reset the public overview for everyone?", a.out) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := fs.ResetOverview(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Overview reset")
	return nil
}

// WhoAmI prints the session summary.
func (a *App) WhoAmI(ctx context.Context) error {
	fs, err := a.files()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Address:  %s\n", fs.Address())
	fmt.Fprintf(a.out, "Mode:     %s\n", a.Mode())
	if a.config != nil {
		fmt.Fprintf(a.out, "Storage:  %s\n", a.config.StorageBackend)
		fmt.Fprintf(a.out, "Overview: %s\n", a.config.OverviewURL)
	}
	if t := fs.LastRefresh(); !t.IsZero() {
		fmt.Fprintf(a.out, "Refreshed: %s\n", t.Local().Format(timeLayout))
	}
	return nil
}
