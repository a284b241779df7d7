package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/client/cache"
	"github.com/dmitrijs2005/vaultacks/internal/client/config"
	"github.com/dmitrijs2005/vaultacks/internal/client/overview"
	"github.com/dmitrijs2005/vaultacks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vaultacks/internal/client/services"
	"github.com/dmitrijs2005/vaultacks/internal/client/storage"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/cryptox"
	"github.com/dmitrijs2005/vaultacks/internal/identity"
	"github.com/dmitrijs2005/vaultacks/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

const (
	tokenTTL    = 5 * time.Minute
	pingTimeout = 3 * time.Second
)

// sessionOpener builds the FileService of a freshly logged in identity.
type sessionOpener func(ctx context.Context, id *identity.Identity) (services.FileService, error)

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	authService services.AuthService
	openSession sessionOpener
	reader      *bufio.Reader
	out         io.Writer
	wg          sync.WaitGroup

	mu          sync.Mutex
	mode        Mode
	identity    *identity.Identity
	fileService services.FileService
}

// NewApp wires the local cache, the overview client and the auth service.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	log := logging.New(os.Stderr, logging.FormatText, level)

	sharedKey, err := cryptox.ParseKeyHex(c.SharedKeyHex)
	if err != nil {
		return nil, fmt.Errorf("shared key: %w", err)
	}

	db, err := cache.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		log.Error(ctx, "error initializing cache database", "error", err)
		return nil, err
	}
	docs := cache.NewDocuments(metadata.NewSQLiteRepository(db))

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		mode:   ModeDisabled,
	}

	httpClient := &http.Client{}
	ov := overview.NewClient(c.OverviewURL, httpClient, a.token)
	a.authService = services.NewAuthService(ov, docs)
	a.openSession = func(ctx context.Context, id *identity.Identity) (services.FileService, error) {
		backend, err := newBackend(ctx, c, id.Address)
		if err != nil {
			return nil, err
		}
		blobs := storage.New(backend, id.ContentKey(), storage.WithHTTPClient(httpClient))
		return services.NewFileService(services.FileServiceConfig{
			Address:        id.Address,
			UserKey:        id.ContentKey(),
			SharedKey:      sharedKey,
			Blobs:          blobs,
			Overview:       ov,
			Cache:          docs,
			Notifier:       toastNotifier{w: a.out},
			Logger:         log,
			RequestTimeout: c.RequestTimeout,
		}), nil
	}

	return a, nil
}

// newBackend selects the blob backend configured for the user.
func newBackend(ctx context.Context, c *config.Config, address string) (storage.Backend, error) {
	switch c.StorageBackend {
	case config.StorageS3:
		return storage.NewS3Backend(ctx, storage.S3Config{
			AccessKey: c.S3RootUser,
			SecretKey: c.S3RootPassword,
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
		}, address)
	case config.StorageFS:
		return storage.NewFSBackend(c.StorageDir, address)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// token signs a short-lived bearer token for overview writes.
func (a *App) token() (string, error) {
	a.mu.Lock()
	id := a.identity
	a.mu.Unlock()
	if id == nil {
		return "", common.ErrNotLoggedIn
	}
	return identity.IssueToken(id, tokenTTL)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

// Mode reports the current connectivity mode.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) session() (*identity.Identity, services.FileService) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity, a.fileService
}

func (a *App) isLoggedIn() bool {
	id, _ := a.session()
	return id != nil
}

// Run starts the REPL and releases resources once it returns.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.wg.Wait()
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the overview endpoint every interval and
// flips the mode between online and offline. It blocks until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
