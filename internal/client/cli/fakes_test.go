package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/client/config"
	"github.com/dmitrijs2005/vaultacks/internal/client/models"
	"github.com/dmitrijs2005/vaultacks/internal/client/services"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/identity"
	"github.com/dmitrijs2005/vaultacks/internal/logging"
)

const (
	testAddress  = "ST00112233445566778899AABBCCDDEEFF00112233"
	otherAddress = "STFFEEDDCCBBAA99887766554433221100FFEEDDCC"
)

var testMnemonic = strings.Repeat("abandon ", 23) + "art"

type fakeFiles struct {
	mu sync.Mutex

	private    *models.PrivateMetadata
	public     *models.PublicMetadata
	cachedPriv *models.PrivateMetadata
	cachedPub  *models.PublicMetadata
	refreshing bool
	last       time.Time
	content    map[string][]byte

	err       error
	saved     []string
	deleted   []string
	shared    []string
	linkTTL   time.Duration
	refreshes int
	onRefresh func()
	wiped     bool
	reset     bool
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{
		private: models.NewPrivateMetadata(),
		public:  models.NewPublicMetadata(),
		content: map[string][]byte{},
	}
}

func (f *fakeFiles) Refresh(ctx context.Context) error {
	if f.onRefresh != nil {
		f.onRefresh()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.err
}

func (f *fakeFiles) Save(ctx context.Context, path string, data []byte, isPublic, isString bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, path)
	f.content[path] = data
	f.private.Files[path] = models.PrivateFileRecord{Path: path, IsPublic: isPublic, IsString: isString, URL: "mem://" + path}
	return "mem://" + path, nil
}

func (f *fakeFiles) Delete(ctx context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFiles) Share(ctx context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.shared = append(f.shared, path)
	rec := f.private.Files[path]
	rec.IsPublic, rec.Shared = true, true
	f.private.Files[path] = rec
	return nil
}

func (f *fakeFiles) GetFileMetadata(path string) (*services.FileInfo, error) {
	if rec, ok := f.private.Files[path]; ok {
		return &services.FileInfo{PrivateFileRecord: rec, Source: services.SourcePrivate}, nil
	}
	if rec, ok := f.public.Files[path]; ok {
		return &services.FileInfo{PrivateFileRecord: rec.PrivateFileRecord, UserAddress: rec.UserAddress, Source: services.SourcePublic}, nil
	}
	return nil, fmt.Errorf("%s: %w", path, common.ErrorNotFound)
}

func (f *fakeFiles) GetFile(ctx context.Context, path string) (*services.FileInfo, []byte, error) {
	info, err := f.GetFileMetadata(path)
	if err != nil {
		return nil, nil, err
	}
	return info, f.content[path], nil
}

func (f *fakeFiles) DeleteAll(ctx context.Context) (int, error) {
	f.wiped = true
	return len(f.private.Files), f.err
}

func (f *fakeFiles) ResetOverview(ctx context.Context) error {
	f.reset = true
	return f.err
}

func (f *fakeFiles) Link(ctx context.Context, path string, ttl time.Duration) (string, error) {
	f.linkTTL = ttl
	return "https://signed/" + path, f.err
}

func (f *fakeFiles) Private() *models.PrivateMetadata { return f.private.Clone() }
func (f *fakeFiles) Public() *models.PublicMetadata   { return f.public.Clone() }
func (f *fakeFiles) Refreshing() bool                 { return f.refreshing }
func (f *fakeFiles) LastRefresh() time.Time           { return f.last }
func (f *fakeFiles) Address() string                  { return testAddress }

func (f *fakeFiles) Cached(ctx context.Context) (*models.PrivateMetadata, *models.PublicMetadata, error) {
	if f.cachedPriv == nil {
		return nil, nil, common.ErrorNotFound
	}
	return f.cachedPriv, f.cachedPub, nil
}

func (f *fakeFiles) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

type fakeAuth struct {
	id        *identity.Identity
	mnemonic  string
	loginErr  error
	pingErr   error
	logoutErr error

	loginPhrase string
	loggedOut   bool
}

func (f *fakeAuth) Register(ctx context.Context) (string, *identity.Identity, error) {
	return f.mnemonic, f.id, f.loginErr
}

func (f *fakeAuth) Login(ctx context.Context, mnemonic string) (*identity.Identity, error) {
	f.loginPhrase = mnemonic
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.id, nil
}

func (f *fakeAuth) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAuth) Logout(ctx context.Context, id *identity.Identity) error {
	f.loggedOut = true
	return f.logoutErr
}

// newTestApp returns an App logged in as testAddress with fs as its session.
func newTestApp(t *testing.T, fs services.FileService, input string) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := &App{
		config:      cfg,
		log:         logging.Discard(),
		authService: &fakeAuth{},
		reader:      rdr(input),
		out:         out,
		mode:        ModeOnline,
	}
	if fs != nil {
		a.identity = &identity.Identity{Address: testAddress}
		a.fileService = fs
	}
	return a, out
}
