package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/client/models"
	"github.com/dmitrijs2005/vaultacks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocuments(t *testing.T) *Documents {
	t.Helper()
	db, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDocuments(metadata.NewSQLiteRepository(db))
}

func TestDocuments_PrivateRoundTrip(t *testing.T) {
	d := newTestDocuments(t)
	ctx := context.Background()
	key := bytes.Repeat([]byte{1}, 32)
	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	doc, ts, err := d.LoadPrivate(ctx, "ST1", key)
	require.NoError(t, err)
	assert.Empty(t, doc.Files)
	assert.True(t, ts.IsZero())

	doc.Files["a.txt"] = models.PrivateFileRecord{Path: "a.txt", IsString: true}
	require.NoError(t, d.SavePrivate(ctx, "ST1", key, doc))

	got, ts, err := d.LoadPrivate(ctx, "ST1", key)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Files["a.txt"].Path)
	assert.True(t, fixed.Equal(ts))

	_, _, err = d.LoadPrivate(ctx, "ST1", bytes.Repeat([]byte{2}, 32))
	assert.ErrorIs(t, err, common.ErrDecrypt)

	require.NoError(t, d.Forget(ctx, "ST1"))
	got, _, err = d.LoadPrivate(ctx, "ST1", key)
	require.NoError(t, err)
	assert.Empty(t, got.Files)
}

func TestDocuments_PublicRoundTrip(t *testing.T) {
	d := newTestDocuments(t)
	ctx := context.Background()
	key, err := cryptox.ParseKeyHex(common.DefaultSharedKeyHex)
	require.NoError(t, err)

	doc := models.NewPublicMetadata()
	doc.Files["p"] = models.PublicFileRecord{PrivateFileRecord: models.PrivateFileRecord{Path: "p"}, UserAddress: "ST1"}
	require.NoError(t, d.SavePublic(ctx, key, doc, 5))

	got, v, err := d.LoadPublic(ctx, key)
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
	assert.Equal(t, "ST1", got.Files["p"].UserAddress)
}
