package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/buildinfo"
	"github.com/dmitrijs2005/vaultacks/internal/client/models"
	"github.com/dmitrijs2005/vaultacks/internal/client/services"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestUserCards_MergesOwnSharedFiles(t *testing.T) {
	priv := models.NewPrivateMetadata()
	priv.Files["b.txt"] = models.PrivateFileRecord{Path: "b.txt", IsString: true}
	priv.Files["pub.txt"] = models.PrivateFileRecord{Path: "pub.txt", IsPublic: true}

	pub := models.NewPublicMetadata()
	pub.Files["pub.txt"] = models.PublicFileRecord{PrivateFileRecord: models.PrivateFileRecord{Path: "pub.txt", IsPublic: true}, UserAddress: testAddress}
	pub.Files["a.txt"] = models.PublicFileRecord{PrivateFileRecord: models.PrivateFileRecord{Path: "a.txt", IsPublic: true, Shared: true}, UserAddress: testAddress}
	pub.Files["other.txt"] = models.PublicFileRecord{PrivateFileRecord: models.PrivateFileRecord{Path: "other.txt", IsPublic: true}, UserAddress: otherAddress}

	got := userCards(priv, pub, testAddress)

	var paths, vis []string
	for _, c := range got {
		paths = append(paths, c.Path)
		vis = append(vis, c.Visibility)
	}
	if diff := cmp.Diff([]string{"a.txt", "b.txt", "pub.txt"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"shared", "private", "public"}, vis); diff != "" {
		t.Fatalf("visibility mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderGrid(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	cards := []fileCard{
		{Path: "a.txt", Visibility: "private", Kind: "text", LastModified: ts, URL: "mem://a.txt"},
	}

	var buf bytes.Buffer
	renderGrid(&buf, cards, false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "PATH"))
	require.Equal(t, []string{"a.txt", "private", "text", "2024-06-01", "12:00:00", "mem://a.txt"}, strings.Fields(lines[1]))
}

func TestRenderGrid_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderGrid(&buf, nil, true)
	require.Equal(t, emptyStateTitle+"\n"+emptyStateCTA+"\n", buf.String())
}

func TestRenderCard_ForeignOwner(t *testing.T) {
	info := &services.FileInfo{
		PrivateFileRecord: models.PrivateFileRecord{Path: "x.bin", IsPublic: true, URL: "https://b/x.bin"},
		UserAddress:       otherAddress,
		Source:            services.SourcePublic,
	}

	var buf bytes.Buffer
	renderCard(&buf, info, testAddress)

	require.Contains(t, buf.String(), "visibility: public")
	require.Contains(t, buf.String(), "type:       binary")
	require.Contains(t, buf.String(), "owner:      "+otherAddress)
}

func TestShortAddress(t *testing.T) {
	require.Equal(t, "ST", shortAddress("ST"))
	require.Equal(t, "ST0011...2233", shortAddress(testAddress))
}

func TestToastNotifier(t *testing.T) {
	var buf bytes.Buffer
	toastNotifier{w: &buf}.Notify(services.FetchErrorTitle, services.FetchErrorMessage)
	require.Equal(t, "Error fetching files: Something went wrong when fetching the files. Please try again later\n", buf.String())
}

func TestRenderFooter(t *testing.T) {
	var buf bytes.Buffer
	renderFooter(&buf)
	require.Contains(t, buf.String(), buildinfo.RepositoryURL)
}
