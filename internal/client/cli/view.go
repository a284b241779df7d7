package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/buildinfo"
	"github.com/dmitrijs2005/vaultacks/internal/client/models"
	"github.com/dmitrijs2005/vaultacks/internal/client/services"
)

const (
	loadingText     = "Loading files..."
	emptyStateTitle = "No files found"
	emptyStateCTA   = "Upload a file with 'save' or 'savefile'"
	timeLayout      = "2006-01-02 15:04:05"
)

// fileCard is one row of the file grid.
type fileCard struct {
	Path         string
	Visibility   string
	Kind         string
	LastModified time.Time
	URL          string
	Owner        string
}

func visibility(rec models.PrivateFileRecord) string {
	switch {
	case rec.Shared:
		return "shared"
	case rec.IsPublic:
		return "public"
	default:
		return "private"
	}
}

func kind(rec models.PrivateFileRecord) string {
	if rec.IsString {
		return "text"
	}
	return "binary"
}

func cardFromRecord(rec models.PrivateFileRecord, owner string) fileCard {
	return fileCard{
		Path:         rec.Path,
		Visibility:   visibility(rec),
		Kind:         kind(rec),
		LastModified: rec.LastModified,
		URL:          rec.URL,
		Owner:        owner,
	}
}

// userCards lists the user's own files: everything in the private index
// plus shared files that only live in the overview.
func userCards(priv *models.PrivateMetadata, pub *models.PublicMetadata, address string) []fileCard {
	var cards []fileCard
	for _, p := range priv.Paths() {
		cards = append(cards, cardFromRecord(priv.Files[p], address))
	}
	for _, r := range pub.ForUser(address) {
		if _, ok := priv.Files[r.Path]; ok {
			continue
		}
		cards = append(cards, cardFromRecord(r.PrivateFileRecord, r.UserAddress))
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Path < cards[j].Path })
	return cards
}

// publicCards lists every file advertised in the overview.
func publicCards(pub *models.PublicMetadata) []fileCard {
	cards := make([]fileCard, 0, len(pub.Files))
	for _, p := range pub.Paths() {
		r := pub.Files[p]
		cards = append(cards, cardFromRecord(r.PrivateFileRecord, r.UserAddress))
	}
	return cards
}

func renderLoading(w io.Writer) {
	fmt.Fprintln(w, loadingText)
}

func renderEmpty(w io.Writer) {
	fmt.Fprintln(w, emptyStateTitle)
	fmt.Fprintln(w, emptyStateCTA)
}

// renderGrid writes cards as an aligned table. withOwner adds the owner
// column used by the overview listing.
func renderGrid(w io.Writer, cards []fileCard, withOwner bool) {
	if len(cards) == 0 {
		renderEmpty(w)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if withOwner {
		fmt.Fprintln(tw, "PATH\tVISIBILITY\tTYPE\tLAST MODIFIED\tOWNER\tURL")
	} else {
		fmt.Fprintln(tw, "PATH\tVISIBILITY\tTYPE\tLAST MODIFIED\tURL")
	}
	for _, c := range cards {
		ts := c.LastModified.Local().Format(timeLayout)
		if withOwner {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Path, c.Visibility, c.Kind, ts, shortAddress(c.Owner), c.URL)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Path, c.Visibility, c.Kind, ts, c.URL)
		}
	}
	_ = tw.Flush()
}

// renderCard writes the detailed view of a single file.
func renderCard(w io.Writer, info *services.FileInfo, self string) {
	owner := info.UserAddress
	if owner == "" {
		owner = self
	}
	c := cardFromRecord(info.PrivateFileRecord, owner)

	fmt.Fprintln(w, c.Path)
	fmt.Fprintf(w, "  visibility: %s\n", c.Visibility)
	fmt.Fprintf(w, "  type:       %s\n", c.Kind)
	fmt.Fprintf(w, "  modified:   %s\n", c.LastModified.Local().Format(timeLayout))
	fmt.Fprintf(w, "  owner:      %s\n", c.Owner)
	fmt.Fprintf(w, "  url:        %s\n", c.URL)
}

func renderFooter(w io.Writer) {
	buildinfo.PrintFooter(w)
}

// shortAddress abbreviates long addresses for the grid.
func shortAddress(a string) string {
	if len(a) <= 12 {
		return a
	}
	return a[:6] + "..." + a[len(a)-4:]
}

// toastNotifier prints notifications inline, prefixed with their title.
type toastNotifier struct {
	w io.Writer
}

func (n toastNotifier) Notify(title, message string) {
	fmt.Fprintf(n.w, "%s: %s\n", title, message)
}
