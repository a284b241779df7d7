// Package models defines the metadata documents the client keeps in sync:
// the per-user private index and the shared public overview.
package models

import (
	"maps"
	"sort"
	"time"
)

// PrivateFileRecord describes one file owned by the current user.
type PrivateFileRecord struct {
	Path         string    `json:"path"`
	IsPublic     bool      `json:"isPublic"`
	IsString     bool      `json:"isString"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
	// Shared is set when the file became public through share rather than
	// being saved public directly; its blob is wrapped with the shared key.
	Shared bool `json:"shared,omitempty"`
}

// PublicFileRecord is a PrivateFileRecord advertised in the overview,
// attributed to the owner's address.
type PublicFileRecord struct {
	PrivateFileRecord
	UserAddress string `json:"userAddress"`
}

// PrivateMetadata is the per-user index keyed by path.
type PrivateMetadata struct {
	Files map[string]PrivateFileRecord `json:"files"`
}

// PublicMetadata is the shared overview index keyed by path.
type PublicMetadata struct {
	Files map[string]PublicFileRecord `json:"files"`
}

// NewPrivateMetadata returns an empty private document.
func NewPrivateMetadata() *PrivateMetadata {
	return &PrivateMetadata{Files: map[string]PrivateFileRecord{}}
}

// NewPublicMetadata returns an empty overview document.
func NewPublicMetadata() *PublicMetadata {
	return &PublicMetadata{Files: map[string]PublicFileRecord{}}
}

// Normalize makes Files non-nil after decoding "{}" or "null" and drops
// "path": null markers, which decode to records without a Path.
func (m *PrivateMetadata) Normalize() {
	if m.Files == nil {
		m.Files = map[string]PrivateFileRecord{}
	}
	maps.DeleteFunc(m.Files, func(_ string, r PrivateFileRecord) bool { return r.Path == "" })
}

// Normalize is the PublicMetadata counterpart of PrivateMetadata.Normalize.
func (m *PublicMetadata) Normalize() {
	if m.Files == nil {
		m.Files = map[string]PublicFileRecord{}
	}
	maps.DeleteFunc(m.Files, func(_ string, r PublicFileRecord) bool { return r.Path == "" })
}

// Paths returns the document keys in lexical order.
func (m *PrivateMetadata) Paths() []string {
	return sortedKeys(m.Files)
}

// Paths returns the document keys in lexical order.
func (m *PublicMetadata) Paths() []string {
	return sortedKeys(m.Files)
}

// Clone returns a deep copy so callers can't mutate cached state.
func (m *PrivateMetadata) Clone() *PrivateMetadata {
	out := NewPrivateMetadata()
	for k, v := range m.Files {
		out.Files[k] = v
	}
	return out
}

// Clone returns a deep copy so callers can't mutate cached state.
func (m *PublicMetadata) Clone() *PublicMetadata {
	out := NewPublicMetadata()
	for k, v := range m.Files {
		out.Files[k] = v
	}
	return out
}

// ForUser returns the overview records owned by address.
func (m *PublicMetadata) ForUser(address string) []PublicFileRecord {
	var out []PublicFileRecord
	for _, p := range m.Paths() {
		if r := m.Files[p]; r.UserAddress == address {
			out = append(out, r)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
