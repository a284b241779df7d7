package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicFileRecord_JSONShape(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := PublicFileRecord{
		PrivateFileRecord: PrivateFileRecord{Path: "a.txt", IsPublic: true, IsString: true, LastModified: ts, URL: "u"},
		UserAddress:       "ST1",
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"a.txt","isPublic":true,"isString":true,"lastModified":"2024-05-01T10:00:00Z","url":"u","userAddress":"ST1"}`, string(b))
}

func TestNormalize_EmptyDocument(t *testing.T) {
	var priv PrivateMetadata
	require.NoError(t, json.Unmarshal([]byte(`{}`), &priv))
	priv.Normalize()
	assert.NotNil(t, priv.Files)

	var pub PublicMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"files":null}`), &pub))
	pub.Normalize()
	assert.NotNil(t, pub.Files)
}

func TestNormalize_DropsNullMarkers(t *testing.T) {
	var priv PrivateMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"files":{"gone.txt":null,"kept.txt":{"path":"kept.txt"}}}`), &priv))
	priv.Normalize()
	assert.Equal(t, []string{"kept.txt"}, priv.Paths())

	var pub PublicMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"files":{"gone.txt":null,"kept.txt":{"path":"kept.txt","userAddress":"ST1"}}}`), &pub))
	pub.Normalize()
	assert.Equal(t, []string{"kept.txt"}, pub.Paths())
}

func TestPathsSortedAndClone(t *testing.T) {
	m := NewPrivateMetadata()
	m.Files["b"] = PrivateFileRecord{Path: "b"}
	m.Files["a"] = PrivateFileRecord{Path: "a"}

	assert.Equal(t, []string{"a", "b"}, m.Paths())

	c := m.Clone()
	delete(c.Files, "a")
	assert.Len(t, m.Files, 2)
}

func TestForUser(t *testing.T) {
	m := NewPublicMetadata()
	m.Files["x"] = PublicFileRecord{PrivateFileRecord: PrivateFileRecord{Path: "x"}, UserAddress: "ST1"}
	m.Files["y"] = PublicFileRecord{PrivateFileRecord: PrivateFileRecord{Path: "y"}, UserAddress: "ST2"}
	m.Files["w"] = PublicFileRecord{PrivateFileRecord: PrivateFileRecord{Path: "w"}, UserAddress: "ST1"}

	got := m.ForUser("ST1")
	require.Len(t, got, 2)
	assert.Equal(t, "w", got[0].Path)
	assert.Equal(t, "x", got[1].Path)
}
