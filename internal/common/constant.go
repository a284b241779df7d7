// Package common contains shared constants and sentinel errors used across
// Vaultacks components.
package common

// PrivateMetadataPath is the location of the per-user metadata document
// inside the user's private storage space.
const PrivateMetadataPath = ".private/metadata.json"

// OverviewDocumentID names the single shared overview document hosted by the
// overview server.
const OverviewDocumentID = "public"

// DefaultSharedKeyHex is the symmetric key every client uses to wrap the
// overview document and shared blobs unless configured otherwise.
const DefaultSharedKeyHex = "4e185081062dd819e0f251864817957704f17bb07baef49fa447bbbeb8b143e5"
