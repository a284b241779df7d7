// Package identity derives a user's keys and address from a BIP-39 mnemonic
// and issues the signed tokens the overview server accepts for writes.
package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/scrypt"
	"lukechampine.com/blake3"
)

const (
	mnemonicEntropyBits = 256
	scryptSalt          = "vaultacks"
	contentKeyContext   = "vaultacks content key v1"
	addressPrefix       = "ST"
	addressHashBytes    = 20
)

// Identity holds the key material derived from a mnemonic.
type Identity struct {
	Address    string
	PublicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
	contentKey []byte
}

// NewMnemonic generates a fresh 24-word recovery phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// NormalizeMnemonic lowercases the phrase and collapses whitespace.
func NormalizeMnemonic(m string) string {
	return strings.Join(strings.Fields(strings.ToLower(m)), " ")
}

// FromMnemonic validates the phrase and derives the signing key pair, the
// content encryption key and the address. Derivation is deterministic.
func FromMnemonic(mnemonic string) (*Identity, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, common.ErrInvalidMnemonic
	}

	seed, err := scrypt.Key([]byte(mnemonic), []byte(scryptSalt), 32768, 8, 1, ed25519.SeedSize)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	defer common.WipeByteArray(seed)

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	h := blake3.New(32, seed)
	_, _ = h.Write([]byte(contentKeyContext))

	return &Identity{
		Address:    AddressFromPublicKey(pub),
		PublicKey:  pub,
		privateKey: priv,
		contentKey: h.Sum(nil),
	}, nil
}

// AddressFromPublicKey renders the user address for pub.
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	sum := blake3.Sum256(pub)
	return addressPrefix + strings.ToUpper(hex.EncodeToString(sum[:addressHashBytes]))
}

// ContentKey returns the AES-256 key protecting the user's private documents
// and blobs.
func (i *Identity) ContentKey() []byte {
	return i.contentKey
}

// Wipe zeroes the secret key material.
func (i *Identity) Wipe() {
	common.WipeByteArray(i.privateKey)
	common.WipeByteArray(i.contentKey)
}
