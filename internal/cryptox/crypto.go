// Package cryptox implements the content encryption used for private
// documents, private blobs, the shared overview document and shared blobs.
//
// Ciphertext travels as a small JSON envelope, so encrypted payloads are
// plain strings that can be stored as blobs or sent as an HTTP body.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/vaultacks/internal/common"
)

// KeySize is the required key length (AES-256).
const KeySize = 32

// Envelope is the serialized form of an encrypted payload.
type Envelope struct {
	IV         string `json:"iv"`
	CipherText string `json:"cipherText"`
	WasString  bool   `json:"wasString"`
}

// ParseKeyHex decodes a hex encoded AES-256 key.
func ParseKeyHex(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptContent seals plaintext with AES-GCM under key and returns the JSON
// envelope. A fresh random nonce is used for every call, so encrypting the
// same plaintext twice yields different output. wasString is carried in the
// envelope so readers know whether to treat the payload as text.
func EncryptContent(plaintext, key []byte, wasString bool) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	return json.Marshal(Envelope{
		IV:         hex.EncodeToString(nonce),
		CipherText: hex.EncodeToString(ciphertext),
		WasString:  wasString,
	})
}

// DecryptContent opens an envelope produced by EncryptContent. Every failure
// (malformed envelope, wrong key, tampering) is reported as common.ErrDecrypt.
func DecryptContent(data, key []byte) (plaintext []byte, wasString bool, err error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false, fmt.Errorf("%w: envelope: %v", common.ErrDecrypt, err)
	}

	nonce, err := hex.DecodeString(env.IV)
	if err != nil {
		return nil, false, fmt.Errorf("%w: iv: %v", common.ErrDecrypt, err)
	}
	ciphertext, err := hex.DecodeString(env.CipherText)
	if err != nil {
		return nil, false, fmt.Errorf("%w: ciphertext: %v", common.ErrDecrypt, err)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, false, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, false, fmt.Errorf("%w: bad nonce size %d", common.ErrDecrypt, len(nonce))
	}

	plaintext, err = aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", common.ErrDecrypt, err)
	}
	return plaintext, env.WasString, nil
}

// SealJSON serializes v to JSON and encrypts it as a string payload.
//
// Example:
//
//	doc := models.NewPrivateMetadata()
//	blob, err := cryptox.SealJSON(doc, userKey)
func SealJSON(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return EncryptContent(plaintext, key, true)
}

// OpenJSON decrypts data and unmarshals the plaintext into v.
func OpenJSON(data, key []byte, v any) error {
	plaintext, _, err := DecryptContent(data, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
