package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/ports"
)

const (
	// EnvelopeType is the type_info of a stored encrypted document.
	EnvelopeType = "encrypted"
	// KeyPayload holds the base64 ciphertext inside the envelope.
	KeyPayload = "__encrypted__"
)

// ErrDecrypt is returned when no configured key opens a stored project.
var ErrDecrypt = errors.New("decryption failed with all available keys")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 16, 24 or 32 bytes.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt.
	// This enables key rotation without rewriting every project.
	FallbackKeys [][]byte
}

// ValidKeySize reports whether key selects AES-128, AES-192 or AES-256.
func ValidKeySize(key []byte) bool {
	switch len(key) {
	case 16, 24, 32:
		return true
	}
	return false
}

type encryptionMiddleware struct {
	next   ports.ProjectStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals every document
// with AES-GCM. The wrapped store only sees an envelope carrying the root
// tag and the ciphertext. It panics on an invalid active key size.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if !ValidKeySize(config.ActiveKey) {
		panic("active key must be 16, 24 or 32 bytes")
	}
	return func(next ports.ProjectStore) ports.ProjectStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, name string, doc *document.Document) error {
	plainText, err := document.EncodeArchive(doc)
	if err != nil {
		return err
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt project %q: %w", name, err)
	}

	envelope := &document.Document{
		Attributes: map[string]any{
			domain.KeyTag:      doc.Tag(),
			domain.KeyTypeInfo: EnvelopeType,
			KeyPayload:         base64.StdEncoding.EncodeToString(ciphertext),
		},
		Children: []*document.Document{},
	}
	return m.next.Save(ctx, name, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) (*document.Document, error) {
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	encoded, ok := envelope.Attributes[KeyPayload].(string)
	if !ok || envelope.TypeInfo() != EnvelopeType {
		// Plain projects are rejected rather than passed through.
		return nil, fmt.Errorf("%w: project %q is not encrypted", domain.ErrMalformedDocument, name)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %w", domain.ErrMalformedDocument, err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return document.DecodeArchive(plainText)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, ErrDecrypt
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
