package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"runtime"
)

// lightweight per-user obfuscation of values kept in the local database.
// Not a replacement for OS keychains but keeps bearer tokens out of plain text.

// Box seals strings with AES-GCM under a key derived from the local user.
type Box struct {
	key []byte
}

// NewBox derives the sealing key for app on this machine and user.
func NewBox(app string) *Box {
	base := fmt.Sprintf("%s-%s-%s", app, runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return &Box{key: hash[:]}
}

// Seal encrypts plain and returns it base64 encoded.
func (b *Box) Seal(plain string) (string, error) {
	ct, err := b.encrypt([]byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// Open reverses Seal.
func (b *Box) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	pt, err := b.decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func (b *Box) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(b.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (b *Box) encrypt(plain []byte) ([]byte, error) {
	gcm, err := b.gcm()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (b *Box) decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := b.gcm()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
