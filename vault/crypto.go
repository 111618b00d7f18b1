package vault

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var kdfInfo = []byte("passvault v1")

var tokenEncoding = base64.RawURLEncoding

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Digest returns the hex SHA-256 of passkey. It is only ever used for
// equality checks, never as key material.
func Digest(passkey string) string {
	sum := sha256.Sum256([]byte(passkey))
	return hex.EncodeToString(sum[:])
}

// DigestMatches reports whether passkey hashes to digest.
func DigestMatches(passkey, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(passkey)), []byte(digest)) == 1
}

// DeriveKey derives the cipher key from passkey. No salt is mixed in, so
// the same passkey always yields the same key.
func DeriveKey(passkey string) ([]byte, error) {
	master := sha256.Sum256([]byte(passkey))
	defer zero(master[:])

	h := hkdf.New(sha256.New, master[:], nil, kdfInfo)
	key := make([]byte, KeyLen)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals plaintext under key and returns a self-describing token:
// base64url(magic | version | nonce | ciphertext).
func Encrypt(plaintext string, key []byte) (string, error) {
	nonce, ct, err := aeadSeal(key, []byte(plaintext), []byte(Magic))
	if err != nil {
		return "", err
	}
	return tokenEncoding.EncodeToString(encodeToken(nonce, ct)), nil
}

// Decrypt opens a token produced by Encrypt. A wrong key and a malformed or
// tampered token both return ErrAuthFailed.
func Decrypt(token string, key []byte) (string, error) {
	if len(key) != KeyLen {
		return "", ErrInvalidKey
	}
	raw, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return "", ErrAuthFailed
	}
	nonce, ct, err := decodeToken(raw)
	if err != nil {
		return "", ErrAuthFailed
	}
	pt, err := aeadOpen(key, nonce, []byte(Magic), ct)
	if err != nil {
		return "", ErrAuthFailed
	}
	return string(pt), nil
}

func aeadSeal(key, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != KeyLen {
		return nil, nil, ErrInvalidKey
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, nil, err
	}
	nonce, err := randBytes(NonceLen)
	if err != nil {
		return nil, nil, fmt.Errorf("vault: nonce: %w", err)
	}
	return nonce, aead.Seal(nil, nonce, plaintext, aad), nil
}

func aeadOpen(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, aad)
}

func encodeToken(nonce, ct []byte) []byte {
	buf := &bytes.Buffer{}
	buf.Grow(len(Magic) + 1 + len(nonce) + len(ct))
	buf.WriteString(Magic)
	buf.WriteByte(Version)
	buf.Write(nonce)
	buf.Write(ct)
	return buf.Bytes()
}

func decodeToken(raw []byte) ([]byte, []byte, error) {
	hdr := len(Magic) + 1
	if len(raw) < hdr+NonceLen+chacha20poly1305.Overhead {
		return nil, nil, ErrAuthFailed
	}
	if string(raw[:len(Magic)]) != Magic {
		return nil, nil, ErrAuthFailed
	}
	if raw[len(Magic)] != Version {
		return nil, nil, ErrAuthFailed
	}
	nonce := raw[hdr : hdr+NonceLen]
	return nonce, raw[hdr+NonceLen:], nil
}
