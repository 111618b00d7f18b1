package vault

import (
	"errors"
	"fmt"
	"time"
)

const (
	KeyLen   = 32
	NonceLen = 24
	Magic    = "PVLT"
	Version  = 0x01

	DefaultMaxAttempts    = 3
	DefaultCooldown       = 10 * time.Second
	DefaultMasterPassword = "admin123"
)

var (
	ErrValidation   = errors.New("vault: validation failed")
	ErrNotFound     = errors.New("vault: record not found")
	ErrAuthFailed   = errors.New("vault: authentication failed")
	ErrLocked       = errors.New("vault: locked")
	ErrReauthFailed = errors.New("vault: reauthorization failed")
	ErrInvalidKey   = errors.New("vault: invalid key length")
)

// CooldownError is returned by Reauthorize while the lockout cooldown is
// still running. It unwraps to ErrLocked.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("vault: locked, try again in %d seconds", int(e.Remaining.Seconds()))
}

func (e *CooldownError) Unwrap() error { return ErrLocked }

// Record is one stored entry. It is created by Store.Put and never mutated.
type Record struct {
	ID            string
	Ciphertext    string
	PasskeyDigest string
	CreatedAt     time.Time
}
