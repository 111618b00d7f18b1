package vault

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/fahmaliyi/passvault/logging"
)

type Page int

const (
	PageHome Page = iota
	PageStore
	PageRetrieve
	PageLogin
)

var pageNames = [...]string{"Home", "Store", "Retrieve", "Login"}

func (p Page) String() string {
	if p < 0 || int(p) >= len(pageNames) {
		return fmt.Sprintf("Page(%d)", int(p))
	}
	return pageNames[p]
}

func (p Page) valid() bool { return p >= PageHome && p <= PageLogin }

func ParsePage(s string) (Page, error) {
	for i, name := range pageNames {
		if strings.EqualFold(s, name) {
			return Page(i), nil
		}
	}
	return PageHome, fmt.Errorf("%w: unknown page %q", ErrValidation, s)
}

type Options struct {
	MaxAttempts    int
	Cooldown       time.Duration
	MasterPassword string
	Logger         logging.Logger
	Now            func() time.Time
}

// Session is the per-user state: the attempt guard, the chosen page and a
// reference to the record store. Create one when a user session starts
// and drop it when the session ends.
type Session struct {
	store  *Store
	guard  *Guard
	page   Page
	master string
	log    logging.Logger
}

func NewSession(store *Store, opts Options) *Session {
	if store == nil {
		store = NewStore()
	}
	if opts.Cooldown == 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.MasterPassword == "" {
		opts.MasterPassword = DefaultMasterPassword
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Session{
		store:  store,
		guard:  NewGuard(opts.MaxAttempts, opts.Cooldown, opts.Now),
		page:   PageHome,
		master: opts.MasterPassword,
		log:    opts.Logger,
	}
}

// Navigate records the user's page choice. While locked the choice is kept
// but ActivePage still reports Login.
func (s *Session) Navigate(p Page) error {
	if !p.valid() {
		return fmt.Errorf("%w: unknown page %d", ErrValidation, int(p))
	}
	if p != s.page {
		s.log.Debug("navigate", "from", s.page.String(), "to", p.String())
	}
	s.page = p
	return nil
}

func (s *Session) ActivePage() Page {
	if s.guard.Locked() {
		return PageLogin
	}
	return s.page
}

// StoreText encrypts text under passkey and stores it, returning the new
// record id.
func (s *Session) StoreText(text, passkey, confirm string) (string, error) {
	if text == "" || passkey == "" || confirm == "" {
		return "", fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if passkey != confirm {
		return "", fmt.Errorf("%w: passkeys do not match", ErrValidation)
	}
	if s.guard.Locked() {
		return "", ErrLocked
	}

	key, err := DeriveKey(passkey)
	if err != nil {
		return "", err
	}
	defer zero(key)

	token, err := Encrypt(text, key)
	if err != nil {
		return "", err
	}
	id, err := s.store.Put(token, Digest(passkey))
	if err != nil {
		return "", err
	}
	s.log.Info("record stored", "id", id, "records", s.store.Len())
	return id, nil
}

// Retrieve decrypts the record id with passkey. A wrong passkey returns
// ErrAuthFailed and counts towards the lockout.
func (s *Session) Retrieve(id, passkey string) (string, error) {
	if id == "" || passkey == "" {
		return "", fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if s.guard.Locked() {
		return "", ErrLocked
	}

	rec, err := s.store.Get(id)
	if err != nil {
		s.log.Info("record lookup failed", "id", id)
		return "", fmt.Errorf("%w: %s", err, id)
	}

	if !DigestMatches(passkey, rec.PasskeyDigest) {
		return "", s.fail(id)
	}

	key, err := DeriveKey(passkey)
	if err != nil {
		return "", err
	}
	defer zero(key)

	pt, err := Decrypt(rec.Ciphertext, key)
	if err != nil {
		return "", s.fail(id)
	}

	s.guard.Succeed()
	s.log.Info("record retrieved", "id", id)
	return pt, nil
}

func (s *Session) fail(id string) error {
	locked := s.guard.Fail()
	s.log.Warn("decrypt attempt failed", "id", id, "failures", s.guard.Failures(), "remaining", s.guard.Remaining())
	if locked {
		s.log.Warn("session locked", "cooldown", s.guard.CooldownRemaining().String())
	}
	return ErrAuthFailed
}

// Reauthorize checks the master password. It is refused with a
// CooldownError until the cooldown has elapsed. Failures never count
// towards the lockout.
func (s *Session) Reauthorize(master string) error {
	if left := s.guard.CooldownRemaining(); left > 0 {
		return &CooldownError{Remaining: left}
	}
	if subtle.ConstantTimeCompare([]byte(master), []byte(s.master)) != 1 {
		s.log.Warn("reauthorization failed")
		return ErrReauthFailed
	}
	s.guard.Reset()
	s.page = PageHome
	s.log.Info("reauthorized")
	return nil
}

func (s *Session) Locked() bool { return s.guard.Locked() }

func (s *Session) Failures() int { return s.guard.Failures() }

func (s *Session) AttemptsRemaining() int { return s.guard.Remaining() }

func (s *Session) CooldownRemaining() time.Duration { return s.guard.CooldownRemaining() }

// CooldownSeconds is CooldownRemaining truncated to whole seconds.
func (s *Session) CooldownSeconds() int { return int(s.guard.CooldownRemaining().Seconds()) }

// LoginOffered reports whether the master password form may be shown.
func (s *Session) LoginOffered() bool { return s.guard.CooldownRemaining() == 0 }

func (s *Session) RecordCount() int { return s.store.Len() }

func (s *Session) RecordIDs() []string { return s.store.IDs() }
