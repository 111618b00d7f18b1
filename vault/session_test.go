package vault

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fahmaliyi/passvault/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *fakeClock) {
	t.Helper()
	clk := newClock()
	s := NewSession(NewStore(), Options{
		MaxAttempts:    3,
		Cooldown:       10 * time.Second,
		MasterPassword: "admin123",
		Now:            clk.Now,
	})
	return s, clk
}

func TestSession_StoreAndRetrieveScenario(t *testing.T) {
	s, clk := newTestSession(t)

	id, err := s.StoreText("secret-note", "pass1", "pass1")
	require.NoError(t, err)

	got, err := s.Retrieve(id, "pass1")
	require.NoError(t, err)
	assert.Equal(t, "secret-note", got)

	_, err = s.Retrieve(id, "wrong")
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, 1, s.Failures())
	assert.Equal(t, 2, s.AttemptsRemaining())

	require.NoError(t, s.Navigate(PageStore))
	for i := 0; i < 2; i++ {
		_, err = s.Retrieve(id, "wrong")
		assert.ErrorIs(t, err, ErrAuthFailed)
	}
	assert.Equal(t, 3, s.Failures())
	assert.True(t, s.Locked())
	assert.Equal(t, PageLogin, s.ActivePage())

	clk.Advance(10 * time.Second)
	require.NoError(t, s.Reauthorize("admin123"))
	assert.Equal(t, 0, s.Failures())
	assert.Equal(t, PageHome, s.ActivePage())

	got, err = s.Retrieve(id, "pass1")
	require.NoError(t, err)
	assert.Equal(t, "secret-note", got)
}

func TestSession_StoreValidation(t *testing.T) {
	s, _ := newTestSession(t)

	cases := []struct {
		name                   string
		text, passkey, confirm string
	}{
		{"mismatch", "secret-note", "pass1", "pass2"},
		{"empty text", "", "pass1", "pass1"},
		{"empty passkey", "secret-note", "", "pass1"},
		{"empty confirm", "secret-note", "pass1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := s.StoreText(tc.text, tc.passkey, tc.confirm)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, id)
			assert.Zero(t, s.RecordCount())
		})
	}
}

func TestSession_RetrieveValidationAndNotFound(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Retrieve("", "pass1")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Retrieve("id", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Retrieve("missing", "pass1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Zero(t, s.Failures(), "validation and not-found never count")
}

func TestSession_SuccessResetsCounter(t *testing.T) {
	s, _ := newTestSession(t)
	id, err := s.StoreText("note", "pass1", "pass1")
	require.NoError(t, err)

	s.Retrieve(id, "wrong")
	s.Retrieve(id, "wrong")
	assert.Equal(t, 2, s.Failures())

	_, err = s.Retrieve(id, "pass1")
	require.NoError(t, err)
	assert.Zero(t, s.Failures())
}

func TestSession_FailuresAcrossRecords(t *testing.T) {
	s, _ := newTestSession(t)
	a, _ := s.StoreText("a", "ka", "ka")
	b, _ := s.StoreText("b", "kb", "kb")

	s.Retrieve(a, "kb")
	s.Retrieve(b, "ka")
	s.Retrieve(a, "x")
	assert.True(t, s.Locked())
}

func TestSession_CorruptCiphertextCountsAsFailure(t *testing.T) {
	s, _ := newTestSession(t)
	id, err := s.store.Put("garbage", Digest("pass1"))
	require.NoError(t, err)

	_, err = s.Retrieve(id, "pass1")
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, 1, s.Failures())
}

func TestSession_LockedRefusesSubmissions(t *testing.T) {
	s, _ := newTestSession(t)
	id, _ := s.StoreText("note", "pass1", "pass1")
	for i := 0; i < 3; i++ {
		s.Retrieve(id, "wrong")
	}

	_, err := s.Retrieve(id, "pass1")
	assert.ErrorIs(t, err, ErrLocked)
	_, err = s.Retrieve(id, "wrong")
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, 3, s.Failures())
	assert.Zero(t, s.AttemptsRemaining())

	_, err = s.StoreText("x", "k", "k")
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, 1, s.RecordCount())

	require.NoError(t, s.Navigate(PageRetrieve))
	assert.Equal(t, PageLogin, s.ActivePage())
}

func TestSession_ReauthCooldown(t *testing.T) {
	s, clk := newTestSession(t)
	id, _ := s.StoreText("note", "pass1", "pass1")
	for i := 0; i < 3; i++ {
		s.Retrieve(id, "wrong")
	}

	assert.False(t, s.LoginOffered())
	assert.Equal(t, 10, s.CooldownSeconds())

	err := s.Reauthorize("admin123")
	var cd *CooldownError
	require.True(t, errors.As(err, &cd))
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, 10*time.Second, cd.Remaining)

	clk.Advance(2700 * time.Millisecond)
	assert.Equal(t, 7, s.CooldownSeconds())
	assert.False(t, s.LoginOffered())

	clk.Advance(7300 * time.Millisecond)
	assert.True(t, s.LoginOffered())
	assert.Zero(t, s.CooldownSeconds())
	assert.True(t, s.Locked(), "still locked until reauthorized")
}

func TestSession_ReauthFailureDoesNotCount(t *testing.T) {
	s, clk := newTestSession(t)
	id, _ := s.StoreText("note", "pass1", "pass1")
	for i := 0; i < 3; i++ {
		s.Retrieve(id, "wrong")
	}
	clk.Advance(11 * time.Second)

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, s.Reauthorize("nope"), ErrReauthFailed)
	}
	assert.Equal(t, 3, s.Failures())
	assert.True(t, s.LoginOffered(), "login failures do not restart the cooldown")
	assert.Equal(t, PageLogin, s.ActivePage())

	require.NoError(t, s.Reauthorize("admin123"))
	assert.False(t, s.Locked())
}

func TestSession_ReauthWhenOpen(t *testing.T) {
	s, _ := newTestSession(t)
	id, _ := s.StoreText("note", "pass1", "pass1")
	s.Retrieve(id, "wrong")
	require.NoError(t, s.Navigate(PageLogin))

	require.NoError(t, s.Reauthorize("admin123"))
	assert.Zero(t, s.Failures())
	assert.Equal(t, PageHome, s.ActivePage())
}

func TestSession_Navigate(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, PageHome, s.ActivePage())

	for _, p := range []Page{PageStore, PageRetrieve, PageLogin, PageHome} {
		require.NoError(t, s.Navigate(p))
		assert.Equal(t, p, s.ActivePage())
	}

	assert.ErrorIs(t, s.Navigate(Page(42)), ErrValidation)
	assert.Equal(t, PageHome, s.ActivePage())
}

func TestSession_InjectedMasterPassword(t *testing.T) {
	s := NewSession(nil, Options{MasterPassword: "hunter2"})
	assert.ErrorIs(t, s.Reauthorize("admin123"), ErrReauthFailed)
	assert.NoError(t, s.Reauthorize("hunter2"))
}

func TestSession_DoesNotLogSecrets(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(&buf, "debug")
	require.NoError(t, err)

	clk := newClock()
	s := NewSession(NewStore(), Options{Logger: log, Now: clk.Now})
	id, err := s.StoreText("top-secret-text", "my-passkey", "my-passkey")
	require.NoError(t, err)
	s.Retrieve(id, "guess-one")
	s.Retrieve(id, "my-passkey")
	s.Reauthorize("admin123")

	out := buf.String()
	assert.Contains(t, out, id)
	for _, secret := range []string{"top-secret-text", "my-passkey", "guess-one", "admin123"} {
		assert.NotContains(t, out, secret)
	}
}

func TestPage_StringAndParse(t *testing.T) {
	assert.Equal(t, "Retrieve", PageRetrieve.String())
	assert.Equal(t, "Page(9)", Page(9).String())

	p, err := ParsePage("login")
	require.NoError(t, err)
	assert.Equal(t, PageLogin, p)

	_, err = ParsePage("settings")
	assert.ErrorIs(t, err, ErrValidation)
}
