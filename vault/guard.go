package vault

import "time"

// Guard counts consecutive failed decrypt attempts. Once the count reaches
// maxAttempts it is locked until Reset.
type Guard struct {
	maxAttempts int
	cooldown    time.Duration
	now         func() time.Time

	failed int
	last   time.Time
}

func NewGuard(maxAttempts int, cooldown time.Duration, now func() time.Time) *Guard {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Guard{maxAttempts: maxAttempts, cooldown: cooldown, now: now}
}

// Fail records a failed attempt and reports whether the guard is now locked.
func (g *Guard) Fail() bool {
	g.failed++
	g.last = g.now()
	return g.Locked()
}

// Succeed clears the failure count after a successful decrypt.
func (g *Guard) Succeed() { g.failed = 0 }

// Reset unlocks the guard.
func (g *Guard) Reset() { g.failed = 0 }

func (g *Guard) Locked() bool { return g.failed >= g.maxAttempts }

func (g *Guard) Failures() int { return g.failed }

func (g *Guard) MaxAttempts() int { return g.maxAttempts }

func (g *Guard) LastAttempt() time.Time { return g.last }

// Remaining is the number of attempts left before lockout, never negative.
func (g *Guard) Remaining() int {
	if n := g.maxAttempts - g.failed; n > 0 {
		return n
	}
	return 0
}

// CooldownRemaining returns how long the login form stays withheld. It is
// zero when the guard is open or the cooldown has elapsed.
func (g *Guard) CooldownRemaining() time.Duration {
	if !g.Locked() {
		return 0
	}
	if left := g.cooldown - g.now().Sub(g.last); left > 0 {
		return left
	}
	return 0
}
