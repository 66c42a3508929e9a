package auth

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingDelay pads failed authentication responses so unknown-username and
// wrong-password outcomes take comparable time. bcrypt already dominates
// the wrong-password path; this keeps the no-such-user path from returning
// visibly faster.
type TimingDelay struct {
	BaseDelay   time.Duration
	RandomDelay time.Duration
}

// Wait sleeps on failure; successes return immediately.
func (td *TimingDelay) Wait(success bool) {
	if td == nil || success {
		return
	}

	delay := td.BaseDelay
	if td.RandomDelay > 0 {
		delay += time.Duration(cryptoRandInt64(int64(td.RandomDelay)))
	}
	time.Sleep(delay)
}

// cryptoRandInt64 returns a random value in [0, max). crypto/rand rather
// than math/rand: the jitter exists to mask timing, so it must not be
// predictable.
func cryptoRandInt64(max int64) int64 {
	if max <= 0 {
		return 0
	}

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return 0
	}

	return int64(binary.BigEndian.Uint64(randomBytes) % uint64(max))
}
