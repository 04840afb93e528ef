package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// attemptScript counts one login attempt and arms the window on the first
// one. A counter found without an expiry is re-armed so it cannot lock the
// email out forever.
var attemptScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// LoginThrottle counts login attempts per email in a fixed window.
// Key format: login:fail:<email>
//
// The window starts at the first attempt and is not extended by later ones.
// A successful login clears the counter.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Attempt records one login attempt and reports whether it may proceed.
// Counting and checking happen in one server-side step, so concurrent
// attempts cannot all slip under the limit. A non-positive limit disables
// throttling.
func (t *LoginThrottle) Attempt(ctx context.Context, email string) (bool, error) {
	if t.maxAttempts <= 0 {
		return true, nil
	}
	n, err := attemptScript.Run(ctx, t.client, []string{throttleKey(email)}, t.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("login throttle attempt: %w", err)
	}
	return n <= t.maxAttempts, nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if t.maxAttempts <= 0 {
		return nil
	}
	if err := t.client.Del(ctx, throttleKey(email)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func throttleKey(email string) string {
	return "login:fail:" + email
}
