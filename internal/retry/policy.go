package retry

import (
	"context"
	"fmt"
	"time"
)

// BackoffMode selects how the delay grows between attempts.
type BackoffMode string

const (
	BackoffFixed       BackoffMode = "fixed"
	BackoffLinear      BackoffMode = "linear"
	BackoffExponential BackoffMode = "exponential"
)

// ParseBackoffMode accepts the names above; empty means linear.
func ParseBackoffMode(s string) (BackoffMode, error) {
	switch m := BackoffMode(s); m {
	case "":
		return BackoffLinear, nil
	case BackoffFixed, BackoffLinear, BackoffExponential:
		return m, nil
	default:
		return "", fmt.Errorf("unknown backoff mode %q (want fixed, linear or exponential)", s)
	}
}

// Policy holds retry/backoff settings for transient failures such as a
// notification server that is briefly unreachable. It is immutable after
// construction.
type Policy struct {
	Mode       BackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // attempts after the first failure
}

// DefaultPolicy is linear, 1s initial, 30s cap, 2 retries.
func DefaultPolicy() Policy {
	return Policy{Mode: BackoffLinear, Initial: time.Second, Max: 30 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy from raw config fields; zero or invalid values
// fall back to DefaultPolicy.
func NewPolicy(mode BackoffMode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case BackoffFixed, BackoffLinear, BackoffExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the wait before the given retry (1-based).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case BackoffFixed:
		return p.Initial
	case BackoffExponential:
		d := p.Initial
		for i := 1; i < retryCount && d < p.Max; i++ {
			d *= 2
		}
		return min(d, p.Max)
	default:
		return min(time.Duration(retryCount)*p.Initial, p.Max)
	}
}

func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// Do calls fn until it succeeds, the retries are used up or ctx is done.
// The last error from fn is returned; a cancelled wait returns ctx.Err().
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if attempt >= p.MaxRetries {
			return err
		}
		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
