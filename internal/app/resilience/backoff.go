package resilience

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
	"time"

	"dashboard_client/internal/domain/entity"

	"github.com/valyala/fasthttp"
)

const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 300 * time.Millisecond
)

// Policy is the bounded exponential backoff schedule.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultPolicy allows up to three attempts, waiting 300ms then 600ms.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// Schedule returns the wait before retry k (1-indexed): BaseDelay * 2^(k-1).
func (p Policy) Schedule(k int) time.Duration {
	if k < 1 {
		return 0
	}
	return p.BaseDelay * time.Duration(1<<uint(k-1))
}

// Attempts is the total number of attempts the policy allows.
func (p Policy) Attempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

var transientCodes = []error{
	syscall.ECONNABORTED,
	syscall.ECONNRESET,
	syscall.ETIMEDOUT,
	fasthttp.ErrTimeout,
	fasthttp.ErrDialTimeout,
	fasthttp.ErrConnectionClosed,
	context.DeadlineExceeded,
	os.ErrDeadlineExceeded,
}

// IsTransient reports whether err is likely to succeed on retry: no response was
// received, the server answered 5xx, or the error carries a connection-abort or
// timeout code. Everything else is permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *entity.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}

	var netErr *entity.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	for _, code := range transientCodes {
		if errors.Is(err, code) {
			return true
		}
	}

	var timeoutErr net.Error
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}
	return false
}
