package bot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/adshao/go-binance/v2/common"
)

var (
	// ErrOperationFailed is matched by every error returned from a remote
	// operation, whatever its kind.
	ErrOperationFailed = errors.New("operation failed")

	// ErrInvalidInput is returned when user input cannot be parsed. No remote
	// call is made in that case.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind is a coarse classification of a remote failure.
type ErrorKind string

const (
	KindAuth           ErrorKind = "auth"
	KindRateLimit      ErrorKind = "rate_limit"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindRejected       ErrorKind = "rejected"
	KindNetwork        ErrorKind = "network"
	KindUnknown        ErrorKind = "unknown"
)

// OperationError wraps the error returned by the exchange for one facade
// operation.
type OperationError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

// KindOf returns the classification carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindUnknown
}

// classify maps an exchange error onto an ErrorKind using the Binance error
// code first and the message wording second.
func classify(err error) ErrorKind {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		if kind := kindFromCode(apiErr.Code); kind != KindUnknown {
			return kind
		}
		return kindFromMessage(apiErr.Message)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	return kindFromMessage(err.Error())
}

func kindFromCode(code int64) ErrorKind {
	switch {
	case code == -1003 || code == -1015:
		return KindRateLimit
	case code == -1002 || code == -1021 || code == -1022 || code == -2014 || code == -2015:
		return KindAuth
	case code <= -1100 && code >= -1199:
		return KindInvalidRequest
	case code <= -2010 && code >= -2099:
		return KindRejected
	case code <= -4000 && code >= -4999:
		return KindInvalidRequest
	}
	return KindUnknown
}

func kindFromMessage(msg string) ErrorKind {
	lowerMsg := strings.ToLower(msg)
	switch {
	case strings.Contains(lowerMsg, "too many requests") || strings.Contains(lowerMsg, "rate limit"):
		return KindRateLimit
	case strings.Contains(lowerMsg, "ip") && strings.Contains(lowerMsg, "ban"):
		return KindRateLimit
	case strings.Contains(lowerMsg, "api-key") || strings.Contains(lowerMsg, "signature"):
		return KindAuth
	}
	return KindUnknown
}
