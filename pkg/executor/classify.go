package executor

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// Outcome is the classification of one submission attempt.
type Outcome int

const (
	// Confirmed means the transaction was mined with a success status.
	Confirmed Outcome = iota
	// RateLimited means the endpoint rejected the request for sending too fast.
	RateLimited
	// NetworkFailure means the endpoint was unreachable or timed out.
	NetworkFailure
	// FatalError means the request itself is bad and retrying wastes attempts.
	FatalError
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case RateLimited:
		return "rate_limited"
	case NetworkFailure:
		return "network_failure"
	case FatalError:
		return "fatal_error"
	}
	return "unknown"
}

// classifyRule maps known error message fragments to an outcome. The table is
// data driven so new endpoint error formats can be added without touching the
// retry loop.
type classifyRule struct {
	outcome    Outcome
	substrings []string
}

var classifyRules = []classifyRule{
	{RateLimited, []string{
		"429",
		"too many requests",
		"rate limit",
		"request limit reached",
		"exceeded the quota",
		"daily request count exceeded",
	}},
	{NetworkFailure, []string{
		"connection refused",
		"connection reset",
		"timeout",
		"timed out",
		"context deadline exceeded",
		"no such host",
		"dial tcp",
		"network is unreachable",
		"tls handshake",
		"no response",
		"not connected",
		"eof",
	}},
}

// Classify maps a raw submission error to an attempt outcome. Anything not
// recognized as a rate limit or a network failure is fatal: contract reverts
// and invalid arguments do not get better with retries.
func Classify(err error) Outcome {
	if err == nil {
		return Confirmed
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return RateLimited
		}
		if httpErr.StatusCode >= http.StatusInternalServerError {
			return NetworkFailure
		}
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range classifyRules {
		for _, substring := range rule.substrings {
			if strings.Contains(msg, substring) {
				return rule.outcome
			}
		}
	}
	return FatalError
}
