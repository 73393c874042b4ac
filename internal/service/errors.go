package service

import "errors"

var (
	// ErrUpstreamUnavailable covers connection failures, DNS failures and
	// bodies cut off mid-read.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
)
