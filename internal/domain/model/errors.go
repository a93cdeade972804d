// Package model contains the core entities: users, pull requests, samples and
// the rollup value types derived from them.
package model

import "errors"

var (
	// ErrUnknownPullRequest signals an append referencing a pull request id
	// the store has never seen.
	ErrUnknownPullRequest = errors.New("unknown pull request")
	// ErrInvalidStatusEncoding signals a persisted status string that cannot
	// be decoded, i.e. data corruption.
	ErrInvalidStatusEncoding = errors.New("invalid status encoding")
)
