// Package tokenstore persists the session's token pair. Implementations
// must keep the pair atomic: a store never holds an access token without
// its refresh token or vice versa.
package tokenstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load when nothing is stored. Absence of
	// the pair means "not logged in".
	ErrNotFound = errors.New("tokenstore: no tokens stored")
	// ErrPartialPair is returned by Save when only one half of the pair is
	// supplied, and by Load when storage is found corrupted that way.
	ErrPartialPair = errors.New("tokenstore: access and refresh tokens must be stored together")
)

// TokenPair is the unit of storage. Both fields are opaque strings minted
// by the backend.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether neither token is set.
func (p TokenPair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

func (p TokenPair) partial() bool {
	return (p.AccessToken == "") != (p.RefreshToken == "")
}

// Store is a durable keyed holder for exactly one TokenPair. All methods
// are safe for concurrent use.
type Store interface {
	// Save replaces the stored pair. Both tokens must be present.
	Save(ctx context.Context, pair TokenPair) error
	// Load returns the stored pair, or ErrNotFound.
	Load(ctx context.Context) (TokenPair, error)
	// Clear removes the stored pair. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error
}
