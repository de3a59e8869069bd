// Package store defines the persistence interfaces used by the services.
//
// Implementations live under internal/platform. Every interface returns the
// sentinel errors declared in errors.go (wrapped with context) so that callers
// can branch with errors.Is without knowing the backing database.
package store
