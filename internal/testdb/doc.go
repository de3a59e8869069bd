// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests skip themselves when no database URL is set.
//
// Every test runs inside a transaction that is rolled back on completion,
// so tests can share one database without cleaning up after themselves.
package testdb
